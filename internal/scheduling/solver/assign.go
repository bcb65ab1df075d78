package solver

import (
	"sort"

	"pos-saas/internal/domain"
)

// candidateOrder ranks real-staff candidates for a single hour. cpsatOrder
// prefers higher-level staff first (cheapest path to satisfying the skill
// floor) then staff with fewer hours worked so far today (spreads load).
// greedyOrder just preserves grid order (staff_id ascending) — a simpler,
// non-repairing pass.
type candidateOrder func(candidates []domain.HourSlot, states map[int]*dayState) []domain.HourSlot

func cpsatOrder(candidates []domain.HourSlot, states map[int]*dayState) []domain.HourSlot {
	ordered := append([]domain.HourSlot(nil), candidates...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		aWorked, bWorked := 0, 0
		if s := states[a.StaffID]; s != nil {
			aWorked = s.totalWorked
		}
		if s := states[b.StaffID]; s != nil {
			bWorked = s.totalWorked
		}
		if aWorked != bWorked {
			return aWorked < bWorked
		}
		return a.StaffID < b.StaffID
	})
	return ordered
}

func greedyOrder(candidates []domain.HourSlot, states map[int]*dayState) []domain.HourSlot {
	ordered := append([]domain.HourSlot(nil), candidates...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].StaffID < ordered[j].StaffID })
	return ordered
}

// assignHour decides the assigned staff set for one (date, hour), honoring
// coverage, skill floor, and the legal/break constraints tracked in states
// and weekly. Returns the assigned rows (including overflow rows when
// needed).
func assignHour(rows []domain.HourSlot, states map[int]*dayState, weekly *weeklyHourTracker, order candidateOrder) []domain.HourSlot {
	var overflowRow domain.HourSlot
	var realCandidates []domain.HourSlot
	for _, row := range rows {
		if row.IsOverflow() {
			overflowRow = row
			continue
		}
		if !row.PreferenceAllowed {
			continue
		}
		realCandidates = append(realCandidates, row)
	}

	target := domain.CoverageTarget(overflowRow.PredSalesPerHour)

	// Staff forced back from a break must work regardless of target/order.
	var forced []domain.HourSlot
	var eligible []domain.HourSlot
	for _, row := range realCandidates {
		state := stateFor(states, row.StaffID)
		staffInfo := domain.Staff{Status: row.Status, Level: row.Level}
		mustWork := state.mustWork(row.Hour, staffInfo, weekly.get(row.StaffID))
		if !state.canWork(row.Hour, staffInfo, weekly.get(row.StaffID)) && !mustWork {
			continue
		}
		if mustWork {
			forced = append(forced, row)
		} else {
			eligible = append(eligible, row)
		}
	}

	assigned := append([]domain.HourSlot(nil), forced...)
	hasSkillFloor := false
	for _, row := range assigned {
		if row.Level >= 3 {
			hasSkillFloor = true
		}
	}

	ordered := order(eligible, states)
	for _, row := range ordered {
		if len(assigned) >= target {
			break
		}
		assigned = append(assigned, row)
		if row.Level >= 3 {
			hasSkillFloor = true
		}
	}

	// Skill floor repair: if target reached without a level>=3 staffer and a
	// qualifying candidate was passed over, swap the lowest-level
	// non-forced assignment for it.
	if !hasSkillFloor && len(assigned) >= target {
		for _, row := range ordered {
			if row.Level < 3 {
				continue
			}
			if containsStaff(assigned, row.StaffID) {
				continue
			}
			if swapped := swapInQualified(assigned, forced, row); swapped != nil {
				assigned = swapped
				hasSkillFloor = true
				break
			}
		}
	}

	// Fill any remaining coverage gap, and satisfy the skill floor via
	// overflow when no real candidate qualifies.
	for len(assigned) < target {
		assigned = append(assigned, overflowRow)
	}
	if !hasSkillFloor && !containsOverflow(assigned) {
		if len(assigned) > 0 && !isForcedRow(assigned[len(assigned)-1], forced) {
			assigned[len(assigned)-1] = overflowRow
		} else {
			assigned = append(assigned, overflowRow)
		}
	}

	// Record per-staff day state for every real candidate considered this
	// hour, assigned or not, so consecutive-hour/break tracking stays
	// accurate even for staff who were eligible but not picked.
	pickedSet := make(map[int]bool, len(assigned))
	for _, row := range assigned {
		if !row.IsOverflow() {
			pickedSet[row.StaffID] = true
		}
	}
	for _, row := range realCandidates {
		state := stateFor(states, row.StaffID)
		worked := pickedSet[row.StaffID]
		state.record(worked)
		if worked {
			weekly.add(row.StaffID, 1)
		}
	}

	return assigned
}

func stateFor(states map[int]*dayState, staffID int) *dayState {
	if s, ok := states[staffID]; ok {
		return s
	}
	s := &dayState{}
	states[staffID] = s
	return s
}

func containsStaff(rows []domain.HourSlot, staffID int) bool {
	for _, r := range rows {
		if r.StaffID == staffID {
			return true
		}
	}
	return false
}

func containsOverflow(rows []domain.HourSlot) bool {
	for _, r := range rows {
		if r.IsOverflow() {
			return true
		}
	}
	return false
}

func isForcedRow(row domain.HourSlot, forced []domain.HourSlot) bool {
	for _, f := range forced {
		if f.StaffID == row.StaffID {
			return true
		}
	}
	return false
}

// swapInQualified replaces the lowest-level non-forced member of assigned
// with candidate, preserving the assigned count (and therefore the coverage
// total).
func swapInQualified(assigned, forced []domain.HourSlot, candidate domain.HourSlot) []domain.HourSlot {
	worstIdx := -1
	for i, row := range assigned {
		if isForcedRow(row, forced) {
			continue
		}
		if worstIdx == -1 || row.Level < assigned[worstIdx].Level {
			worstIdx = i
		}
	}
	if worstIdx == -1 {
		return nil
	}
	out := append([]domain.HourSlot(nil), assigned...)
	out[worstIdx] = candidate
	return out
}
