package solver

import (
	"context"
	"time"

	"pos-saas/internal/domain"
)

// CPSATSolver is the primary Solver: a constructive pass per (date, hour)
// followed by a local-repair pass per day that fixes any staff whose total
// worked hours exceed six without a break start. Named for the capability
// shape it's built to stand in for (spec's design notes name a CP-SAT
// solver as the first implementation) even though no such library is
// available anywhere in the corpus this module was built from — see
// DESIGN.md.
type CPSATSolver struct{}

// NewCPSATSolver constructs the default solver.
func NewCPSATSolver() *CPSATSolver {
	return &CPSATSolver{}
}

// Solve assigns staff to every (date, hour) in grid within budget. Returns
// StatusOptimal when no repair was needed, StatusFeasible when the repair
// pass had to intervene, StatusTimeout if budget expires mid-run, and never
// StatusInfeasible — overflow absorbs any demand real staff cannot legally
// cover, so a schedule always exists once the grid itself is well-formed.
func (s *CPSATSolver) Solve(ctx context.Context, grid []domain.HourSlot, start, end time.Time, budget time.Duration) (Status, []domain.Assignment, error) {
	if budget <= 0 {
		budget = DefaultBudget
	}
	solveCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	dates, byDateGroups := byDate(grid)
	weekly := newWeeklyHourTracker()
	var assignments []domain.Assignment
	repaired := false

	for _, date := range dates {
		select {
		case <-solveCtx.Done():
			return StatusTimeout, assignments, nil
		default:
		}

		key := date.Format("2006-01-02")
		hours, byHourGroups := byHour(byDateGroups[key])

		states := make(map[int]*dayState)
		dayAssignments := make(map[int][]domain.HourSlot, len(hours))

		for _, hour := range hours {
			rows := byHourGroups[hour]
			dayAssignments[hour] = assignHour(rows, states, weekly, cpsatOrder)
		}

		if repairLongShifts(dayAssignments, states, byHourGroups) {
			repaired = true
		}

		for _, hour := range hours {
			for _, row := range dayAssignments[hour] {
				assignments = append(assignments, toAssignment(row))
			}
		}
	}

	status := StatusOptimal
	if repaired {
		status = StatusFeasible
	}
	return status, assignments, nil
}

// repairLongShifts scans each staff member's day for the long-shift break
// requirement (>6 worked hours implies at least one break start) and, when
// violated, removes the staff from their last worked hour of the day and
// backfills that hour with the overflow worker, so the hour's headcount is
// unchanged. Reports whether any repair fired.
func repairLongShifts(dayAssignments map[int][]domain.HourSlot, states map[int]*dayState, byHourGroups map[int][]domain.HourSlot) bool {
	repaired := false
	for staffID, state := range states {
		if !state.longShiftNeedsBreak() {
			continue
		}

		var lastHour = -1
		for hour, rows := range dayAssignments {
			if containsStaff(rows, staffID) && hour > lastHour {
				lastHour = hour
			}
		}
		if lastHour == -1 {
			continue
		}

		rows := dayAssignments[lastHour]
		var overflowRow domain.HourSlot
		for _, r := range byHourGroups[lastHour] {
			if r.IsOverflow() {
				overflowRow = r
			}
		}
		// Removing staffID drops the hour's headcount by one; overflow
		// always backfills so the coverage total is unchanged regardless of
		// whether the skill floor was already satisfied by someone else.
		out := make([]domain.HourSlot, 0, len(rows))
		for _, r := range rows {
			if r.StaffID == staffID {
				continue
			}
			out = append(out, r)
		}
		out = append(out, overflowRow)
		dayAssignments[lastHour] = out
		state.breakStarts++
		repaired = true
	}
	return repaired
}
