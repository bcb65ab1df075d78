package solver

import (
	"time"

	"pos-saas/internal/domain"
)

// dayState tracks one real staff member's running work pattern across a
// single date's hours, enough to enforce the 6-consecutive-hour bound, the
// break-start counter, and the long-shift break requirement without
// representing the full reified b[s,d,h] variable set explicitly.
type dayState struct {
	consecutiveWorked int
	breakStarts       int
	totalWorked       int
	workedLastHour    bool
	forcedReturn      bool // true when the previous hour was a break start; this hour must work
}

// legallyBlocked reports hard legal constraints that no break-return rule
// may override: the high-schooler night ban and the international weekly
// cap.
func (s *dayState) legallyBlocked(hour int, staff domain.Staff, weeklyInternationalHours int) bool {
	if staff.Status == domain.StaffStatusHighSchool && hour >= 22 {
		return true
	}
	if staff.Status == domain.StaffStatusInternational && weeklyInternationalHours >= 28 {
		return true
	}
	return false
}

// canWork reports whether staff may legally be assigned this hour given
// their accumulated state for the day, independent of coverage/skill-floor
// decisions made by the caller.
func (s *dayState) canWork(hour int, staff domain.Staff, weeklyInternationalHours int) bool {
	if s.legallyBlocked(hour, staff, weeklyInternationalHours) {
		return false
	}
	if s.forcedReturn {
		return true
	}
	if s.consecutiveWorked >= 5 {
		return false
	}
	return true
}

// mustWork reports whether the break-start constraint (x[s,d,h+1] ≥
// b[s,d,h]) forces this staff member to work this hour. A hard legal block
// (night ban, weekly cap) always takes precedence over this rule.
func (s *dayState) mustWork(hour int, staff domain.Staff, weeklyInternationalHours int) bool {
	return s.forcedReturn && !s.legallyBlocked(hour, staff, weeklyInternationalHours)
}

// record updates state after a hire/no-hire decision for the hour.
func (s *dayState) record(worked bool) {
	if worked {
		if !s.workedLastHour {
			s.forcedReturn = false
		}
		s.consecutiveWorked++
		s.totalWorked++
		s.workedLastHour = true
		return
	}

	if s.workedLastHour {
		// 1→0 transition: a break starts.
		s.breakStarts++
		s.forcedReturn = true
	} else {
		s.forcedReturn = false
	}
	s.consecutiveWorked = 0
	s.workedLastHour = false
}

// canAffordBreak reports whether assigning one more break-start this day
// would exceed the at-most-3 cap.
func (s *dayState) canAffordBreak() bool {
	return s.breakStarts < 3
}

// longShiftNeedsBreak reports whether a day that ends with >6 worked hours
// and zero break starts violates the long-shift break requirement.
func (s *dayState) longShiftNeedsBreak() bool {
	return s.totalWorked > 6 && s.breakStarts == 0
}

// weeklyHourTracker accumulates international-staff hours across the whole
// scheduling window, since their cap (spec.md: ≤28) is window-wide, not
// per-day.
type weeklyHourTracker struct {
	hours map[int]int
}

func newWeeklyHourTracker() *weeklyHourTracker {
	return &weeklyHourTracker{hours: make(map[int]int)}
}

func (t *weeklyHourTracker) get(staffID int) int {
	return t.hours[staffID]
}

func (t *weeklyHourTracker) add(staffID int, n int) {
	t.hours[staffID] += n
}

// byDate groups grid rows by calendar date, preserving the grid's canonical
// (date, hour, staff_id) ordering within each group.
func byDate(grid []domain.HourSlot) ([]time.Time, map[string][]domain.HourSlot) {
	order := make([]time.Time, 0)
	groups := make(map[string][]domain.HourSlot)
	seen := make(map[string]bool)
	for _, slot := range grid {
		key := slot.Date.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			order = append(order, slot.Date)
		}
		groups[key] = append(groups[key], slot)
	}
	return order, groups
}

// byHour groups one date's rows by hour, preserving staff_id order within
// each hour.
func byHour(dayRows []domain.HourSlot) ([]int, map[int][]domain.HourSlot) {
	order := make([]int, 0, domain.LastHour-domain.FirstHour+1)
	groups := make(map[int][]domain.HourSlot)
	seen := make(map[int]bool)
	for _, slot := range dayRows {
		if !seen[slot.Hour] {
			seen[slot.Hour] = true
			order = append(order, slot.Hour)
		}
		groups[slot.Hour] = append(groups[slot.Hour], slot)
	}
	return order, groups
}
