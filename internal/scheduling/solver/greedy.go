package solver

import (
	"context"
	"time"

	"pos-saas/internal/domain"
)

// GreedySolver is the second, pluggable Solver implementation named in
// spec.md §9 ("a second [...] should be pluggable without changing the
// engine"). It runs the same per-hour constructive pass as CPSATSolver but
// in grid order rather than level-first, and skips the long-shift
// local-repair pass — a simpler, faster, more overflow-hungry heuristic
// useful as a baseline to compare schedules against.
type GreedySolver struct{}

// NewGreedySolver constructs the greedy solver.
func NewGreedySolver() *GreedySolver {
	return &GreedySolver{}
}

// Solve assigns staff to every (date, hour) in grid within budget using
// grid-order candidate selection and no repair pass.
func (s *GreedySolver) Solve(ctx context.Context, grid []domain.HourSlot, start, end time.Time, budget time.Duration) (Status, []domain.Assignment, error) {
	if budget <= 0 {
		budget = DefaultBudget
	}
	solveCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	dates, byDateGroups := byDate(grid)
	weekly := newWeeklyHourTracker()
	var assignments []domain.Assignment

	for _, date := range dates {
		select {
		case <-solveCtx.Done():
			return StatusTimeout, assignments, nil
		default:
		}

		key := date.Format("2006-01-02")
		hours, byHourGroups := byHour(byDateGroups[key])
		states := make(map[int]*dayState)

		for _, hour := range hours {
			rows := byHourGroups[hour]
			assigned := assignHour(rows, states, weekly, greedyOrder)
			for _, row := range assigned {
				assignments = append(assignments, toAssignment(row))
			}
		}
	}

	return StatusFeasible, assignments, nil
}
