// Package solver implements the constraint scheduler (spec's C5): it turns a
// scheduling grid into a set of per-hour staff assignments satisfying the
// coverage, skill-floor, legal, and break-pattern constraints, minimizing use
// of the synthetic overflow worker.
//
// No example repo in the retrieved corpus imports an ILP/CP-SAT/MIP solver
// library, so this package is a hand-rolled constructive + local-repair
// engine rather than a binding onto a third-party solver (see DESIGN.md).
// It has no constraint-model API (no NewBool/AddLinearConstraint/AddReified/
// Minimize): the constraints are applied directly by the per-hour
// assignment pass in assign.go and the day-level repair in cpsat.go, and
// Solver.Solve is the package's only entry point.
package solver

import (
	"context"
	"time"

	"pos-saas/internal/domain"
)

// Status is the outcome of a solve attempt.
type Status string

const (
	StatusOptimal     Status = "OPTIMAL"
	StatusFeasible    Status = "FEASIBLE"
	StatusInfeasible  Status = "INFEASIBLE"
	StatusTimeout     Status = "TIMEOUT"
)

// DefaultBudget is the wall-clock cap on a solve call, per spec.md §4.5.
const DefaultBudget = 10 * time.Second

// Solver turns a grid into assignments. Two implementations satisfy it:
// CPSATSolver (constructive + local repair) and GreedySolver (single-pass,
// no repair) — selected by the engine, swappable without changing callers.
type Solver interface {
	Solve(ctx context.Context, grid []domain.HourSlot, start, end time.Time, budget time.Duration) (Status, []domain.Assignment, error)
}

// toAssignment converts a decided HourSlot into its persisted Assignment
// shape.
func toAssignment(slot domain.HourSlot) domain.Assignment {
	return domain.Assignment{
		Date:    slot.Date,
		Hour:    slot.Hour,
		StaffID: slot.StaffID,
		Name:    slot.Name,
		Level:   slot.Level,
		Status:  slot.Status,
		Salary:  slot.Salary,
	}
}
