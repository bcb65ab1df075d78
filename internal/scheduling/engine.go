package scheduling

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"pos-saas/internal/domain"
	"pos-saas/internal/forecast"
	"pos-saas/internal/repository"
	"pos-saas/internal/scheduling/solver"
	"pos-saas/internal/weather"
)

// RunState is a scheduling run's position in the state machine named in
// spec.md §4.5:
//
//	NEW → GRID_BUILT → MODEL_BUILT → SOLVED(OPTIMAL|FEASIBLE|INFEASIBLE|TIMEOUT)
//	                 ↘ FAILED(build error, missing input, model unavailable)
type RunState string

const (
	RunNew       RunState = "NEW"
	RunGridBuilt RunState = "GRID_BUILT"
	RunSolved    RunState = "SOLVED"
	RunFailed    RunState = "FAILED"
)

// RunResult is the outcome of one scheduling run. RunID identifies the run
// in logs so a failed or infeasible run can be traced from an API response
// back to its [SCHEDULER] log lines.
type RunResult struct {
	RunID       string
	State       RunState
	SolveStatus solver.Status
	Assignments []domain.Assignment
	Err         error
}

// Engine orchestrates grid construction and the constraint scheduler, and
// persists the result when a solution is found. One Engine serves many
// runs; it holds no per-run state itself.
type Engine struct {
	repo            repository.SchedulingRepository
	forecaster      forecast.Forecaster
	weatherProvider weather.Provider
	solver          solver.Solver
	loc             weather.Location
	budget          time.Duration
}

// NewEngine wires the scheduling engine's collaborators.
func NewEngine(
	repo repository.SchedulingRepository,
	forecaster forecast.Forecaster,
	weatherProvider weather.Provider,
	solverImpl solver.Solver,
	loc weather.Location,
) *Engine {
	return &Engine{
		repo:            repo,
		forecaster:      forecaster,
		weatherProvider: weatherProvider,
		solver:          solverImpl,
		loc:             loc,
		budget:          solver.DefaultBudget,
	}
}

// WithBudget overrides the solver's wall-clock cap (default 10s).
func (e *Engine) WithBudget(budget time.Duration) *Engine {
	e.budget = budget
	return e
}

// Run executes one complete scheduling pass for [start, end]: build the
// grid, solve it, and persist the result if the solver reached OPTIMAL or
// FEASIBLE. Only those two solved states trigger persistence, per spec.
func (e *Engine) Run(ctx context.Context, start, end time.Time) RunResult {
	runID := uuid.New().String()

	if end.Before(start) {
		return RunResult{RunID: runID, State: RunFailed, Err: fmt.Errorf("%w: end before start", domain.ErrBadRequest)}
	}

	log.Printf("[SCHEDULER] run %s started for %s..%s", runID, start.Format("2006-01-02"), end.Format("2006-01-02"))

	grid, err := BuildGrid(ctx, start, end, e.repo, e.forecaster, e.weatherProvider, e.loc)
	if err != nil {
		log.Printf("[SCHEDULER] run %s grid build failed: %v", runID, err)
		return RunResult{RunID: runID, State: RunFailed, Err: err}
	}
	if len(grid) == 0 {
		return RunResult{RunID: runID, State: RunFailed, Err: fmt.Errorf("%w: no staff or overflow rows produced for range", domain.ErrBadRequest)}
	}
	log.Printf("[SCHEDULER] run %s grid built: %d rows", runID, len(grid))

	status, assignments, err := e.solver.Solve(ctx, grid, start, end, e.budget)
	if err != nil {
		log.Printf("[SCHEDULER] run %s solve failed: %v", runID, err)
		return RunResult{RunID: runID, State: RunFailed, Err: err}
	}

	switch status {
	case solver.StatusOptimal, solver.StatusFeasible:
		if err := e.repo.ReplaceAssignmentsInRange(start, end, assignments); err != nil {
			log.Printf("[SCHEDULER] run %s persisting assignments failed: %v", runID, err)
			return RunResult{RunID: runID, State: RunFailed, Err: err}
		}
		log.Printf("[SCHEDULER] run %s solved: status=%s assignments=%d", runID, status, len(assignments))
		return RunResult{RunID: runID, State: RunSolved, SolveStatus: status, Assignments: assignments}
	case solver.StatusInfeasible, solver.StatusTimeout:
		log.Printf("[SCHEDULER] run %s did not solve: status=%s", runID, status)
		return RunResult{
			RunID:       runID,
			State:       RunSolved,
			SolveStatus: status,
			Err:         fmt.Errorf("%w: solver returned %s", domain.ErrNoSchedule, status),
		}
	default:
		return RunResult{RunID: runID, State: RunFailed, Err: fmt.Errorf("%w: unknown solve status %q", domain.ErrInternal, status)}
	}
}
