package repository

import (
	"time"

	"pos-saas/internal/domain"
)

// SchedulingRepository is the narrow interface the scheduling engine depends
// on (spec.md §4.3). It is satisfied by the *Postgres-backed
// {Staff,Preference,Prediction,Assignment}Repository types in this package,
// and by any test double with the same shape.
type SchedulingRepository interface {
	ListStaff() ([]domain.Staff, error)
	GetStaff(id int) (*domain.Staff, error)
	CreateStaff(fields domain.Staff) (*domain.Staff, error)
	UpdateStaff(id int, patch domain.Staff) (*domain.Staff, error)
	DeleteStaff(id int) error

	ListPreferencesInRange(start, end time.Time) ([]domain.ShiftPreference, error)
	UpsertPreference(pref domain.ShiftPreference) (*domain.ShiftPreference, error)

	GetPredictionRange(start, end time.Time) ([]domain.DailyPrediction, error)
	UpsertPredictions(predictions []domain.DailyPrediction) error

	ReplaceAssignmentsInRange(start, end time.Time, assignments []domain.Assignment) error
	ListAssignmentsInRange(start, end time.Time) ([]domain.Assignment, error)
}

// compositeSchedulingRepo composes the four Postgres-backed repositories
// into a single SchedulingRepository, the shape cmd/api/main.go wires into
// the scheduling engine.
type compositeSchedulingRepo struct {
	*StaffRepository
	*PreferenceRepository
	*PredictionRepository
	*AssignmentRepository
}

// NewSchedulingRepo composes the four scheduling repositories into one
// SchedulingRepository.
func NewSchedulingRepo(
	staff *StaffRepository,
	preference *PreferenceRepository,
	prediction *PredictionRepository,
	assignment *AssignmentRepository,
) SchedulingRepository {
	return &compositeSchedulingRepo{
		StaffRepository:       staff,
		PreferenceRepository:  preference,
		PredictionRepository:  prediction,
		AssignmentRepository:  assignment,
	}
}
