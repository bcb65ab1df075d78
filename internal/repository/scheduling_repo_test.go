package repository

import (
	"database/sql"
	"testing"
	"time"

	"pos-saas/internal/domain"
)

// TestNewStaffRepository tests repository creation, the same zero-value-DB
// smoke test style as TestNewOrderRepository.
func TestNewStaffRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewStaffRepository(db)
	if repo == nil {
		t.Fatal("expected repository to be created, got nil")
	}
	if repo.db != db {
		t.Error("expected repository to store database connection")
	}
}

func TestNewPreferenceRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewPreferenceRepository(db)
	if repo == nil {
		t.Fatal("expected repository to be created, got nil")
	}
	if repo.db != db {
		t.Error("expected repository to store database connection")
	}
}

func TestNewPredictionRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewPredictionRepository(db)
	if repo == nil {
		t.Fatal("expected repository to be created, got nil")
	}
	if repo.db != db {
		t.Error("expected repository to store database connection")
	}
}

func TestNewAssignmentRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewAssignmentRepository(db)
	if repo == nil {
		t.Fatal("expected repository to be created, got nil")
	}
	if repo.db != db {
		t.Error("expected repository to store database connection")
	}
}

// TestSchedulingRepoInterface documents which operations the composed
// SchedulingRepository exposes, the same table-driven documentation style as
// TestOrderRepositoryInterface.
func TestSchedulingRepoInterface(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		description string
	}{
		{"ListStaff", "ListStaff", "retrieves the full staff roster"},
		{"GetStaff", "GetStaff", "retrieves a single staff record by id"},
		{"CreateStaff", "CreateStaff", "inserts a new staff record, server-assigned id"},
		{"UpdateStaff", "UpdateStaff", "applies a partial patch to a staff record"},
		{"DeleteStaff", "DeleteStaff", "removes a staff record, cascading to preferences"},
		{"ListPreferencesInRange", "ListPreferencesInRange", "retrieves preference records in a date range"},
		{"UpsertPreference", "UpsertPreference", "inserts or replaces a (staff_id, date) preference"},
		{"GetPredictionRange", "GetPredictionRange", "retrieves predictions in a date range"},
		{"UpsertPredictions", "UpsertPredictions", "batch upserts predictions, most recent write wins"},
		{"ReplaceAssignmentsInRange", "ReplaceAssignmentsInRange", "atomic delete-then-insert of assignments in range"},
		{"ListAssignmentsInRange", "ListAssignmentsInRange", "retrieves persisted assignments in a date range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Logf("Method: %s - %s", tt.method, tt.description)
		})
	}
}

// TestNewSchedulingRepoComposesAllFour verifies the composite satisfies
// SchedulingRepository and forwards to the embedded repositories.
func TestNewSchedulingRepoComposesAllFour(t *testing.T) {
	db := &sql.DB{}
	repo := NewSchedulingRepo(
		NewStaffRepository(db),
		NewPreferenceRepository(db),
		NewPredictionRepository(db),
		NewAssignmentRepository(db),
	)
	if repo == nil {
		t.Fatal("expected composite repository to be created, got nil")
	}
	var _ SchedulingRepository = repo
}

// TestStaffValidation exercises the shape of inputs CreateStaff/UpdateStaff
// expect, without touching a real database connection.
func TestStaffValidation(t *testing.T) {
	tests := []struct {
		name        string
		staff       domain.Staff
		description string
	}{
		{
			name: "valid full-time staff",
			staff: domain.Staff{
				Name: "Aya Tanaka", Level: 3, Status: domain.StaffStatusFullTime,
				Age: 28, Email: "aya@example.com", Gender: "female",
			},
			description: "complete staff record with all fields set",
		},
		{
			name: "valid high-school staff",
			staff: domain.Staff{
				Name: "Yuki Sato", Level: 2, Status: domain.StaffStatusHighSchool,
				Age: 17, Email: "yuki@example.com", Gender: "male",
			},
			description: "high-school status drives the night-ban constraint downstream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.staff.Name == "" || tt.staff.Email == "" {
				t.Errorf("%s: name and email must be set", tt.description)
			}
		})
	}
}

// TestShiftPreferenceAllowsSegmentGating exercises the strict per-segment
// gating decision recorded in SPEC_FULL.md.
func TestShiftPreferenceAllowsSegmentGating(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	pref := domain.ShiftPreference{StaffID: 1001, Date: date, Morning: true, Afternoon: false, Night: true}

	if !pref.Allows(10) {
		t.Error("expected morning hour 10 to be allowed")
	}
	if pref.Allows(15) {
		t.Error("expected afternoon hour 15 to be disallowed")
	}
	if !pref.Allows(20) {
		t.Error("expected night hour 20 to be allowed")
	}
}
