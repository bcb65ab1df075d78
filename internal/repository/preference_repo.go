package repository

import (
	"database/sql"
	"fmt"
	"time"

	"pos-saas/internal/domain"
)

// PreferenceRepository handles per-day shift-preference persistence.
//
// Table: shift_pre(id PK, staff_id FK->staff.id, date, morning, afternoon,
// night, UNIQUE(staff_id, date)).
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new preference repository.
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// ListPreferencesInRange retrieves every preference record whose date falls
// in [start, end].
func (r *PreferenceRepository) ListPreferencesInRange(start, end time.Time) ([]domain.ShiftPreference, error) {
	rows, err := r.db.Query(`
		SELECT staff_id, date, morning, afternoon, night
		FROM shift_pre
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, staff_id ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	defer rows.Close()

	var prefs []domain.ShiftPreference
	for rows.Next() {
		var p domain.ShiftPreference
		if err := rows.Scan(&p.StaffID, &p.Date, &p.Morning, &p.Afternoon, &p.Night); err != nil {
			return nil, fmt.Errorf("scanning preference row: %w", err)
		}
		prefs = append(prefs, p)
	}
	if prefs == nil {
		prefs = []domain.ShiftPreference{}
	}
	return prefs, rows.Err()
}

// UpsertPreference inserts or replaces a staff member's preference for a
// date. at most one record per (staff_id, date) — enforced by the unique
// index and this upsert's ON CONFLICT clause, the same idiom as the
// teacher's attendance clock-in upsert.
func (r *PreferenceRepository) UpsertPreference(pref domain.ShiftPreference) (*domain.ShiftPreference, error) {
	var p domain.ShiftPreference
	err := r.db.QueryRow(`
		INSERT INTO shift_pre (staff_id, date, morning, afternoon, night)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (staff_id, date)
		DO UPDATE SET morning = $3, afternoon = $4, night = $5
		RETURNING staff_id, date, morning, afternoon, night
	`, pref.StaffID, pref.Date, pref.Morning, pref.Afternoon, pref.Night,
	).Scan(&p.StaffID, &p.Date, &p.Morning, &p.Afternoon, &p.Night)

	if err != nil {
		return nil, fmt.Errorf("upserting preference for staff %d on %s: %w", pref.StaffID, pref.Date.Format("2006-01-02"), err)
	}
	return &p, nil
}
