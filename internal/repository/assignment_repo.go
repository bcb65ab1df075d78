package repository

import (
	"database/sql"
	"fmt"
	"time"

	"pos-saas/internal/domain"
)

// AssignmentRepository persists the constraint scheduler's solved output.
//
// Table: shift_ass(id PK autoinc, date, hour, staff_id, name, level, status,
// salary).
type AssignmentRepository struct {
	db *sql.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ReplaceAssignmentsInRange atomically deletes every assignment row in
// [start, end] and inserts the replacement set, in one transaction rolled
// back on any insert error. This is the only write path for assignments —
// there is deliberately no append path (spec.md §9: conflicting
// append-vs-overwrite behavior in the source was a bug; this implementation
// keeps only the atomic delete-then-insert semantics).
func (r *AssignmentRepository) ReplaceAssignmentsInRange(start, end time.Time, assignments []domain.Assignment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning assignment replace transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM shift_ass WHERE date >= $1 AND date <= $2
	`, start, end); err != nil {
		return fmt.Errorf("clearing assignments in range: %w", err)
	}

	if len(assignments) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO shift_ass (date, hour, staff_id, name, level, status, salary)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`)
		if err != nil {
			return fmt.Errorf("preparing assignment insert: %w", err)
		}
		defer stmt.Close()

		for _, a := range assignments {
			if _, err := stmt.Exec(a.Date, a.Hour, a.StaffID, a.Name, a.Level, a.Status, a.Salary); err != nil {
				return fmt.Errorf("inserting assignment for staff %d on %s hour %d: %w", a.StaffID, a.Date.Format("2006-01-02"), a.Hour, err)
			}
		}
	}

	return tx.Commit()
}

// ListAssignmentsInRange retrieves persisted assignments for [start, end].
func (r *AssignmentRepository) ListAssignmentsInRange(start, end time.Time) ([]domain.Assignment, error) {
	rows, err := r.db.Query(`
		SELECT date, hour, staff_id, name, level, status, salary
		FROM shift_ass
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, hour ASC, staff_id ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.Date, &a.Hour, &a.StaffID, &a.Name, &a.Level, &a.Status, &a.Salary); err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	if assignments == nil {
		assignments = []domain.Assignment{}
	}
	return assignments, rows.Err()
}
