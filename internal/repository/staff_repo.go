package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"pos-saas/internal/domain"
)

// StaffRepository handles staff roster persistence. Mirrors the teacher's
// EmployeeRepository shape (database/sql + lib/pq, positional scans), scoped
// down to the small fixed record spec.md's Staff names — no tenant/payroll
// sprawl, since this roster belongs to the scheduling engine, not HR.
//
// Table (see migrations/0001_scheduling.sql):
//
//	staff(id PK autoinc starting at 1001, name, age, level, status,
//	      e_mail UNIQUE, gender)
type StaffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new staff repository.
func NewStaffRepository(db *sql.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// ListStaff retrieves the full roster.
func (r *StaffRepository) ListStaff() ([]domain.Staff, error) {
	rows, err := r.db.Query(`
		SELECT id, name, level, status, age, e_mail, gender
		FROM staff
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing staff: %w", err)
	}
	defer rows.Close()

	var staff []domain.Staff
	for rows.Next() {
		var s domain.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Level, &s.Status, &s.Age, &s.Email, &s.Gender); err != nil {
			return nil, fmt.Errorf("scanning staff row: %w", err)
		}
		staff = append(staff, s)
	}
	if staff == nil {
		staff = []domain.Staff{}
	}
	return staff, rows.Err()
}

// GetStaff retrieves a single staff record by id.
func (r *StaffRepository) GetStaff(id int) (*domain.Staff, error) {
	var s domain.Staff
	err := r.db.QueryRow(`
		SELECT id, name, level, status, age, e_mail, gender
		FROM staff WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Level, &s.Status, &s.Age, &s.Email, &s.Gender)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: staff %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting staff %d: %w", id, err)
	}
	return &s, nil
}

// CreateStaff inserts a new staff record. The id is server-assigned by the
// staff_id_seq sequence, which the migration restarts at
// domain.FirstStaffID (1001).
func (r *StaffRepository) CreateStaff(fields domain.Staff) (*domain.Staff, error) {
	var s domain.Staff
	err := r.db.QueryRow(`
		INSERT INTO staff (name, level, status, age, e_mail, gender)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, level, status, age, e_mail, gender
	`, fields.Name, fields.Level, fields.Status, fields.Age, fields.Email, fields.Gender,
	).Scan(&s.ID, &s.Name, &s.Level, &s.Status, &s.Age, &s.Email, &s.Gender)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, fmt.Errorf("%w: staff with e_mail %q already exists", domain.ErrConflict, fields.Email)
		}
		return nil, fmt.Errorf("creating staff: %w", err)
	}
	return &s, nil
}

// UpdateStaff applies a partial patch (level and status are the documented
// mutable fields; other non-zero fields in patch are also applied, matching
// the teacher's "patch object drives a single UPDATE" idiom).
func (r *StaffRepository) UpdateStaff(id int, patch domain.Staff) (*domain.Staff, error) {
	var s domain.Staff
	err := r.db.QueryRow(`
		UPDATE staff
		SET
			name   = COALESCE(NULLIF($2, ''), name),
			level  = CASE WHEN $3 > 0 THEN $3 ELSE level END,
			status = COALESCE(NULLIF($4, ''), status),
			age    = CASE WHEN $5 > 0 THEN $5 ELSE age END,
			gender = COALESCE(NULLIF($6, ''), gender)
		WHERE id = $1
		RETURNING id, name, level, status, age, e_mail, gender
	`, id, patch.Name, patch.Level, patch.Status, patch.Age, patch.Gender,
	).Scan(&s.ID, &s.Name, &s.Level, &s.Status, &s.Age, &s.Email, &s.Gender)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: staff %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("updating staff %d: %w", id, err)
	}
	return &s, nil
}

// DeleteStaff removes a staff record. Preferences cascade via the
// shift_pre.staff_id foreign key (ON DELETE CASCADE); past
// assignments are retained independently and are not touched.
func (r *StaffRepository) DeleteStaff(id int) error {
	result, err := r.db.Exec(`DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting staff %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result for staff %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: staff %d", domain.ErrNotFound, id)
	}
	return nil
}
