package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
)

// RecordSource reads pre-validated actor records from PostgreSQL. It seeds
// the in-memory arena at startup and persists password rotations; the
// placement state itself (opportunities, applications) never touches the
// database.
type RecordSource struct {
	db *sqlx.DB
}

// NewRecordSource constructs the record source.
func NewRecordSource(db *sqlx.DB) *RecordSource {
	return &RecordSource{db: db}
}

// LoadStudents returns every student record.
func (r *RecordSource) LoadStudents(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT id, name, email, year, major, password_hash FROM students ORDER BY id`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	return students, nil
}

// LoadRepresentatives returns every company representative record.
func (r *RecordSource) LoadRepresentatives(ctx context.Context) ([]models.Representative, error) {
	const query = `SELECT id, name, company, department, position, approved, password_hash FROM representatives ORDER BY id`
	var reps []models.Representative
	if err := r.db.SelectContext(ctx, &reps, query); err != nil {
		return nil, fmt.Errorf("load representatives: %w", err)
	}
	return reps, nil
}

// LoadStaff returns every career-center staff record.
func (r *RecordSource) LoadStaff(ctx context.Context) ([]models.Staff, error) {
	const query = `SELECT id, name, department, password_hash FROM staff ORDER BY id`
	var staff []models.Staff
	if err := r.db.SelectContext(ctx, &staff, query); err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}
	return staff, nil
}

// UpdatePassword persists a rotated password hash for the given actor.
func (r *RecordSource) UpdatePassword(ctx context.Context, role models.Role, id, passwordHash string) error {
	var table string
	switch role {
	case models.RoleStudent:
		table = "students"
	case models.RoleRepresentative:
		table = "representatives"
	case models.RoleStaff:
		table = "staff"
	default:
		return fmt.Errorf("update password: unknown role %q", role)
	}

	query := fmt.Sprintf(`UPDATE %s SET password_hash = $2, updated_at = $3 WHERE id = $1`, table)
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SetRepresentativeApproved persists a staff approval decision.
func (r *RecordSource) SetRepresentativeApproved(ctx context.Context, id string, approved bool) error {
	const query = `UPDATE representatives SET approved = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, approved, time.Now().UTC()); err != nil {
		return fmt.Errorf("set representative approved: %w", err)
	}
	return nil
}
