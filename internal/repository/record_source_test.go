package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
)

func newRecordSourceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRecordSourceLoadStudents(t *testing.T) {
	db, mock, cleanup := newRecordSourceMock(t)
	defer cleanup()

	src := NewRecordSource(db)
	rows := sqlmock.NewRows([]string{"id", "name", "email", "year", "major", "password_hash"}).
		AddRow("s1", "Alice Tan", "alice@u.edu", 3, "Computer Science", "hash-1").
		AddRow("s2", "Bob Lim", "bob@u.edu", 1, "Business", "hash-2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, year, major, password_hash FROM students ORDER BY id")).
		WillReturnRows(rows)

	students, err := src.LoadStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, "s1", students[0].ID)
	require.Equal(t, 3, students[0].Year)
	require.Equal(t, "Business", students[1].Major)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSourceLoadRepresentatives(t *testing.T) {
	db, mock, cleanup := newRecordSourceMock(t)
	defer cleanup()

	src := NewRecordSource(db)
	rows := sqlmock.NewRows([]string{"id", "name", "company", "department", "position", "approved", "password_hash"}).
		AddRow("r1", "Carol Ng", "Acme", "Engineering", "HR Lead", true, "hash-3")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, company, department, position, approved, password_hash FROM representatives ORDER BY id")).
		WillReturnRows(rows)

	reps, err := src.LoadRepresentatives(context.Background())
	require.NoError(t, err)
	require.Len(t, reps, 1)
	require.Equal(t, "Acme", reps[0].Company)
	require.True(t, reps[0].Approved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSourceLoadStaff(t *testing.T) {
	db, mock, cleanup := newRecordSourceMock(t)
	defer cleanup()

	src := NewRecordSource(db)
	rows := sqlmock.NewRows([]string{"id", "name", "department", "password_hash"}).
		AddRow("st1", "Dave Koh", "Career Center", "hash-4")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, department, password_hash FROM staff ORDER BY id")).
		WillReturnRows(rows)

	staff, err := src.LoadStaff(context.Background())
	require.NoError(t, err)
	require.Len(t, staff, 1)
	require.Equal(t, "Career Center", staff[0].Department)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSourceUpdatePassword(t *testing.T) {
	db, mock, cleanup := newRecordSourceMock(t)
	defer cleanup()

	src := NewRecordSource(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET password_hash = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("s1", "new-hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, src.UpdatePassword(context.Background(), models.RoleStudent, "s1", "new-hash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSourceUpdatePasswordRoleTables(t *testing.T) {
	db, mock, cleanup := newRecordSourceMock(t)
	defer cleanup()

	src := NewRecordSource(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE representatives SET password_hash = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("r1", "h", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE staff SET password_hash = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("st1", "h", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, src.UpdatePassword(context.Background(), models.RoleRepresentative, "r1", "h"))
	require.NoError(t, src.UpdatePassword(context.Background(), models.RoleStaff, "st1", "h"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSourceUpdatePasswordUnknownRole(t *testing.T) {
	db, _, cleanup := newRecordSourceMock(t)
	defer cleanup()

	src := NewRecordSource(db)
	err := src.UpdatePassword(context.Background(), models.Role("AUDITOR"), "x1", "h")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown role")
}

func TestRecordSourceSetRepresentativeApproved(t *testing.T) {
	db, mock, cleanup := newRecordSourceMock(t)
	defer cleanup()

	src := NewRecordSource(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE representatives SET approved = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("r1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, src.SetRepresentativeApproved(context.Background(), "r1", true))
	require.NoError(t, mock.ExpectationsWereMet())
}
