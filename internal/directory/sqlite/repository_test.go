package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/deptquery/deptquery/internal/directory"
)

func TestListDepartments(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
SELECT Name, Manager
FROM Departments
ORDER BY Name ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"Name", "Manager"}).
			AddRow("Engineering", "Bob Wilson").
			AddRow("Sales", "John Smith"))

	departments, err := repo.ListDepartments(context.Background())
	if err != nil {
		t.Fatalf("ListDepartments() error = %v", err)
	}
	if len(departments) != 2 {
		t.Fatalf("len(departments) = %d", len(departments))
	}
	if departments[1].Manager != "John Smith" {
		t.Fatalf("Manager = %q", departments[1].Manager)
	}
	assertSQLMock(t, mock)
}

func TestGetManager(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
SELECT Manager
FROM Departments
WHERE Name = ?`)).
		WithArgs("Sales").
		WillReturnRows(sqlmock.NewRows([]string{"Manager"}).AddRow("John Smith"))

	manager, err := repo.GetManager(context.Background(), "Sales")
	if err != nil {
		t.Fatalf("GetManager() error = %v", err)
	}
	if manager != "John Smith" {
		t.Fatalf("manager = %q", manager)
	}
	assertSQLMock(t, mock)
}

func TestGetManagerReturnsNotFound(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
SELECT Manager
FROM Departments
WHERE Name = ?`)).
		WithArgs("Legal").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetManager(context.Background(), "Legal")
	if !errors.Is(err, directory.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, directory.ErrNotFound)
	}
	assertSQLMock(t, mock)
}

func TestCountDepartments(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM Departments`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountDepartments(context.Background())
	if err != nil {
		t.Fatalf("CountDepartments() error = %v", err)
	}
	if count != 5 {
		t.Fatalf("count = %d", count)
	}
	assertSQLMock(t, mock)
}

func TestSampleRowsLimitsResults(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
SELECT Name, Manager
FROM Departments
ORDER BY Name ASC
LIMIT ?`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"Name", "Manager"}).
			AddRow("Engineering", "Bob Wilson").
			AddRow("Finance", "Mike Brown"))

	samples, err := repo.SampleRows(context.Background(), 2)
	if err != nil {
		t.Fatalf("SampleRows() error = %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d", len(samples))
	}
	if samples[0][0] != "Engineering" {
		t.Fatalf("samples[0][0] = %v", samples[0][0])
	}
	assertSQLMock(t, mock)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), DBConfig{})
	if err == nil {
		t.Fatal("expected error for empty path")
	}
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func assertSQLMock(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
