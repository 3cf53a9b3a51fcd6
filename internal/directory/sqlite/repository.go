package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/deptquery/deptquery/internal/directory"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

func (r *Repository) ListDepartments(ctx context.Context) ([]directory.Department, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT Name, Manager
FROM Departments
ORDER BY Name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var departments []directory.Department
	for rows.Next() {
		var dept directory.Department
		if err := rows.Scan(&dept.Name, &dept.Manager); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, dept)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return departments, nil
}

func (r *Repository) GetManager(ctx context.Context, departmentName string) (string, error) {
	var manager string
	err := r.db.QueryRowContext(ctx, `
SELECT Manager
FROM Departments
WHERE Name = ?`, departmentName).Scan(&manager)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", directory.ErrNotFound
		}
		return "", fmt.Errorf("get manager: %w", err)
	}
	return manager, nil
}

func (r *Repository) CountDepartments(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Departments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count departments: %w", err)
	}
	return count, nil
}

func (r *Repository) SampleRows(ctx context.Context, limit int) ([][]any, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT Name, Manager
FROM Departments
ORDER BY Name ASC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sample rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var samples [][]any
	for rows.Next() {
		var name, manager string
		if err := rows.Scan(&name, &manager); err != nil {
			return nil, fmt.Errorf("scan sample row: %w", err)
		}
		samples = append(samples, []any{name, manager})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return samples, nil
}
