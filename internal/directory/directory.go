package directory

import (
	"context"
	"errors"
)

// TableName is the single seeded table every query runs against.
const TableName = "Departments"

// Columns lists the seeded table's columns in schema order.
var Columns = []string{"Name", "Manager"}

var ErrNotFound = errors.New("directory: not found")

// Department is one row of the seeded table.
type Department struct {
	Name    string `json:"name"`
	Manager string `json:"manager"`
}

// Repository provides typed access to the seeded table for everything that
// is not free-form SQL: prompt context, readiness, and lookups.
type Repository interface {
	HealthCheck(ctx context.Context) error
	ListDepartments(ctx context.Context) ([]Department, error)
	GetManager(ctx context.Context, departmentName string) (string, error)
	CountDepartments(ctx context.Context) (int, error)
	SampleRows(ctx context.Context, limit int) ([][]any, error)
}
