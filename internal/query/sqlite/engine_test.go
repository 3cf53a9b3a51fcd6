package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/deptquery/deptquery/internal/query"
)

func TestExecuteReturnsColumnsAndRows(t *testing.T) {
	engine := NewEngine(newSeededDB(t))

	result, err := engine.Execute(context.Background(), query.Request{
		SQL: "SELECT Name, Manager FROM Departments ORDER BY Name",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Columns) != 2 || result.Columns[0] != "Name" {
		t.Fatalf("Columns = %v", result.Columns)
	}
	if len(result.Rows) != 5 {
		t.Fatalf("len(Rows) = %d", len(result.Rows))
	}
	if result.Rows[0][0] != "Engineering" {
		t.Fatalf("Rows[0][0] = %v", result.Rows[0][0])
	}
}

func TestExecuteAnswersSeededManagerLookup(t *testing.T) {
	engine := NewEngine(newSeededDB(t))

	result, err := engine.Execute(context.Background(), query.Request{
		SQL: "SELECT Manager FROM Departments WHERE Name='Sales';",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("len(Rows) = %d", len(result.Rows))
	}
	if result.Rows[0][0] != "John Smith" {
		t.Fatalf("manager = %v", result.Rows[0][0])
	}
}

func TestExecuteAppliesRowLimit(t *testing.T) {
	engine := NewEngine(newSeededDB(t))

	result, err := engine.Execute(context.Background(), query.Request{
		SQL:      "SELECT * FROM Departments",
		RowLimit: 2,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(result.Rows))
	}
}

func TestExecuteRejectsWriteStatements(t *testing.T) {
	engine := NewEngine(newSeededDB(t))

	_, err := engine.Execute(context.Background(), query.Request{
		SQL: "DELETE FROM Departments",
	})
	if err == nil {
		t.Fatal("expected error for write statement")
	}
}

func TestExecuteRewordsMissingTableError(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	engine := NewEngine(db)
	_, err = engine.Execute(context.Background(), query.Request{SQL: "SELECT * FROM Departments"})
	if err == nil {
		t.Fatal("expected error for missing table")
	}
	if !strings.Contains(err.Error(), "run the setup tool") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecuteRewordsSyntaxError(t *testing.T) {
	engine := NewEngine(newSeededDB(t))

	_, err := engine.Execute(context.Background(), query.Request{SQL: "SELECT FROM WHERE"})
	if err == nil {
		t.Fatal("expected error for bad syntax")
	}
	if !strings.Contains(err.Error(), "rephrasing") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsReadOnlySQL(t *testing.T) {
	if !query.IsReadOnlySQL("  select * from Departments") {
		t.Fatal("select should be allowed")
	}
	if !query.IsReadOnlySQL("WITH x AS (SELECT 1) SELECT * FROM x") {
		t.Fatal("with should be allowed")
	}
	if query.IsReadOnlySQL("DROP TABLE Departments") {
		t.Fatal("drop should be rejected")
	}
	if query.IsReadOnlySQL("") {
		t.Fatal("empty should be rejected")
	}
}

func newSeededDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	statements := []string{
		`CREATE TABLE Departments (Name TEXT PRIMARY KEY, Manager TEXT NOT NULL)`,
		`INSERT INTO Departments (Name, Manager) VALUES
			('Sales', 'John Smith'),
			('Marketing', 'Jane Doe'),
			('Engineering', 'Bob Wilson'),
			('HR', 'Sarah Johnson'),
			('Finance', 'Mike Brown')`,
	}
	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			t.Fatalf("seed database: %v", err)
		}
	}
	return db
}
