package nl2sql

import (
	"regexp"
	"strings"
)

var managerOfPattern = regexp.MustCompile(`(?:of\s+)(\w+)`)

// ManagerLookupSQL recognizes "who ... manager of <department>" questions
// and answers them deterministically, regardless of what the model
// produced. Returns false when the question does not match.
func ManagerLookupSQL(question string) (string, bool) {
	lower := strings.ToLower(question)
	if !strings.Contains(lower, "who") || !strings.Contains(lower, "manager") {
		return "", false
	}
	matches := managerOfPattern.FindStringSubmatch(question)
	if len(matches) != 2 {
		return "", false
	}
	return "SELECT Manager FROM Departments WHERE Name = '" + matches[1] + "';", true
}
