package db

import "strings"

// IsUniqueViolation reports whether the provided error references a Postgres
// unique constraint violation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "duplicate key value")
}
