package utils

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// IsPGUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
// A non-empty constraint narrows the check to that constraint name.
func IsPGUniqueViolation(err error, constraint string) bool {
	var pge *pgconn.PgError
	if !errors.As(err, &pge) || pge.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pge.ConstraintName == constraint
}

// IsSQLiteUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
// A non-empty column ("users.email") narrows the check to that column.
func IsSQLiteUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return column == "" || strings.Contains(msg, column)
}
