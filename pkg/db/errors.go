package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Postgres class 23 integrity violations.
const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, matched on the SQLSTATE code rather than message text. When
// constraintName is provided, the violated constraint must match it.
func IsUniqueViolation(err error, constraintName string) bool {
	code, constraint, ok := pgErrorFields(err)
	if ok && code == pgCodeUniqueViolation {
		return constraintName == "" || constraint == constraintName
	}
	// GORM translates driver errors when its translator is active.
	return constraintName == "" && errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsForeignKeyViolation reports whether err is a Postgres foreign key
// violation.
func IsForeignKeyViolation(err error) bool {
	code, _, ok := pgErrorFields(err)
	if ok && code == pgCodeForeignKeyViolation {
		return true
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// IsNotFound reports whether err is GORM's missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func pgErrorFields(err error) (code, constraint string, ok bool) {
	if err == nil {
		return "", "", false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}

	return "", "", false
}
