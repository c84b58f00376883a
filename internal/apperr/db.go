package apperr

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// FromDB translates a database/sql or go-sqlite3 error into an AppError.
// Unique and primary-key violations become already_exists, missing rows become
// not_found, foreign-key violations become not_found (the referenced row is
// absent) and everything else is internal.
func FromDB(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return Wrap(err, CodeNotFound, message)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return Wrap(err, CodeAlreadyExists, message)
		case sqlite3.ErrConstraintForeignKey:
			return Wrap(err, CodeNotFound, message)
		}
	}

	return Internal(err, message)
}

// IsUniqueViolation reports whether err is a sqlite unique-constraint failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
