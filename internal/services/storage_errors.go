package services

import (
	"context"
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/BerylCAtieno/ezdocs-api/internal/utils"
)

// storageError turns a driver failure into an API error. Constraint
// violations keep their own kinds; everything else is internal.
func storageError(message string, err error) *utils.AppError {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return utils.NewForeignKeyError(err)
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return utils.NewUniqueViolationError(err)
		}
	}

	// Without extended result codes only the message tells them apart.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return utils.NewForeignKeyError(err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return utils.NewUniqueViolationError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return utils.AsAppError(err)
	}

	return utils.NewInternalError(message, err)
}
