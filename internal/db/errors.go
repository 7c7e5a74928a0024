package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgForeignKeyViolation = "23503"

// IsForeignKeyViolation reports whether err is a referential-integrity
// failure from either backend.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// ClassifyError wraps foreign key violations with domain.ErrReferenced and
// returns every other error unchanged.
func ClassifyError(err error) error {
	if IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %v", domain.ErrReferenced, err)
	}
	return err
}
