package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/alexanderramin/pantry/internal/db"
	"github.com/jmoiron/sqlx"
)

// builder returns a statement builder using the dialect's placeholders.
func builder(d db.Dialect) squirrel.StatementBuilderType {
	if d == db.DialectPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// selectAll runs q and scans every row into a slice of db-tagged structs.
func selectAll[T any](ctx context.Context, conn db.DBTX, q squirrel.Sqlizer) ([]T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	if err := sqlx.StructScan(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// selectOne is selectAll for queries returning at most one row. It returns
// sql.ErrNoRows when nothing matched.
func selectOne[T any](ctx context.Context, conn db.DBTX, q squirrel.Sqlizer) (*T, error) {
	rows, err := selectAll[T](ctx, conn, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}
	return &rows[0], nil
}

// execAffected runs q and returns the number of affected rows.
func execAffected(ctx context.Context, conn db.DBTX, q squirrel.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building statement: %w", err)
	}
	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(db.TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(db.TimeLayout, s)
	if err != nil {
		// Rows written by hand or by older tools may use plain RFC3339.
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}

// parseTimestamps parses a created/updated pair.
func parseTimestamps(created, updated string) (time.Time, time.Time, error) {
	c, err := parseTime(created)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing created_at: %w", err)
	}
	u, err := parseTime(updated)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return c, u, nil
}

// nullableString converts a *string to a value suitable for storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// boolToInt converts a Go bool to an integer (0 or 1) for storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a stored integer (0 or 1) to a Go bool.
func intToBool(i int64) bool {
	return i != 0
}

// nowUTC returns the current time in UTC.
func nowUTC() time.Time {
	return time.Now().UTC()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match itself literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func likeExpr(column, pattern string) squirrel.Sqlizer {
	return squirrel.Expr(column+` LIKE ? ESCAPE '\'`, pattern)
}

// prefixLike matches column values starting with prefix.
func prefixLike(column, prefix string) squirrel.Sqlizer {
	return likeExpr(column, escapeLike(prefix)+"%")
}

// containsLike matches column values containing s. The caller lowers both
// sides for case-insensitive matching.
func containsLike(column, s string) squirrel.Sqlizer {
	return likeExpr(column, "%"+escapeLike(s)+"%")
}
