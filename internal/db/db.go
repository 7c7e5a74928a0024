package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect selects the placeholder style and driver quirks of a backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// TimeLayout is the fixed-width UTC layout used for every stored timestamp,
// so text comparison orders rows chronologically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// DB is an open database handle together with its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// DialectFor infers the dialect from a DSN. postgres:// and postgresql://
// URLs select PostgreSQL; anything else is treated as a SQLite path.
func DialectFor(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// OpenDB opens the database named by dsn and runs migrations.
// If dsn is ":memory:", uses an in-memory SQLite database on a single
// connection. File databases enable WAL, foreign keys and a busy timeout on
// every pooled connection.
func OpenDB(dsn string) (*DB, error) {
	dialect := DialectFor(dsn)

	var (
		conn *sql.DB
		err  error
	)
	switch dialect {
	case DialectPostgres:
		conn, err = sql.Open("pgx", dsn)
	default:
		conn, err = openSQLite(dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &DB{DB: conn, Dialect: dialect}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	if path == ":memory:" {
		conn, err := sql.Open("sqlite", ":memory:?"+pragmas)
		if err != nil {
			return nil, err
		}
		// Every new connection would get its own empty database.
		conn.SetMaxOpenConns(1)
		return conn, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}
	return sql.Open("sqlite", path+"?"+pragmas+"&_pragma=journal_mode(WAL)")
}
