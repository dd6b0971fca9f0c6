package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"blog/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Dialect selects driver, placeholder style and migration set.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const (
	sqliteDriverName   = "sqlite"
	postgresDriverName = "pgx"

	sqliteMemory = ":memory:"
)

//go:embed migrations
var migrationsFS embed.FS

var errEmptyDSN = errors.New("database url is empty")

// Conn is an open, migrated database handle.
type Conn struct {
	DB      *sql.DB
	Dialect Dialect
}

// Close releases the underlying pool.
func (c *Conn) Close() error {
	return c.DB.Close()
}

// ParseDSN resolves a connection string into a dialect and the driver-level
// data source name. SQLAlchemy-style sqlite URLs are accepted:
// sqlite:///relative.db, sqlite:////abs/path.db and sqlite:// (in-memory).
func ParseDSN(dsn string) (Dialect, string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", "", errEmptyDSN
	}
	lower := strings.ToLower(dsn)

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DialectPostgres, dsn, nil
	case lower == "sqlite://":
		return DialectSQLite, sqliteMemory, nil
	case strings.HasPrefix(lower, "sqlite:///"):
		path := dsn[len("sqlite:///"):]
		if path == "" {
			return "", "", fmt.Errorf("sqlite url %q has no path", dsn)
		}
		return DialectSQLite, path, nil
	case strings.Contains(dsn, "://"):
		return "", "", fmt.Errorf("unsupported database url scheme in %q", dsn)
	default:
		// bare file path, "file:" URI or ":memory:"
		return DialectSQLite, dsn, nil
	}
}

// InitDB opens the database named by dsn, applies connection settings and
// runs the embedded migrations. Migrations only create what is missing, so
// calling InitDB on every start is safe.
func InitDB(ctx context.Context, dsn string, log *logger.Logger) (*Conn, error) {
	dialect, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	switch dialect {
	case DialectPostgres:
		db, err = openPostgres(ctx, source)
	default:
		db, err = openSQLite(ctx, source)
	}
	if err != nil {
		return nil, err
	}

	if err := migrate(ctx, db, dialect, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Conn{DB: db, Dialect: dialect}, nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One connection: PRAGMAs are per connection and :memory: databases
	// are private to the connection that created them.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", strings.TrimSuffix(pragma, ";"), err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(postgresDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB, dialect Dialect, log *logger.Logger) error {
	gooseDialect, dir := "sqlite3", "migrations/sqlite"
	if dialect == DialectPostgres {
		gooseDialect, dir = "postgres", "migrations/postgres"
	}

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if log != nil {
		goose.SetLogger(log)
	} else {
		goose.SetLogger(goose.NopLogger())
	}

	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set migration dialect %q: %w", gooseDialect, err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
