package database

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/trezcool/gradebook/core"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open connects to the configured database and waits for it to answer.
func Open(ctx context.Context, conf core.StorageConfig) (*sqlx.DB, error) {
	driver := strings.ToLower(conf.Driver)
	dsn := conf.DSN
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = "file:gradebook.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		if dsn == "" {
			dsn = "postgres://localhost:5432/gradebook?sslmode=disable&timezone=utc"
		}
	default:
		return nil, errors.Errorf("unsupported database driver %q", conf.Driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if driver == DriverSQLite {
		// a single connection keeps :memory: databases alive and serializes writers
		db.SetMaxOpenConns(1)
	}
	if err := ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "pinging database")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

func dialect(db *sqlx.DB) string {
	if db.DriverName() == DriverSQLite {
		return "sqlite3"
	}
	return db.DriverName()
}

// Migrate runs a goose command (up, down, status, version, redo, reset, up-to, down-to...)
// against the embedded migrations.
func Migrate(ctx context.Context, db *sqlx.DB, log core.Logger, command string, args ...string) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{log})
	if err := goose.SetDialect(dialect(db)); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	if err := goose.RunContext(ctx, command, db.DB, migrationsDir, args...); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// gooseLogger routes goose's printf-style output to the app logger.
type gooseLogger struct {
	log core.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
