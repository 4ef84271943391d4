package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // SQLite driver
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

type Config struct {
	DSN         string // postgres://... or sqlite path, "file:..." or ":memory:"
	MaxConns    int32
	DialTimeout time.Duration
}

// DB is the journal database handle for either dialect.
type DB struct {
	SQL     *sql.DB
	Dialect Dialect
	pool    *pgxpool.Pool
}

// Open connects to Postgres through a pgx pool or opens a SQLite file, then
// creates the journal tables.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		db  *DB
		err error
	)
	if IsPostgresDSN(cfg.DSN) {
		db, err = openPostgres(ctx, cfg, logger)
	} else {
		db, err = openSQLite(cfg, logger)
	}
	if err != nil {
		return nil, err
	}
	if err := db.migrate(ctx); err != nil {
		Close(db, logger)
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	logger.Info("journal.open.ok", "dialect", db.Dialect)
	return db, nil
}

func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("journal.open.parse_failed", "error", err)
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "remittance-schedule"

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("journal.open.connect_failed", "error", err)
		return nil, err
	}
	return &DB{SQL: stdlib.OpenDBFromPool(pool), Dialect: DialectPostgres, pool: pool}, nil
}

func openSQLite(cfg Config, logger *slog.Logger) (*DB, error) {
	dsn := strings.TrimPrefix(cfg.DSN, "sqlite://")
	if dsn == "" {
		dsn = ":memory:"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("journal.open.sqlite_failed", "error", err)
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one connection keeps ":memory:" databases alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	if _, err := sqlDB.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	return &DB{SQL: sqlDB, Dialect: DialectSQLite}, nil
}

// Close closes the database connections gracefully
func Close(db *DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := db.SQL.Close(); err != nil {
		logger.Error("journal.close.failed", "error", err)
	}
	if db.pool != nil {
		db.pool.Close()
	}
	logger.Debug("journal.close.ok")
}

// HealthCheck pings using database/sql to catch DSN issues early.
func HealthCheck(ctx context.Context, db *DB, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.SQL.PingContext(ctx)
}

// rebind rewrites "?" placeholders to $n for Postgres.
func (db *DB) rebind(query string) string {
	if db.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS batch_runs (
		id          TEXT PRIMARY KEY,
		started_at  TEXT NOT NULL,
		finished_at TEXT,
		status      TEXT NOT NULL,
		documents   INTEGER NOT NULL,
		admitted    INTEGER NOT NULL DEFAULT 0,
		total       TEXT NOT NULL DEFAULT '0'
	)`,
	`CREATE TABLE IF NOT EXISTS batch_diagnostics (
		batch_id       TEXT NOT NULL REFERENCES batch_runs(id),
		idx            INTEGER NOT NULL,
		document       TEXT NOT NULL,
		severity       TEXT NOT NULL,
		code           TEXT NOT NULL DEFAULT '',
		message        TEXT NOT NULL,
		receipt_number TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (batch_id, idx)
	)`,
	`CREATE TABLE IF NOT EXISTS batch_exports (
		batch_id   TEXT NOT NULL REFERENCES batch_runs(id),
		mode       TEXT NOT NULL,
		filename   TEXT NOT NULL,
		path       TEXT NOT NULL,
		bytes      INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`,
}

func (db *DB) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.SQL.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
