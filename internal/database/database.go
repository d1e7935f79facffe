// Package database contains the logic for reaching the relational store
// that holds bands, venues and concerts.
//
// It does not keep a pool: every operation opens its own connection
// scope, runs, and closes it again.
//
// It handles:
//   - building a DSN from config (SQLite file or PostgreSQL)
//   - opening a scope through sqlx (modernc SQLite driver or pgx stdlib)
//   - wiring query tracing/logging for PostgreSQL (pgx tracelog, optional New Relic nrpgx5)
//   - logging statements slower than the configured threshold
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jmoiron/sqlx"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
	// Registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"

	"github.com/deppfellow/concerts/internal/config"
	loggerConfig "github.com/deppfellow/concerts/internal/logger"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("database is closed")

// Database opens short-lived connection scopes against the configured store.
// It is the object passed around the app in place of a pool.
type Database struct {
	cfg    *config.DatabaseConfig
	log    *zerolog.Logger
	tracer pgx.QueryTracer

	slowQueryThreshold time.Duration
	closed             atomic.Bool
}

// multiTracer chains several pgx query tracers.
//
// pgx supports a single Tracer in ConnConfig; this adapter lets New Relic
// and the local SQL logger both see every query.
type multiTracer struct {
	tracers []pgx.QueryTracer
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		ctx = tracer.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		tracer.TraceQueryEnd(ctx, conn, data)
	}
}

// DatabasePingTimeout is the number of seconds to wait for the startup ping.
const DatabasePingTimeout = 10

// New validates that the store is reachable and returns a Database.
//
// Inputs:
//   - cfg: application config (driver, path or host/port, env)
//   - logger: main app logger
//   - loggerService: optional New Relic service (nil if not configured)
//
// For PostgreSQL the New Relic tracer is attached when APM is on, and in the
// local env every statement is logged through pgx tracelog.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	database := &Database{
		cfg: &cfg.Database,
		log: logger,
	}
	if cfg.Observability != nil {
		database.slowQueryThreshold = cfg.Observability.Logging.SlowQueryThreshold
	}

	if cfg.Database.Driver == config.DriverPostgres {
		var tracers []pgx.QueryTracer

		if loggerService.GetApplication() != nil {
			tracers = append(tracers, nrpgx5.NewTracer())
		}

		if cfg.IsLocal() {
			globalLevel := logger.GetLevel()
			tracers = append(tracers, &tracelog.TraceLog{
				Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
				LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
			})
		}

		switch len(tracers) {
		case 0:
		case 1:
			database.tracer = tracers[0]
		default:
			database.tracer = &multiTracer{tracers: tracers}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", cfg.Database.Driver).Msg("connected to the database")

	return database, nil
}

// Driver returns the configured driver name.
func (db *Database) Driver() string {
	return db.cfg.Driver
}

// SQLiteDSN builds the modernc DSN for the configured file.
func SQLiteDSN(cfg *config.DatabaseConfig) (string, error) {
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return "", fmt.Errorf("resolve sqlite path: %w", err)
	}

	busy := int(cfg.BusyTimeout / time.Millisecond)
	if busy <= 0 {
		busy = 5000
	}

	foreignKeys := 0
	if cfg.ForeignKeys {
		foreignKeys = 1
	}

	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(%d)", abs, busy, foreignKeys), nil
}

// PostgresDSN builds a postgres:// URL. The password is URL-escaped and
// IPv6 hosts are bracketed.
func PostgresDSN(cfg *config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		hostPort,
		cfg.Name,
		sslMode,
	)
}

// open creates a single-connection scope. The caller must close it.
func (db *Database) open() (*sqlx.DB, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}

	var conn *sqlx.DB

	switch db.cfg.Driver {
	case config.DriverPostgres:
		connConfig, err := pgx.ParseConfig(PostgresDSN(db.cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to parse pgx config: %w", err)
		}
		if db.tracer != nil {
			connConfig.Tracer = db.tracer
		}
		conn = sqlx.NewDb(stdlib.OpenDB(*connConfig), "pgx")

	case config.DriverSQLite:
		dsn, err := SQLiteDSN(db.cfg)
		if err != nil {
			return nil, err
		}
		conn, err = sqlx.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported database driver %q", db.cfg.Driver)
	}

	conn.SetMaxOpenConns(1)
	return conn, nil
}

// Run opens a connection scope, hands it to fn and closes it afterwards.
func (db *Database) Run(ctx context.Context, fn func(conn *sqlx.DB) error) (err error) {
	conn, err := db.open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close connection: %w", closeErr)
		}
	}()

	return fn(conn)
}

// Select runs a query in its own scope and scans every row into dest (a pointer to a slice).
// Queries use `?` placeholders; they are rebound for the driver.
func (db *Database) Select(ctx context.Context, dest any, query string, args ...any) error {
	return db.Run(ctx, func(conn *sqlx.DB) error {
		defer db.observe(query, time.Now())
		return conn.SelectContext(ctx, dest, conn.Rebind(query), args...)
	})
}

// Get runs a query in its own scope and scans the first row into dest.
// It returns sql.ErrNoRows when nothing matched.
func (db *Database) Get(ctx context.Context, dest any, query string, args ...any) error {
	return db.Run(ctx, func(conn *sqlx.DB) error {
		defer db.observe(query, time.Now())
		return conn.GetContext(ctx, dest, conn.Rebind(query), args...)
	})
}

// Exec runs a single statement in its own scope. Each call is its own commit.
func (db *Database) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var result sql.Result
	err := db.Run(ctx, func(conn *sqlx.DB) error {
		defer db.observe(query, time.Now())
		var err error
		result, err = conn.ExecContext(ctx, conn.Rebind(query), args...)
		return err
	})
	return result, err
}

// Ping opens a scope and checks the store answers.
func (db *Database) Ping(ctx context.Context) error {
	return db.Run(ctx, func(conn *sqlx.DB) error {
		return conn.PingContext(ctx)
	})
}

// Close stops the Database from opening new scopes.
// Scopes are closed by the operations that open them, so nothing else is held.
func (db *Database) Close() error {
	if db.closed.Swap(true) {
		return nil
	}
	db.log.Info().Msg("database closed")
	return nil
}

func (db *Database) observe(query string, start time.Time) {
	elapsed := time.Since(start)
	if db.slowQueryThreshold <= 0 || elapsed < db.slowQueryThreshold {
		return
	}

	db.log.Warn().
		Dur("duration", elapsed).
		Dur("threshold", db.slowQueryThreshold).
		Str("query", strings.Join(strings.Fields(query), " ")).
		Msg("slow query")
}
