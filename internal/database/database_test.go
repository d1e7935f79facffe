package database

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/concerts/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "concerts.db")
	cfg.Observability = config.DefaultObservabilityConfig()
	return cfg
}

func newTestDatabase(t *testing.T, cfg *config.Config, logger *zerolog.Logger) *Database {
	t.Helper()

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	db, err := New(cfg, logger, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type column struct {
	CID          int     `db:"cid"`
	Name         string  `db:"name"`
	Type         string  `db:"type"`
	NotNull      int     `db:"notnull"`
	DefaultValue *string `db:"dflt_value"`
	PK           int     `db:"pk"`
}

func tableColumns(t *testing.T, db *Database, table string) []column {
	t.Helper()

	var columns []column
	require.NoError(t, db.Select(context.Background(), &columns, "PRAGMA table_info("+table+")"))
	return columns
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t, testConfig(t), nil)

	require.NoError(t, db.CreateSchema(ctx))

	tables, err := db.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{TableBands, TableConcerts, TableVenues}, tables)

	before := map[string][]column{}
	for _, table := range tables {
		before[table] = tableColumns(t, db, table)
	}

	require.NoError(t, db.CreateSchema(ctx))

	tables, err = db.Tables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	for _, table := range tables {
		assert.Equal(t, before[table], tableColumns(t, db, table), table)
	}

	names := func(cols []column) []string {
		out := make([]string, 0, len(cols))
		for _, c := range cols {
			out = append(out, c.Name)
		}
		return out
	}
	assert.Equal(t, []string{"id", "name", "hometown"}, names(before[TableBands]))
	assert.Equal(t, []string{"id", "title", "city"}, names(before[TableVenues]))
	assert.Equal(t, []string{"id", "band_id", "venue_id", "date"}, names(before[TableConcerts]))
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t, testConfig(t), nil)

	require.NoError(t, db.CreateSchema(ctx))
	require.NoError(t, db.Seed(ctx))

	count := func(table string) int {
		var n int
		require.NoError(t, db.Get(ctx, &n, "SELECT COUNT(*) FROM "+table))
		return n
	}
	assert.Equal(t, 3, count(TableBands))
	assert.Equal(t, 3, count(TableVenues))
	assert.Equal(t, 4, count(TableConcerts))

	// Seeding again is not guarded.
	require.NoError(t, db.Seed(ctx))
	assert.Equal(t, 6, count(TableBands))
	assert.Equal(t, 8, count(TableConcerts))
}

func TestSeedWithoutSchemaFails(t *testing.T) {
	db := newTestDatabase(t, testConfig(t), nil)

	err := db.Seed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to seed database")
}

func TestExecAndRebind(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t, testConfig(t), nil)
	require.NoError(t, db.CreateSchema(ctx))

	res, err := db.Exec(ctx, "INSERT INTO bands (name, hometown) VALUES (?, ?)", "Bensoul", "Nairobi")
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	var hometown string
	require.NoError(t, db.Get(ctx, &hometown, "SELECT hometown FROM bands WHERE name = ?", "Bensoul"))
	assert.Equal(t, "Nairobi", hometown)
}

func TestRunClosesScope(t *testing.T) {
	db := newTestDatabase(t, testConfig(t), nil)

	var scope *sqlx.DB
	require.NoError(t, db.Run(context.Background(), func(conn *sqlx.DB) error {
		scope = conn
		return nil
	}))

	assert.Error(t, scope.Ping(), "scope should be closed after Run returns")
}

func TestClosedDatabase(t *testing.T) {
	db := newTestDatabase(t, testConfig(t), nil)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	assert.ErrorIs(t, db.Ping(context.Background()), ErrClosed)
}

func TestSlowQueryIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	cfg := testConfig(t)
	cfg.Observability.Logging.SlowQueryThreshold = time.Nanosecond

	db := newTestDatabase(t, cfg, &logger)
	require.NoError(t, db.CreateSchema(context.Background()))

	var n int
	require.NoError(t, db.Get(context.Background(), &n, "SELECT   COUNT(*)\n FROM bands"))
	assert.Contains(t, buf.String(), `"message":"slow query"`)
	assert.Contains(t, buf.String(), `"query":"SELECT COUNT(*) FROM bands"`)
}

func TestSQLiteDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Path: "gigs.db", ForeignKeys: true}

	dsn, err := SQLiteDSN(&cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dsn, "file:/"), dsn)
	assert.Contains(t, dsn, "gigs.db?")
	assert.Contains(t, dsn, "_pragma=busy_timeout(5000)")
	assert.Contains(t, dsn, "_pragma=foreign_keys(1)")

	cfg.ForeignKeys = false
	cfg.BusyTimeout = 250 * time.Millisecond
	dsn, err = SQLiteDSN(&cfg)
	require.NoError(t, err)
	assert.Contains(t, dsn, "_pragma=busy_timeout(250)")
	assert.Contains(t, dsn, "_pragma=foreign_keys(0)")
}

func TestPostgresDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "::1",
		Port:     5432,
		User:     "concerts",
		Password: "pa:ss@word",
		Name:     "lineup",
	}

	assert.Equal(t, "postgres://concerts:pa%3Ass%40word@[::1]:5432/lineup?sslmode=disable", PostgresDSN(&cfg))

	cfg.SSLMode = "require"
	assert.Contains(t, PostgresDSN(&cfg), "sslmode=require")
}

func TestUnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	nop := zerolog.Nop()
	_, err := New(cfg, &nop, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
