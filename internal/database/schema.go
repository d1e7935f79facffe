package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/deppfellow/concerts/internal/config"
)

// Table names.
const (
	TableBands    = "bands"
	TableVenues   = "venues"
	TableConcerts = "concerts"
)

// sqliteSchema and postgresSchema differ only in how ids are generated.
// Concert references are declared, but SQLite only enforces them with foreign_keys(1).
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS bands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		hometown TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS venues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		city TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS concerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		band_id INTEGER,
		venue_id INTEGER,
		date TEXT,
		FOREIGN KEY (band_id) REFERENCES bands(id),
		FOREIGN KEY (venue_id) REFERENCES venues(id)
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS bands (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		hometown TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS venues (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		city TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS concerts (
		id SERIAL PRIMARY KEY,
		band_id INTEGER,
		venue_id INTEGER,
		date TEXT,
		FOREIGN KEY (band_id) REFERENCES bands(id),
		FOREIGN KEY (venue_id) REFERENCES venues(id)
	)`,
}

// seedStatements insert the demo lineup. Concert rows point at ids 1..3, which
// is what a fresh store hands out for the first three bands and venues.
var seedStatements = []string{
	`INSERT INTO bands (name, hometown) VALUES ('Sauti Sol', 'Nairobi')`,
	`INSERT INTO bands (name, hometown) VALUES ('Elani', 'Nairobi')`,
	`INSERT INTO bands (name, hometown) VALUES ('Wakadinali', 'Mombasa')`,

	`INSERT INTO venues (title, city) VALUES ('Quiver', 'Nairobi')`,
	`INSERT INTO venues (title, city) VALUES ('Megacity', 'Kisumu')`,
	`INSERT INTO venues (title, city) VALUES ('Tunnel', 'Mombasa')`,

	`INSERT INTO concerts (band_id, venue_id, date) VALUES (1, 1, '2025-12-01')`,
	`INSERT INTO concerts (band_id, venue_id, date) VALUES (2, 2, '2022-02-14')`,
	`INSERT INTO concerts (band_id, venue_id, date) VALUES (1, 3, '2025-04-23')`,
	`INSERT INTO concerts (band_id, venue_id, date) VALUES (3, 1, '2025-12-25')`,
}

func (db *Database) schema() []string {
	if db.cfg.Driver == config.DriverPostgres {
		return postgresSchema
	}
	return sqliteSchema
}

// CreateSchema creates the bands, venues and concerts tables if they are missing.
// Running it again leaves existing tables untouched.
func (db *Database) CreateSchema(ctx context.Context) error {
	err := db.Run(ctx, func(conn *sqlx.DB) error {
		for i, stmt := range db.schema() {
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	db.log.Info().Str("driver", db.cfg.Driver).Msg("database schema ready")
	return nil
}

// Seed inserts the fixed demo rows. Every insert commits on its own and
// nothing checks for earlier runs, so seeding twice duplicates the rows.
func (db *Database) Seed(ctx context.Context) error {
	err := db.Run(ctx, func(conn *sqlx.DB) error {
		for i, stmt := range seedStatements {
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("seed statement %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	db.log.Info().Int("statements", len(seedStatements)).Msg("database seeded")
	return nil
}

// Tables lists the user tables of the store in name order.
func (db *Database) Tables(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	if db.cfg.Driver == config.DriverPostgres {
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() ORDER BY table_name`
	}

	tables := []string{}
	if err := db.Select(ctx, &tables, query); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}
