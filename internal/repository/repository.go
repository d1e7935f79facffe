// Package repository handles all interactions with the database.
//
// It contains the raw SQL for bands, venues and concerts and the methods
// that run it. Errors from the store are returned as they are, wrapped with
// the table they came from; translating them is left to the caller.
package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/concerts/internal/database"
)

// Store is the part of database.Database the repositories need.
// Every call runs in its own connection scope.
type Store interface {
	Select(ctx context.Context, dest any, query string, args ...any) error
	Get(ctx context.Context, dest any, query string, args ...any) error
}

// introductionFormat is the greeting a band gives at a concert.
const introductionFormat = "Hello %s!!!!! We are %s and we're from %s"

// greetingRow carries what an introduction needs from one concert.
type greetingRow struct {
	City     string `db:"city"`
	Name     string `db:"name"`
	Hometown string `db:"hometown"`
}

func (g greetingRow) introduction() string {
	return fmt.Sprintf(introductionFormat, g.City, g.Name, g.Hometown)
}

// lookupGreeting joins one concert to its band and venue. A dangling
// reference yields no row, so the error wraps sql.ErrNoRows.
func lookupGreeting(ctx context.Context, store Store, concertID int64) (greetingRow, error) {
	var row greetingRow
	if err := store.Get(ctx, &row, concertGreeting, concertID); err != nil {
		return row, tableErr(database.TableConcerts, err, "concert %d", concertID)
	}
	return row, nil
}

// tableErr prefixes err with "table:<name>:" so the HTTP edge can tell which
// entity was missing. errors.Is and errors.As still see the original error.
func tableErr(table string, err error, format string, args ...any) error {
	return fmt.Errorf("table:%s: %s: %w", table, fmt.Sprintf(format, args...), err)
}
