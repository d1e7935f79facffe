package repository

import (
	"context"

	"github.com/deppfellow/concerts/internal/database"
	"github.com/deppfellow/concerts/internal/model"
)

const (
	concertByID = `
		SELECT id, band_id, venue_id, date
		FROM concerts
		WHERE id = ?`

	concertsAll = `
		SELECT id, band_id, venue_id, date
		FROM concerts
		ORDER BY id`

	concertBand = `
		SELECT bands.id, bands.name, bands.hometown
		FROM concerts
		JOIN bands ON concerts.band_id = bands.id
		WHERE concerts.id = ?`

	concertVenue = `
		SELECT venues.id, venues.title, venues.city
		FROM concerts
		JOIN venues ON concerts.venue_id = venues.id
		WHERE concerts.id = ?`

	concertGreeting = `
		SELECT venues.city, bands.name, bands.hometown
		FROM concerts
		JOIN bands ON concerts.band_id = bands.id
		JOIN venues ON concerts.venue_id = venues.id
		WHERE concerts.id = ?`
)

// ConcertRepository runs the queries about a single concert.
type ConcertRepository struct {
	store Store
}

func NewConcertRepository(store Store) *ConcertRepository {
	return &ConcertRepository{store: store}
}

// Get returns the concert with the given id.
func (r *ConcertRepository) Get(ctx context.Context, concertID int64) (*model.Concert, error) {
	var concert model.Concert
	if err := r.store.Get(ctx, &concert, concertByID, concertID); err != nil {
		return nil, tableErr(database.TableConcerts, err, "get concert %d", concertID)
	}
	return &concert, nil
}

// List returns every concert in id order.
func (r *ConcertRepository) List(ctx context.Context) ([]model.Concert, error) {
	concerts := []model.Concert{}
	if err := r.store.Select(ctx, &concerts, concertsAll); err != nil {
		return nil, tableErr(database.TableConcerts, err, "list concerts")
	}
	return concerts, nil
}

// Band returns the band playing the concert.
func (r *ConcertRepository) Band(ctx context.Context, concertID int64) (*model.Band, error) {
	var band model.Band
	if err := r.store.Get(ctx, &band, concertBand, concertID); err != nil {
		return nil, tableErr(database.TableBands, err, "band of concert %d", concertID)
	}
	return &band, nil
}

// Venue returns the venue hosting the concert.
func (r *ConcertRepository) Venue(ctx context.Context, concertID int64) (*model.Venue, error) {
	var venue model.Venue
	if err := r.store.Get(ctx, &venue, concertVenue, concertID); err != nil {
		return nil, tableErr(database.TableVenues, err, "venue of concert %d", concertID)
	}
	return &venue, nil
}

// HometownShow reports whether the band plays in its own hometown.
// The comparison is an exact string match.
func (r *ConcertRepository) HometownShow(ctx context.Context, concertID int64) (bool, error) {
	row, err := r.greeting(ctx, concertID)
	if err != nil {
		return false, err
	}
	return row.Hometown == row.City, nil
}

// Introduction returns what the band says on stage at the concert.
func (r *ConcertRepository) Introduction(ctx context.Context, concertID int64) (string, error) {
	row, err := r.greeting(ctx, concertID)
	if err != nil {
		return "", err
	}
	return row.introduction(), nil
}

func (r *ConcertRepository) greeting(ctx context.Context, concertID int64) (greetingRow, error) {
	return lookupGreeting(ctx, r.store, concertID)
}
