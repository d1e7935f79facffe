package repository

import (
	"context"

	"github.com/deppfellow/concerts/internal/database"
	"github.com/deppfellow/concerts/internal/model"
)

const (
	venueInsert = `
		INSERT INTO venues (title, city)
		VALUES (?, ?)
		RETURNING id, title, city`

	venueByID = `
		SELECT id, title, city
		FROM venues
		WHERE id = ?`

	venuesAll = `
		SELECT id, title, city
		FROM venues
		ORDER BY id`

	venueConcerts = `
		SELECT id, band_id, venue_id, date
		FROM concerts
		WHERE venue_id = ?
		ORDER BY id`

	venueBands = `
		SELECT DISTINCT bands.id, bands.name, bands.hometown
		FROM concerts
		JOIN bands ON concerts.band_id = bands.id
		WHERE concerts.venue_id = ?
		ORDER BY bands.id`

	venueConcertOn = `
		SELECT id, band_id, venue_id, date
		FROM concerts
		WHERE venue_id = ? AND date = ?
		ORDER BY id
		LIMIT 1`

	venueMostFrequentBand = `
		SELECT bands.name, COUNT(concerts.id) AS performance_count
		FROM bands
		JOIN concerts ON bands.id = concerts.band_id
		WHERE concerts.venue_id = ?
		GROUP BY bands.id, bands.name
		ORDER BY performance_count DESC, bands.id
		LIMIT 1`
)

// VenueRepository runs the venue-centred queries.
type VenueRepository struct {
	store Store
}

func NewVenueRepository(store Store) *VenueRepository {
	return &VenueRepository{store: store}
}

// Create inserts a venue and returns it with its new id.
func (r *VenueRepository) Create(ctx context.Context, title, city string) (*model.Venue, error) {
	var venue model.Venue
	if err := r.store.Get(ctx, &venue, venueInsert, title, city); err != nil {
		return nil, tableErr(database.TableVenues, err, "insert venue %q", title)
	}
	return &venue, nil
}

// Get returns the venue with the given id, or an error wrapping sql.ErrNoRows.
func (r *VenueRepository) Get(ctx context.Context, venueID int64) (*model.Venue, error) {
	var venue model.Venue
	if err := r.store.Get(ctx, &venue, venueByID, venueID); err != nil {
		return nil, tableErr(database.TableVenues, err, "get venue %d", venueID)
	}
	return &venue, nil
}

// List returns every venue in id order.
func (r *VenueRepository) List(ctx context.Context) ([]model.Venue, error) {
	venues := []model.Venue{}
	if err := r.store.Select(ctx, &venues, venuesAll); err != nil {
		return nil, tableErr(database.TableVenues, err, "list venues")
	}
	return venues, nil
}

// Concerts returns all concerts held at the venue.
func (r *VenueRepository) Concerts(ctx context.Context, venueID int64) ([]model.Concert, error) {
	concerts := []model.Concert{}
	if err := r.store.Select(ctx, &concerts, venueConcerts, venueID); err != nil {
		return nil, tableErr(database.TableConcerts, err, "list concerts at venue %d", venueID)
	}
	return concerts, nil
}

// Bands returns the distinct bands that have played the venue.
func (r *VenueRepository) Bands(ctx context.Context, venueID int64) ([]model.Band, error) {
	bands := []model.Band{}
	if err := r.store.Select(ctx, &bands, venueBands, venueID); err != nil {
		return nil, tableErr(database.TableBands, err, "list bands at venue %d", venueID)
	}
	return bands, nil
}

// ConcertOn returns the concert held at the venue on date. When several
// share the date the earliest booked wins; when none does the error wraps
// sql.ErrNoRows.
func (r *VenueRepository) ConcertOn(ctx context.Context, venueID int64, date string) (*model.Concert, error) {
	var concert model.Concert
	if err := r.store.Get(ctx, &concert, venueConcertOn, venueID, date); err != nil {
		return nil, tableErr(database.TableConcerts, err, "concert at venue %d on %s", venueID, date)
	}
	return &concert, nil
}

// MostFrequentBand returns the band that played the venue most often.
func (r *VenueRepository) MostFrequentBand(ctx context.Context, venueID int64) (*model.Performance, error) {
	var performance model.Performance
	if err := r.store.Get(ctx, &performance, venueMostFrequentBand, venueID); err != nil {
		return nil, tableErr(database.TableBands, err, "most frequent band at venue %d", venueID)
	}
	return &performance, nil
}
