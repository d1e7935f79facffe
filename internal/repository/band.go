package repository

import (
	"context"

	"github.com/deppfellow/concerts/internal/database"
	"github.com/deppfellow/concerts/internal/model"
)

const (
	bandInsert = `
		INSERT INTO bands (name, hometown)
		VALUES (?, ?)
		RETURNING id, name, hometown`

	bandByID = `
		SELECT id, name, hometown
		FROM bands
		WHERE id = ?`

	bandsAll = `
		SELECT id, name, hometown
		FROM bands
		ORDER BY id`

	bandConcerts = `
		SELECT id, band_id, venue_id, date
		FROM concerts
		WHERE band_id = ?
		ORDER BY id`

	bandVenues = `
		SELECT DISTINCT venues.id, venues.title, venues.city
		FROM concerts
		JOIN venues ON concerts.venue_id = venues.id
		WHERE concerts.band_id = ?
		ORDER BY venues.id`

	bandPlayInVenue = `
		INSERT INTO concerts (band_id, venue_id, date)
		VALUES (?, ?, ?)
		RETURNING id, band_id, venue_id, date`

	// Ties on the count go to the lowest band id.
	bandMostPerformances = `
		SELECT bands.name, COUNT(concerts.id) AS performance_count
		FROM bands
		JOIN concerts ON bands.id = concerts.band_id
		GROUP BY bands.id, bands.name
		ORDER BY performance_count DESC, bands.id
		LIMIT 1`
)

// BandRepository runs the band-centred queries.
type BandRepository struct {
	store Store
}

func NewBandRepository(store Store) *BandRepository {
	return &BandRepository{store: store}
}

// Create inserts a band and returns it with its new id.
func (r *BandRepository) Create(ctx context.Context, name, hometown string) (*model.Band, error) {
	var band model.Band
	if err := r.store.Get(ctx, &band, bandInsert, name, hometown); err != nil {
		return nil, tableErr(database.TableBands, err, "insert band %q", name)
	}
	return &band, nil
}

// Get returns the band with the given id, or an error wrapping sql.ErrNoRows.
func (r *BandRepository) Get(ctx context.Context, bandID int64) (*model.Band, error) {
	var band model.Band
	if err := r.store.Get(ctx, &band, bandByID, bandID); err != nil {
		return nil, tableErr(database.TableBands, err, "get band %d", bandID)
	}
	return &band, nil
}

// List returns every band in id order.
func (r *BandRepository) List(ctx context.Context) ([]model.Band, error) {
	bands := []model.Band{}
	if err := r.store.Select(ctx, &bands, bandsAll); err != nil {
		return nil, tableErr(database.TableBands, err, "list bands")
	}
	return bands, nil
}

// Concerts returns all concerts of the band.
func (r *BandRepository) Concerts(ctx context.Context, bandID int64) ([]model.Concert, error) {
	concerts := []model.Concert{}
	if err := r.store.Select(ctx, &concerts, bandConcerts, bandID); err != nil {
		return nil, tableErr(database.TableConcerts, err, "list concerts of band %d", bandID)
	}
	return concerts, nil
}

// Venues returns the distinct venues the band has played.
func (r *BandRepository) Venues(ctx context.Context, bandID int64) ([]model.Venue, error) {
	venues := []model.Venue{}
	if err := r.store.Select(ctx, &venues, bandVenues, bandID); err != nil {
		return nil, tableErr(database.TableVenues, err, "list venues of band %d", bandID)
	}
	return venues, nil
}

// PlayInVenue books the band at the venue on date. Neither reference is
// checked first, and the same booking may be made twice.
func (r *BandRepository) PlayInVenue(ctx context.Context, bandID, venueID int64, date string) (*model.Concert, error) {
	var concert model.Concert
	if err := r.store.Get(ctx, &concert, bandPlayInVenue, bandID, venueID, date); err != nil {
		return nil, tableErr(database.TableConcerts, err, "book band %d at venue %d", bandID, venueID)
	}
	return &concert, nil
}

// AllIntroductions returns the introduction the band gives at each of its
// concerts, in concert order. A concert whose venue or band row is missing
// fails the whole call with an error wrapping sql.ErrNoRows.
func (r *BandRepository) AllIntroductions(ctx context.Context, bandID int64) ([]string, error) {
	concerts, err := r.Concerts(ctx, bandID)
	if err != nil {
		return nil, err
	}

	introductions := make([]string, 0, len(concerts))
	for _, concert := range concerts {
		row, err := lookupGreeting(ctx, r.store, concert.ID)
		if err != nil {
			return nil, err
		}
		introductions = append(introductions, row.introduction())
	}
	return introductions, nil
}

// MostPerformances returns the band with the most concerts overall.
// It returns an error wrapping sql.ErrNoRows when no concert exists.
func (r *BandRepository) MostPerformances(ctx context.Context) (*model.Performance, error) {
	var performance model.Performance
	if err := r.store.Get(ctx, &performance, bandMostPerformances); err != nil {
		return nil, tableErr(database.TableBands, err, "band with most performances")
	}
	return &performance, nil
}
