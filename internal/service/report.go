package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deppfellow/concerts/internal/model"
	"github.com/deppfellow/concerts/internal/repository"
	"github.com/deppfellow/concerts/internal/server"
)

// ConcertIntroduction is one concert and what the band says on stage there.
type ConcertIntroduction struct {
	ConcertID    int64  `json:"concert_id"`
	Date         string `json:"date"`
	Introduction string `json:"introduction"`
}

// VenueHeadliner is the band that played a venue most. Headliner is nil
// for venues without concerts.
type VenueHeadliner struct {
	Venue     model.Venue        `json:"venue"`
	Headliner *model.Performance `json:"headliner"`
}

// Lineup is the report printed by `concerts report` and served at /api/v1/report.
type Lineup struct {
	Introductions []ConcertIntroduction `json:"introductions"`
	TopBand       *model.Performance    `json:"top_band"`
	Venues        []VenueHeadliner      `json:"venues"`
}

type ReportService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewReportService(s *server.Server, repos *repository.Repositories) *ReportService {
	return &ReportService{
		server: s,
		repos:  repos,
	}
}

// Lineup collects the introduction of every concert, the band with the
// most performances and the most frequent band of each venue.
func (s *ReportService) Lineup(ctx context.Context) (*Lineup, error) {
	concerts, err := s.repos.Concerts.List(ctx)
	if err != nil {
		return nil, err
	}

	lineup := &Lineup{
		Introductions: make([]ConcertIntroduction, 0, len(concerts)),
		Venues:        []VenueHeadliner{},
	}

	for _, concert := range concerts {
		intro, err := s.repos.Concerts.Introduction(ctx, concert.ID)
		if err != nil {
			// Concerts pointing at missing bands or venues have nothing to say.
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}

		lineup.Introductions = append(lineup.Introductions, ConcertIntroduction{
			ConcertID:    concert.ID,
			Date:         concert.Date,
			Introduction: intro,
		})
	}

	lineup.TopBand, err = optional(s.repos.Bands.MostPerformances(ctx))
	if err != nil {
		return nil, err
	}

	venues, err := s.repos.Venues.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, venue := range venues {
		headliner, err := optional(s.repos.Venues.MostFrequentBand(ctx, venue.ID))
		if err != nil {
			return nil, err
		}
		lineup.Venues = append(lineup.Venues, VenueHeadliner{Venue: venue, Headliner: headliner})
	}

	return lineup, nil
}

// optional maps sql.ErrNoRows to a nil result.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}
