package service

import (
	"context"

	"github.com/deppfellow/concerts/internal/middleware"
	"github.com/deppfellow/concerts/internal/model"
	"github.com/deppfellow/concerts/internal/repository"
	"github.com/deppfellow/concerts/internal/server"
)

type VenueService struct {
	server *server.Server
	repo   *repository.VenueRepository
}

func NewVenueService(s *server.Server, repos *repository.Repositories) *VenueService {
	return &VenueService{
		server: s,
		repo:   repos.Venues,
	}
}

func (s *VenueService) Create(ctx context.Context, req *model.CreateVenueRequest) (*model.Venue, error) {
	venue, err := s.repo.Create(ctx, req.Title, req.City)
	if err != nil {
		return nil, err
	}

	middleware.LoggerFromContext(ctx, s.server.Logger).Info().Int64("venue_id", venue.ID).Str("title", venue.Title).Msg("venue created")
	return venue, nil
}

func (s *VenueService) Get(ctx context.Context, venueID int64) (*model.Venue, error) {
	return s.repo.Get(ctx, venueID)
}

func (s *VenueService) List(ctx context.Context) ([]model.Venue, error) {
	return s.repo.List(ctx)
}

func (s *VenueService) Concerts(ctx context.Context, venueID int64) ([]model.Concert, error) {
	return s.repo.Concerts(ctx, venueID)
}

func (s *VenueService) Bands(ctx context.Context, venueID int64) ([]model.Band, error) {
	return s.repo.Bands(ctx, venueID)
}

func (s *VenueService) ConcertOn(ctx context.Context, venueID int64, date string) (*model.Concert, error) {
	return s.repo.ConcertOn(ctx, venueID, date)
}

func (s *VenueService) MostFrequentBand(ctx context.Context, venueID int64) (*model.Performance, error) {
	return s.repo.MostFrequentBand(ctx, venueID)
}
