package service

import (
	"context"

	"github.com/deppfellow/concerts/internal/middleware"
	"github.com/deppfellow/concerts/internal/model"
	"github.com/deppfellow/concerts/internal/repository"
	"github.com/deppfellow/concerts/internal/server"
)

type BandService struct {
	server *server.Server
	repo   *repository.BandRepository
}

func NewBandService(s *server.Server, repos *repository.Repositories) *BandService {
	return &BandService{
		server: s,
		repo:   repos.Bands,
	}
}

func (s *BandService) Create(ctx context.Context, req *model.CreateBandRequest) (*model.Band, error) {
	band, err := s.repo.Create(ctx, req.Name, req.Hometown)
	if err != nil {
		return nil, err
	}

	middleware.LoggerFromContext(ctx, s.server.Logger).Info().Int64("band_id", band.ID).Str("name", band.Name).Msg("band created")
	return band, nil
}

func (s *BandService) Get(ctx context.Context, bandID int64) (*model.Band, error) {
	return s.repo.Get(ctx, bandID)
}

func (s *BandService) List(ctx context.Context) ([]model.Band, error) {
	return s.repo.List(ctx)
}

func (s *BandService) Concerts(ctx context.Context, bandID int64) ([]model.Concert, error) {
	return s.repo.Concerts(ctx, bandID)
}

func (s *BandService) Venues(ctx context.Context, bandID int64) ([]model.Venue, error) {
	return s.repo.Venues(ctx, bandID)
}

// PlayInVenue books a concert. Neither the band nor the venue is checked
// for existence first.
func (s *BandService) PlayInVenue(ctx context.Context, req *model.PlayInVenueRequest) (*model.Concert, error) {
	concert, err := s.repo.PlayInVenue(ctx, req.BandID, req.VenueID, req.Date)
	if err != nil {
		return nil, err
	}

	middleware.LoggerFromContext(ctx, s.server.Logger).Info().
		Int64("concert_id", concert.ID).
		Int64("band_id", concert.BandID).
		Int64("venue_id", concert.VenueID).
		Str("date", concert.Date).
		Msg("concert booked")
	return concert, nil
}

func (s *BandService) AllIntroductions(ctx context.Context, bandID int64) ([]string, error) {
	return s.repo.AllIntroductions(ctx, bandID)
}

func (s *BandService) MostPerformances(ctx context.Context) (*model.Performance, error) {
	return s.repo.MostPerformances(ctx)
}
