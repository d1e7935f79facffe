package service

import (
	"context"

	"github.com/deppfellow/concerts/internal/model"
	"github.com/deppfellow/concerts/internal/repository"
	"github.com/deppfellow/concerts/internal/server"
)

type ConcertService struct {
	server *server.Server
	repo   *repository.ConcertRepository
}

func NewConcertService(s *server.Server, repos *repository.Repositories) *ConcertService {
	return &ConcertService{
		server: s,
		repo:   repos.Concerts,
	}
}

func (s *ConcertService) Get(ctx context.Context, concertID int64) (*model.Concert, error) {
	return s.repo.Get(ctx, concertID)
}

func (s *ConcertService) Band(ctx context.Context, concertID int64) (*model.Band, error) {
	return s.repo.Band(ctx, concertID)
}

func (s *ConcertService) Venue(ctx context.Context, concertID int64) (*model.Venue, error) {
	return s.repo.Venue(ctx, concertID)
}

func (s *ConcertService) HometownShow(ctx context.Context, concertID int64) (bool, error) {
	return s.repo.HometownShow(ctx, concertID)
}

func (s *ConcertService) Introduction(ctx context.Context, concertID int64) (string, error) {
	return s.repo.Introduction(ctx, concertID)
}
