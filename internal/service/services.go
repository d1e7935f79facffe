package service

import (
	"github.com/deppfellow/concerts/internal/repository"
	"github.com/deppfellow/concerts/internal/server"
)

type Services struct {
	Setup    *SetupService
	Bands    *BandService
	Venues   *VenueService
	Concerts *ConcertService
	Report   *ReportService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Setup:    NewSetupService(s),
		Bands:    NewBandService(s, repos),
		Venues:   NewVenueService(s, repos),
		Concerts: NewConcertService(s, repos),
		Report:   NewReportService(s, repos),
	}, nil
}
