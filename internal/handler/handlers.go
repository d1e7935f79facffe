package handler

import (
	"github.com/deppfellow/concerts/internal/server"
	"github.com/deppfellow/concerts/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health   *HealthHandler
	Bands    *BandHandler
	Venues   *VenueHandler
	Concerts *ConcertHandler
	Report   *ReportHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		Bands:    NewBandHandler(s, services.Bands),
		Venues:   NewVenueHandler(s, services.Venues),
		Concerts: NewConcertHandler(s, services.Concerts),
		Report:   NewReportHandler(s, services.Report),
	}
}
