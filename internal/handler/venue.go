package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/concerts/internal/model"
	"github.com/deppfellow/concerts/internal/server"
	"github.com/deppfellow/concerts/internal/service"
)

type VenueHandler struct {
	Handler
	venues *service.VenueService
}

func NewVenueHandler(s *server.Server, venues *service.VenueService) *VenueHandler {
	return &VenueHandler{
		Handler: NewHandler(s),
		venues:  venues,
	}
}

func (h *VenueHandler) Create(c echo.Context, req *model.CreateVenueRequest) (*model.Venue, error) {
	return h.venues.Create(c.Request().Context(), req)
}

func (h *VenueHandler) List(c echo.Context, _ *model.EmptyRequest) ([]model.Venue, error) {
	return h.venues.List(c.Request().Context())
}

func (h *VenueHandler) Get(c echo.Context, req *model.IDRequest) (*model.Venue, error) {
	return h.venues.Get(c.Request().Context(), req.ID)
}

// Concerts lists the venue's concerts. With ?date= it returns the single
// concert on that date, or 404.
func (h *VenueHandler) Concerts(c echo.Context, req *model.VenueConcertsRequest) (any, error) {
	if req.Date != "" {
		return h.venues.ConcertOn(c.Request().Context(), req.VenueID, req.Date)
	}
	return h.venues.Concerts(c.Request().Context(), req.VenueID)
}

func (h *VenueHandler) Bands(c echo.Context, req *model.IDRequest) ([]model.Band, error) {
	return h.venues.Bands(c.Request().Context(), req.ID)
}

func (h *VenueHandler) MostFrequentBand(c echo.Context, req *model.IDRequest) (*model.Performance, error) {
	return h.venues.MostFrequentBand(c.Request().Context(), req.ID)
}
