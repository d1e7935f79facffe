package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/concerts/internal/model"
	"github.com/deppfellow/concerts/internal/server"
	"github.com/deppfellow/concerts/internal/service"
)

type BandHandler struct {
	Handler
	bands *service.BandService
}

func NewBandHandler(s *server.Server, bands *service.BandService) *BandHandler {
	return &BandHandler{
		Handler: NewHandler(s),
		bands:   bands,
	}
}

func (h *BandHandler) Create(c echo.Context, req *model.CreateBandRequest) (*model.Band, error) {
	return h.bands.Create(c.Request().Context(), req)
}

func (h *BandHandler) List(c echo.Context, _ *model.EmptyRequest) ([]model.Band, error) {
	return h.bands.List(c.Request().Context())
}

func (h *BandHandler) Get(c echo.Context, req *model.IDRequest) (*model.Band, error) {
	return h.bands.Get(c.Request().Context(), req.ID)
}

func (h *BandHandler) Concerts(c echo.Context, req *model.IDRequest) ([]model.Concert, error) {
	return h.bands.Concerts(c.Request().Context(), req.ID)
}

func (h *BandHandler) PlayInVenue(c echo.Context, req *model.PlayInVenueRequest) (*model.Concert, error) {
	return h.bands.PlayInVenue(c.Request().Context(), req)
}

func (h *BandHandler) Venues(c echo.Context, req *model.IDRequest) ([]model.Venue, error) {
	return h.bands.Venues(c.Request().Context(), req.ID)
}

func (h *BandHandler) Introductions(c echo.Context, req *model.IDRequest) ([]string, error) {
	return h.bands.AllIntroductions(c.Request().Context(), req.ID)
}

func (h *BandHandler) MostPerformances(c echo.Context, _ *model.EmptyRequest) (*model.Performance, error) {
	return h.bands.MostPerformances(c.Request().Context())
}
