package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/concerts/internal/model"
	"github.com/deppfellow/concerts/internal/server"
	"github.com/deppfellow/concerts/internal/service"
)

type HometownShowResponse struct {
	ConcertID    int64 `json:"concert_id"`
	HometownShow bool  `json:"hometown_show"`
}

type IntroductionResponse struct {
	ConcertID    int64  `json:"concert_id"`
	Introduction string `json:"introduction"`
}

type ConcertHandler struct {
	Handler
	concerts *service.ConcertService
}

func NewConcertHandler(s *server.Server, concerts *service.ConcertService) *ConcertHandler {
	return &ConcertHandler{
		Handler:  NewHandler(s),
		concerts: concerts,
	}
}

func (h *ConcertHandler) Get(c echo.Context, req *model.IDRequest) (*model.Concert, error) {
	return h.concerts.Get(c.Request().Context(), req.ID)
}

func (h *ConcertHandler) Band(c echo.Context, req *model.IDRequest) (*model.Band, error) {
	return h.concerts.Band(c.Request().Context(), req.ID)
}

func (h *ConcertHandler) Venue(c echo.Context, req *model.IDRequest) (*model.Venue, error) {
	return h.concerts.Venue(c.Request().Context(), req.ID)
}

func (h *ConcertHandler) HometownShow(c echo.Context, req *model.IDRequest) (*HometownShowResponse, error) {
	hometown, err := h.concerts.HometownShow(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return &HometownShowResponse{ConcertID: req.ID, HometownShow: hometown}, nil
}

func (h *ConcertHandler) Introduction(c echo.Context, req *model.IDRequest) (*IntroductionResponse, error) {
	intro, err := h.concerts.Introduction(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return &IntroductionResponse{ConcertID: req.ID, Introduction: intro}, nil
}
