// Package router builds the echo instance: global middleware, system
// routes and the /api/v1 resource routes.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/concerts/internal/handler"
	"github.com/deppfellow/concerts/internal/middleware"
	"github.com/deppfellow/concerts/internal/model"
	"github.com/deppfellow/concerts/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id and transaction must exist before the
	// context logger reads them.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerBandRoutes(v1, h.Bands)
	registerVenueRoutes(v1, h.Venues)
	registerConcertRoutes(v1, h.Concerts)

	v1.GET("/report", handler.Handle(h.Report.Handler, h.Report.Lineup, http.StatusOK, &model.EmptyRequest{}))

	return router
}

func registerBandRoutes(g *echo.Group, h *handler.BandHandler) {
	bands := g.Group("/bands")

	bands.GET("", handler.Handle(h.Handler, h.List, http.StatusOK, &model.EmptyRequest{}))
	bands.POST("", handler.Handle(h.Handler, h.Create, http.StatusCreated, &model.CreateBandRequest{}))
	bands.GET("/most-performances", handler.Handle(h.Handler, h.MostPerformances, http.StatusOK, &model.EmptyRequest{}))
	bands.GET("/:id", handler.Handle(h.Handler, h.Get, http.StatusOK, &model.IDRequest{}))
	bands.GET("/:id/concerts", handler.Handle(h.Handler, h.Concerts, http.StatusOK, &model.IDRequest{}))
	bands.POST("/:id/concerts", handler.Handle(h.Handler, h.PlayInVenue, http.StatusCreated, &model.PlayInVenueRequest{}))
	bands.GET("/:id/venues", handler.Handle(h.Handler, h.Venues, http.StatusOK, &model.IDRequest{}))
	bands.GET("/:id/introductions", handler.Handle(h.Handler, h.Introductions, http.StatusOK, &model.IDRequest{}))
}

func registerVenueRoutes(g *echo.Group, h *handler.VenueHandler) {
	venues := g.Group("/venues")

	venues.GET("", handler.Handle(h.Handler, h.List, http.StatusOK, &model.EmptyRequest{}))
	venues.POST("", handler.Handle(h.Handler, h.Create, http.StatusCreated, &model.CreateVenueRequest{}))
	venues.GET("/:id", handler.Handle(h.Handler, h.Get, http.StatusOK, &model.IDRequest{}))
	venues.GET("/:id/concerts", handler.Handle(h.Handler, h.Concerts, http.StatusOK, &model.VenueConcertsRequest{}))
	venues.GET("/:id/bands", handler.Handle(h.Handler, h.Bands, http.StatusOK, &model.IDRequest{}))
	venues.GET("/:id/most-frequent-band", handler.Handle(h.Handler, h.MostFrequentBand, http.StatusOK, &model.IDRequest{}))
}

func registerConcertRoutes(g *echo.Group, h *handler.ConcertHandler) {
	concerts := g.Group("/concerts")

	concerts.GET("/:id", handler.Handle(h.Handler, h.Get, http.StatusOK, &model.IDRequest{}))
	concerts.GET("/:id/band", handler.Handle(h.Handler, h.Band, http.StatusOK, &model.IDRequest{}))
	concerts.GET("/:id/venue", handler.Handle(h.Handler, h.Venue, http.StatusOK, &model.IDRequest{}))
	concerts.GET("/:id/hometown-show", handler.Handle(h.Handler, h.HometownShow, http.StatusOK, &model.IDRequest{}))
	concerts.GET("/:id/introduction", handler.Handle(h.Handler, h.Introduction, http.StatusOK, &model.IDRequest{}))
}
