package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/concerts/internal/handler"
)

// registerSystemRoutes registers endpoints outside the API, currently just
// the health check.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
}
