package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/concerts/internal/database"
	"github.com/deppfellow/concerts/internal/middleware"
	"github.com/deppfellow/concerts/internal/server"
)

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

var requiredTables = []string{database.TableBands, database.TableVenues, database.TableConcerts}

// CheckHealth pings the store and checks the three tables exist.
// It answers 200 when both pass and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"driver":      h.server.DB.Driver(),
		"checks":      make(map[string]interface{}),
	}

	if obs := h.server.Config.Observability; obs != nil && !obs.HealthChecks.Enabled {
		response["checks"] = "disabled"
		return c.JSON(http.StatusOK, response)
	}

	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	timeout := 5 * time.Second
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		timeout = obs.HealthChecks.Timeout
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	dbStart := time.Now()
	if err := h.server.DB.Ping(ctx); err != nil {
		checks["database"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": time.Since(dbStart).String(),
			"error":         err.Error(),
		}
		isHealthy = false

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check failed")

		h.recordFailure("database", err, time.Since(dbStart))
	} else {
		checks["database"] = map[string]interface{}{
			"status":        "healthy",
			"response_time": time.Since(dbStart).String(),
		}
	}

	if isHealthy {
		schemaStart := time.Now()
		missing, err := h.missingTables(ctx)

		switch {
		case err != nil:
			checks["schema"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			isHealthy = false
			h.recordFailure("schema", err, time.Since(schemaStart))

		case len(missing) > 0:
			checks["schema"] = map[string]interface{}{
				"status":  "unhealthy",
				"missing": missing,
			}
			isHealthy = false
			logger.Warn().Strs("missing", missing).Msg("schema health check failed")

		default:
			checks["schema"] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(schemaStart).String(),
			}
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) missingTables(ctx context.Context) ([]string, error) {
	tables, err := h.server.DB.Tables(ctx)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(tables))
	for _, table := range tables {
		present[table] = true
	}

	missing := []string{}
	for _, table := range requiredTables {
		if !present[table] {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

func (h *HealthHandler) recordFailure(check string, err error, elapsed time.Duration) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}

	h.server.LoggerService.GetApplication().RecordCustomEvent(
		"HealthCheckError",
		map[string]interface{}{
			"check_type":       check,
			"operation":        "health_check",
			"error_type":       check + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		},
	)
}
