package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/concerts/internal/config"
	"github.com/deppfellow/concerts/internal/errs"
	"github.com/deppfellow/concerts/internal/handler"
	"github.com/deppfellow/concerts/internal/model"
	"github.com/deppfellow/concerts/internal/repository"
	"github.com/deppfellow/concerts/internal/server"
	"github.com/deppfellow/concerts/internal/service"
)

func newTestRouter(t *testing.T, configure func(cfg *config.Config)) *echo.Echo {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "concerts.db")
	cfg.Observability = config.DefaultObservabilityConfig()
	if configure != nil {
		configure(cfg)
	}

	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	services, err := service.NewService(s, repository.NewRepositories(s))
	require.NoError(t, err)
	require.NoError(t, services.Setup.Bootstrap(context.Background(), true))

	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestStatus(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := do(t, e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "sqlite", body["driver"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"].(map[string]any)["status"])
	assert.Equal(t, "healthy", checks["schema"].(map[string]any)["status"])
}

func TestRequestIDHeader(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := do(t, e, http.MethodGet, "/api/v1/bands", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bands", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestBandRoutes(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := do(t, e, http.MethodGet, "/api/v1/bands", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Band](t, rec), 3)

	rec = do(t, e, http.MethodGet, "/api/v1/bands/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.Band{ID: 2, Name: "Elani", Hometown: "Nairobi"}, decode[model.Band](t, rec))

	rec = do(t, e, http.MethodPost, "/api/v1/bands/2/concerts", `{"venue_id":3,"date":"2026-03-07"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, model.Concert{ID: 5, BandID: 2, VenueID: 3, Date: "2026-03-07"}, decode[model.Concert](t, rec))

	rec = do(t, e, http.MethodGet, "/api/v1/bands/2/venues", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Venue](t, rec), 2)

	rec = do(t, e, http.MethodGet, "/api/v1/bands/1/introductions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{
		"Hello Nairobi!!!!! We are Sauti Sol and we're from Nairobi",
		"Hello Mombasa!!!!! We are Sauti Sol and we're from Nairobi",
	}, decode[[]string](t, rec))

	rec = do(t, e, http.MethodGet, "/api/v1/bands/most-performances", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.Performance{Name: "Sauti Sol", Count: 2}, decode[model.Performance](t, rec))

	rec = do(t, e, http.MethodPost, "/api/v1/bands", `{"name":"Bensoul","hometown":"Nairobi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 4, decode[model.Band](t, rec).ID)
}

func TestVenueRoutes(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := do(t, e, http.MethodGet, "/api/v1/venues/1/concerts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Concert](t, rec), 2)

	rec = do(t, e, http.MethodGet, "/api/v1/venues/1/concerts?date=2025-12-25", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.Concert{ID: 4, BandID: 3, VenueID: 1, Date: "2025-12-25"}, decode[model.Concert](t, rec))

	rec = do(t, e, http.MethodGet, "/api/v1/venues/2/concerts?date=1999-01-01", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Concert not found", decode[errs.HTTPError](t, rec).Message)

	rec = do(t, e, http.MethodGet, "/api/v1/venues/1/bands", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Band](t, rec), 2)

	rec = do(t, e, http.MethodGet, "/api/v1/venues/2/most-frequent-band", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.Performance{Name: "Elani", Count: 1}, decode[model.Performance](t, rec))

	rec = do(t, e, http.MethodPost, "/api/v1/venues", `{"title":"Alchemist","city":"Nairobi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/venues", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Venue](t, rec), 4)
}

func TestConcertRoutes(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := do(t, e, http.MethodGet, "/api/v1/concerts/1/hometown-show", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.HometownShowResponse{ConcertID: 1, HometownShow: true},
		decode[handler.HometownShowResponse](t, rec))

	rec = do(t, e, http.MethodGet, "/api/v1/concerts/4/introduction", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello Nairobi!!!!! We are Wakadinali and we're from Mombasa",
		decode[handler.IntroductionResponse](t, rec).Introduction)

	rec = do(t, e, http.MethodGet, "/api/v1/concerts/2/venue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Megacity", decode[model.Venue](t, rec).Title)

	rec = do(t, e, http.MethodGet, "/api/v1/concerts/3/band", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sauti Sol", decode[model.Band](t, rec).Name)

	rec = do(t, e, http.MethodGet, "/api/v1/concerts/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-04-23", decode[model.Concert](t, rec).Date)
}

func TestReportRoute(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := do(t, e, http.MethodGet, "/api/v1/report", "")
	require.Equal(t, http.StatusOK, rec.Code)

	lineup := decode[service.Lineup](t, rec)
	assert.Len(t, lineup.Introductions, 4)
	assert.Equal(t, &model.Performance{Name: "Sauti Sol", Count: 2}, lineup.TopBand)
	assert.Len(t, lineup.Venues, 3)
}

func TestErrorResponses(t *testing.T) {
	e := newTestRouter(t, nil)

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		status  int
		code    string
		message string
	}{
		{
			name: "missing band", method: http.MethodGet, target: "/api/v1/bands/99",
			status: http.StatusNotFound, code: "NOT_FOUND", message: "Band not found",
		},
		{
			name: "missing concert", method: http.MethodGet, target: "/api/v1/concerts/99/introduction",
			status: http.StatusNotFound, code: "NOT_FOUND", message: "Concert not found",
		},
		{
			name: "non numeric id", method: http.MethodGet, target: "/api/v1/bands/abc",
			status: http.StatusBadRequest, code: "BAD_REQUEST",
		},
		{
			name: "zero id", method: http.MethodGet, target: "/api/v1/venues/0",
			status: http.StatusBadRequest, code: "BAD_REQUEST", message: "Validation failed",
		},
		{
			name: "missing fields", method: http.MethodPost, target: "/api/v1/bands", body: `{"name":"Bensoul"}`,
			status: http.StatusBadRequest, code: "BAD_REQUEST", message: "Validation failed",
		},
		{
			name: "unknown route", method: http.MethodGet, target: "/api/v1/nowhere",
			status: http.StatusNotFound, code: "NOT_FOUND", message: "Route not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, tt.method, tt.target, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			body := decode[errs.HTTPError](t, rec)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.code, body.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	e := newTestRouter(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = 0.01
	})

	rec := do(t, e, http.MethodGet, "/api/v1/bands", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/bands", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decode[errs.HTTPError](t, rec).Code)

	// The health check is never throttled.
	rec = do(t, e, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
