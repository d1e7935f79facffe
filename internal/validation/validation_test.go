package validation_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/concerts/internal/errs"
	"github.com/deppfellow/concerts/internal/model"
	"github.com/deppfellow/concerts/internal/validation"
)

func newContext(method, target, body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidateSuccess(t *testing.T) {
	c := newContext(http.MethodPost, "/api/v1/bands/2/concerts", `{"venue_id":3,"date":"2026-03-07"}`)
	c.SetParamNames("id")
	c.SetParamValues("2")

	req := &model.PlayInVenueRequest{}
	require.NoError(t, validation.BindAndValidate(c, req))
	assert.Equal(t, &model.PlayInVenueRequest{BandID: 2, VenueID: 3, Date: "2026-03-07"}, req)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	c := newContext(http.MethodPost, "/api/v1/bands/2/concerts", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("2")

	err := validation.BindAndValidate(c, &model.PlayInVenueRequest{})
	require.Error(t, err)

	httpErr, ok := err.(*errs.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "venueid", Error: "is required"},
		{Field: "date", Error: "is required"},
	}, httpErr.Errors)
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	c := newContext(http.MethodPost, "/api/v1/bands", `{"name":`)

	err := validation.BindAndValidate(c, &model.CreateBandRequest{})
	require.Error(t, err)

	httpErr, ok := err.(*errs.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.NotEmpty(t, httpErr.Message)
	assert.Empty(t, httpErr.Errors)
}

func TestBindAndValidateBadPathParam(t *testing.T) {
	c := newContext(http.MethodGet, "/api/v1/bands/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := validation.BindAndValidate(c, &model.IDRequest{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*errs.HTTPError).Status)
}

func TestBindAndValidateQuery(t *testing.T) {
	c := newContext(http.MethodGet, "/api/v1/venues/1/concerts?date=2025-12-25", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	req := &model.VenueConcertsRequest{}
	require.NoError(t, validation.BindAndValidate(c, req))
	assert.Equal(t, "2025-12-25", req.Date)
	assert.EqualValues(t, 1, req.VenueID)
}

// closedRequest fails with a plain error rather than validator.ValidationErrors.
type closedRequest struct{}

func (r *closedRequest) Validate() error {
	return errors.New("bookings are closed")
}

func TestBindAndValidatePlainError(t *testing.T) {
	c := newContext(http.MethodPost, "/api/v1/bands/1/concerts", `{}`)

	err := validation.BindAndValidate(c, &closedRequest{})
	require.Error(t, err)

	httpErr, ok := err.(*errs.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.Equal(t, []errs.FieldError{{Field: "request", Error: "bookings are closed"}}, httpErr.Errors)
}

func TestBindAndValidateAcceptsAnyNonEmptyName(t *testing.T) {
	c := newContext(http.MethodPost, "/api/v1/bands", `{"name":"   ","hometown":"Nairobi"}`)

	req := &model.CreateBandRequest{}
	require.NoError(t, validation.BindAndValidate(c, req))
	assert.Equal(t, "   ", req.Name)
}
