package sqlerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/concerts/internal/config"
	"github.com/deppfellow/concerts/internal/database"
	"github.com/deppfellow/concerts/internal/errs"
)

func newSQLiteDatabase(t *testing.T, foreignKeys bool) *database.Database {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "concerts.db")
	cfg.Database.ForeignKeys = foreignKeys
	cfg.Observability = config.DefaultObservabilityConfig()

	logger := zerolog.Nop()
	db, err := database.New(cfg, &logger, nil)
	require.NoError(t, err)
	require.NoError(t, db.CreateSchema(context.Background()))
	return db
}

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleErrorPassesHTTPErrorsThrough(t *testing.T) {
	original := errs.NewTooManyRequestsError()
	assert.Same(t, original, HandleError(original))
}

func TestHandleErrorNotFound(t *testing.T) {
	err := fmt.Errorf("table:bands: get band 7: %w", sql.ErrNoRows)

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Band not found", httpErr.Message)
	assert.True(t, httpErr.Override)

	httpErr = asHTTPError(t, HandleError(sql.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorUnknown(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", httpErr.Code)
}

func TestHandleErrorPostgres(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		status  int
		code    string
		message string
	}{
		{
			name: "foreign key",
			pgErr: &pgconn.PgError{
				Code: "23503", Severity: "ERROR", TableName: "concerts", ColumnName: "band_id",
			},
			status:  http.StatusBadRequest,
			code:    "CONCERT_NOT_FOUND",
			message: "The referenced Band does not exist",
		},
		{
			name: "unique",
			pgErr: &pgconn.PgError{
				Code: "23505", Severity: "ERROR", TableName: "venues", ConstraintName: "venues_title_key",
			},
			status:  http.StatusBadRequest,
			code:    "VENUE_ALREADY_EXISTS",
			message: "A Venue with this Title already exists",
		},
		{
			name: "not null",
			pgErr: &pgconn.PgError{
				Code: "23502", Severity: "ERROR", TableName: "bands", ColumnName: "hometown",
			},
			status:  http.StatusBadRequest,
			code:    "BAND_REQUIRED",
			message: "The Hometown is required",
		},
		{
			name:    "undefined table",
			pgErr:   &pgconn.PgError{Code: "42P01", Severity: "ERROR"},
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(fmt.Errorf("wrapped: %w", tt.pgErr)))
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.code, httpErr.Code)
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}
}

func TestHandleErrorSQLiteForeignKey(t *testing.T) {
	db := newSQLiteDatabase(t, true)

	_, err := db.Exec(context.Background(),
		"INSERT INTO concerts (band_id, venue_id, date) VALUES (?, ?, ?)", 42, 43, "2026-01-01")
	require.Error(t, err)
	assert.Equal(t, ForeignKeyViolation, normalize(err).Code)

	httpErr := asHTTPError(t, HandleError(fmt.Errorf("table:concerts: book concert: %w", err)))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "CONCERT_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced record does not exist", httpErr.Message)
}

func TestHandleErrorSQLiteNotNull(t *testing.T) {
	db := newSQLiteDatabase(t, false)

	_, err := db.Exec(context.Background(), "INSERT INTO bands (name) VALUES (?)", "Bensoul")
	require.Error(t, err)

	sqlErr := normalize(err)
	require.NotNil(t, sqlErr)
	assert.Equal(t, NotNullViolation, sqlErr.Code)
	assert.Equal(t, "bands", sqlErr.TableName)
	assert.Equal(t, "hometown", sqlErr.ColumnName)

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, "BAND_REQUIRED", httpErr.Code)
	assert.Equal(t, []errs.FieldError{{Field: "hometown", Error: "is required"}}, httpErr.Errors)
}

func TestErrCode(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &Error{Code: UniqueViolation})
	assert.Equal(t, UniqueViolation, ErrCode(wrapped))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}

func TestMapCodeAndSeverity(t *testing.T) {
	assert.Equal(t, ForeignKeyViolation, MapCode("23503"))
	assert.Equal(t, Other, MapCode("99999"))
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("nonsense"))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "title", extractColumnForUniqueViolation("unique_venues_title"))
	assert.Equal(t, "name", extractColumnForUniqueViolation("bands_name_key"))
	assert.Empty(t, extractColumnForUniqueViolation(""))
}
