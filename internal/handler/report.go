package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/concerts/internal/model"
	"github.com/deppfellow/concerts/internal/server"
	"github.com/deppfellow/concerts/internal/service"
)

type ReportHandler struct {
	Handler
	report *service.ReportService
}

func NewReportHandler(s *server.Server, report *service.ReportService) *ReportHandler {
	return &ReportHandler{
		Handler: NewHandler(s),
		report:  report,
	}
}

func (h *ReportHandler) Lineup(c echo.Context, _ *model.EmptyRequest) (*service.Lineup, error) {
	return h.report.Lineup(c.Request().Context())
}
