package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anderswb/laundry-room-api/pkg/response"
)

type exportService interface {
	WeekCSV(ctx context.Context, start time.Time) ([]byte, error)
	WeekPDF(ctx context.Context, start time.Time) ([]byte, error)
}

// ExportHandler serves booking exports for the admin board.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// WeekCSV godoc
// @Summary Export a week of bookings as CSV
// @Tags Export
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query string false "Window start (YYYY-MM-DD, default today)"
// @Success 200 {string} string
// @Router /export/bookings.csv [get]
func (h *ExportHandler) WeekCSV(c *gin.Context) {
	start, err := startDateFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.service.WeekCSV(c.Request.Context(), start)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bookings-%s.csv", start.Format("2006-01-02")))
	c.Data(http.StatusOK, "text/csv", data)
}

// WeekPDF godoc
// @Summary Export a week of bookings as PDF
// @Tags Export
// @Produce application/pdf
// @Security BearerAuth
// @Param start_date query string false "Window start (YYYY-MM-DD, default today)"
// @Success 200 {string} string
// @Router /export/bookings.pdf [get]
func (h *ExportHandler) WeekPDF(c *gin.Context) {
	start, err := startDateFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.service.WeekPDF(c.Request.Context(), start)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bookings-%s.pdf", start.Format("2006-01-02")))
	c.Data(http.StatusOK, "application/pdf", data)
}
