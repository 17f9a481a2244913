package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anderswb/laundry-room-api/internal/dto"
	"github.com/anderswb/laundry-room-api/internal/models"
	appErrors "github.com/anderswb/laundry-room-api/pkg/errors"
	"github.com/anderswb/laundry-room-api/pkg/response"
)

type weekScheduleService interface {
	WeekSchedule(ctx context.Context, start time.Time) (*dto.WeekScheduleResponse, error)
}

type scheduleSettingsService interface {
	Current() models.WeekSettings
	Update(ctx context.Context, settings models.WeekSettings) error
}

// ScheduleHandler exposes the week view and the opening-hours settings.
type ScheduleHandler struct {
	week     weekScheduleService
	settings scheduleSettingsService
}

// NewScheduleHandler builds a new handler.
func NewScheduleHandler(week weekScheduleService, settings scheduleSettingsService) *ScheduleHandler {
	return &ScheduleHandler{week: week, settings: settings}
}

// Week godoc
// @Summary Weekly slot schedule
// @Tags Schedule
// @Produce json
// @Param start_date query string false "Window start (YYYY-MM-DD, default today)"
// @Success 200 {object} response.Envelope
// @Router /schedule/week [get]
func (h *ScheduleHandler) Week(c *gin.Context) {
	start, err := startDateFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	schedule, err := h.week.WeekSchedule(c.Request.Context(), start)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// GetSettings godoc
// @Summary Current opening hours per weekday
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /schedule/settings [get]
func (h *ScheduleHandler) GetSettings(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.settings.Current())
}

// UpdateSettings godoc
// @Summary Replace opening hours for the whole week
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.UpdateScheduleSettingsRequest true "Settings for all seven weekdays"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule/settings [put]
func (h *ScheduleHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateScheduleSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid settings payload"))
		return
	}

	if err := h.settings.Update(c.Request.Context(), req.Settings); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.settings.Current())
}
