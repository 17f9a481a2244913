package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anderswb/laundry-room-api/internal/models"
	"github.com/anderswb/laundry-room-api/internal/service"
	appErrors "github.com/anderswb/laundry-room-api/pkg/errors"
	"github.com/anderswb/laundry-room-api/pkg/response"
)

type bookingService interface {
	Create(ctx context.Context, req service.CreateBookingRequest) (*models.BookingDetail, error)
	Get(ctx context.Context, id string) (*models.BookingDetail, error)
	Cancel(ctx context.Context, id string) error
	ListWeek(ctx context.Context, start time.Time) ([]models.BookingDetail, error)
}

// BookingHandler exposes booking endpoints.
type BookingHandler struct {
	service bookingService
}

// NewBookingHandler builds a new handler.
func NewBookingHandler(service bookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// List godoc
// @Summary List bookings for a 7-day window
// @Tags Bookings
// @Produce json
// @Param start_date query string false "Window start (YYYY-MM-DD, default today)"
// @Success 200 {object} response.Envelope
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	start, err := startDateFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	bookings, err := h.service.ListWeek(c.Request.Context(), start)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings)
}

// Create godoc
// @Summary Book a slot
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body service.CreateBookingRequest true "Slot claim"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	// Identity comes from the token; anonymous callers book as the guest
	// sentinel.
	req.UserID = models.GuestUserID
	if claims := claimsFromContext(c); claims != nil {
		req.UserID = claims.UserID
	}

	booking, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// Cancel godoc
// @Summary Cancel a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	booking, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Only the original booker or an admin may cancel; the service itself
	// performs no ownership check.
	if booking.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "only the booker or an admin may cancel"))
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
