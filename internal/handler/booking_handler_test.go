package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anderswb/laundry-room-api/internal/middleware"
	"github.com/anderswb/laundry-room-api/internal/models"
	"github.com/anderswb/laundry-room-api/internal/service"
	appErrors "github.com/anderswb/laundry-room-api/pkg/errors"
)

type bookingServiceMock struct {
	created   *service.CreateBookingRequest
	createErr error
	detail    *models.BookingDetail
	getErr    error
	cancelErr error
	cancelled []string
	listed    []models.BookingDetail
	listErr   error
}

func (m *bookingServiceMock) Create(ctx context.Context, req service.CreateBookingRequest) (*models.BookingDetail, error) {
	m.created = &req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.BookingDetail{Booking: models.Booking{
		ID:        "bkg-1",
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		UserID:    req.UserID,
	}}, nil
}

func (m *bookingServiceMock) Get(ctx context.Context, id string) (*models.BookingDetail, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.detail, nil
}

func (m *bookingServiceMock) Cancel(ctx context.Context, id string) error {
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.cancelled = append(m.cancelled, id)
	return nil
}

func (m *bookingServiceMock) ListWeek(ctx context.Context, start time.Time) ([]models.BookingDetail, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listed, nil
}

func newBookingTestContext(t *testing.T, method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestBookingHandlerCreateAsGuest(t *testing.T) {
	mock := &bookingServiceMock{}
	h := NewBookingHandler(mock)

	c, w := newBookingTestContext(t, http.MethodPost, "/bookings",
		`{"date":"2026-03-02","start_time":"07:00","end_time":"10:00"}`)

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.created)
	assert.Equal(t, models.GuestUserID, mock.created.UserID)
}

func TestBookingHandlerCreateUsesTokenIdentity(t *testing.T) {
	mock := &bookingServiceMock{}
	h := NewBookingHandler(mock)

	c, w := newBookingTestContext(t, http.MethodPost, "/bookings",
		`{"date":"2026-03-02","start_time":"07:00","end_time":"10:00"}`)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleResident})

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.created)
	assert.Equal(t, "user-1", mock.created.UserID)
}

func TestBookingHandlerCreateConflict(t *testing.T) {
	mock := &bookingServiceMock{createErr: appErrors.ErrSlotTaken}
	h := NewBookingHandler(mock)

	c, w := newBookingTestContext(t, http.MethodPost, "/bookings",
		`{"date":"2026-03-02","start_time":"07:00","end_time":"10:00"}`)

	h.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrSlotTaken.Code)
}

func TestBookingHandlerCreateInvalidBody(t *testing.T) {
	h := NewBookingHandler(&bookingServiceMock{})

	c, w := newBookingTestContext(t, http.MethodPost, "/bookings", `not json`)

	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandlerCancelByOwner(t *testing.T) {
	mock := &bookingServiceMock{detail: &models.BookingDetail{Booking: models.Booking{
		ID:     "bkg-1",
		UserID: "user-1",
	}}}
	h := NewBookingHandler(mock)

	c, w := newBookingTestContext(t, http.MethodDelete, "/bookings/bkg-1", "")
	c.Params = gin.Params{{Key: "id", Value: "bkg-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleResident})

	h.Cancel(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"bkg-1"}, mock.cancelled)
}

func TestBookingHandlerCancelByAdmin(t *testing.T) {
	mock := &bookingServiceMock{detail: &models.BookingDetail{Booking: models.Booking{
		ID:     "bkg-1",
		UserID: "user-1",
	}}}
	h := NewBookingHandler(mock)

	c, w := newBookingTestContext(t, http.MethodDelete, "/bookings/bkg-1", "")
	c.Params = gin.Params{{Key: "id", Value: "bkg-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-3", Role: models.RoleAdmin})

	h.Cancel(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"bkg-1"}, mock.cancelled)
}

func TestBookingHandlerCancelForbiddenForOtherResident(t *testing.T) {
	mock := &bookingServiceMock{detail: &models.BookingDetail{Booking: models.Booking{
		ID:     "bkg-1",
		UserID: "user-1",
	}}}
	h := NewBookingHandler(mock)

	c, w := newBookingTestContext(t, http.MethodDelete, "/bookings/bkg-1", "")
	c.Params = gin.Params{{Key: "id", Value: "bkg-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-2", Role: models.RoleResident})

	h.Cancel(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, mock.cancelled)
}

func TestBookingHandlerCancelMissingBooking(t *testing.T) {
	mock := &bookingServiceMock{getErr: appErrors.ErrNotFound}
	h := NewBookingHandler(mock)

	c, w := newBookingTestContext(t, http.MethodDelete, "/bookings/missing", "")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleResident})

	h.Cancel(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandlerListInvalidStartDate(t *testing.T) {
	h := NewBookingHandler(&bookingServiceMock{})

	c, w := newBookingTestContext(t, http.MethodGet, "/bookings?start_date=tomorrow", "")

	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandlerList(t *testing.T) {
	mock := &bookingServiceMock{listed: []models.BookingDetail{
		{Booking: models.Booking{ID: "bkg-1", StartTime: "07:00", EndTime: "10:00", UserID: "user-1"}},
	}}
	h := NewBookingHandler(mock)

	c, w := newBookingTestContext(t, http.MethodGet, "/bookings?start_date=2026-03-02", "")

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bkg-1"`)
}
