package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/anderswb/laundry-room-api/internal/dto"
	"github.com/anderswb/laundry-room-api/internal/models"
	"github.com/anderswb/laundry-room-api/internal/repository"
	appErrors "github.com/anderswb/laundry-room-api/pkg/errors"
)

const (
	weekCacheKeyPrefix = "schedule:week:"
	weekCachePattern   = weekCacheKeyPrefix + "*"

	dateLayout = "2006-01-02"
)

type bookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	ExistsAt(ctx context.Context, date time.Time, startTime string) (bool, error)
	FindDetailByID(ctx context.Context, id string) (*models.BookingDetail, error)
	ListRange(ctx context.Context, from, to time.Time) ([]models.BookingDetail, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
}

type weekSettingsProvider interface {
	Current() models.WeekSettings
}

type bookingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type bookingMetrics interface {
	RecordBookingOutcome(outcome string)
	RecordCacheLookup(hit bool)
}

// CreateBookingRequest describes a slot claim. UserID is filled in by the
// caller from the authenticated identity (or the guest sentinel), never from
// the request body.
type CreateBookingRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	UserID    string `json:"-" validate:"required"`
}

// BookingService coordinates slot claims against the bookings table. The
// pre-check on (date, start_time) is advisory; the table's unique constraint
// is the final arbiter when two creates race for the same slot.
type BookingService struct {
	repo      bookingRepository
	settings  weekSettingsProvider
	cache     bookingCache
	metrics   bookingMetrics
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewBookingService constructs a BookingService.
func NewBookingService(repo bookingRepository, settings weekSettingsProvider, cache bookingCache, metrics bookingMetrics, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		repo:      repo,
		settings:  settings,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// Create claims a slot for a user. The repository existence check catches the
// common conflict early; a concurrent create that slips past it is rejected
// by the storage constraint and surfaced as the same conflict outcome.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*models.BookingDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, "missing required booking information")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "date must be a YYYY-MM-DD value")
	}

	occupied, err := s.repo.ExistsAt(ctx, date, req.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot availability")
	}
	if occupied {
		s.recordOutcome("conflict")
		return nil, appErrors.Clone(appErrors.ErrSlotTaken, "")
	}

	booking := &models.Booking{
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		UserID:    req.UserID,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			s.recordOutcome("conflict")
			return nil, appErrors.Clone(appErrors.ErrSlotTaken, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}
	s.recordOutcome("created")

	detail, err := s.repo.FindDetailByID(ctx, booking.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created booking")
	}

	s.invalidateWeekCache(ctx)
	return detail, nil
}

// Get returns one booking with its owner's identity.
func (s *BookingService) Get(ctx context.Context, id string) (*models.BookingDetail, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "booking id is required")
	}
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	return detail, nil
}

// Cancel deletes a booking by id. A missing row is reported as NotFound,
// distinct from a storage failure. Ownership is the calling layer's concern.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrInvalidRequest, "booking id is required")
	}
	affected, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel booking")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "booking not found")
	}
	s.invalidateWeekCache(ctx)
	return nil
}

// ListWeek returns the bookings of the half-open 7-day window starting at
// start's day, ordered ascending by date then start time.
func (s *BookingService) ListWeek(ctx context.Context, start time.Time) ([]models.BookingDetail, error) {
	from := startOfDay(start)
	to := from.AddDate(0, 0, 7)
	bookings, err := s.repo.ListRange(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	return bookings, nil
}

// WeekSchedule expands the weekday configuration into each date's slot
// windows and overlays the persisted bookings, marking every slot free or
// booked. The assembled view is cached per week start.
func (s *BookingService) WeekSchedule(ctx context.Context, start time.Time) (*dto.WeekScheduleResponse, error) {
	from := startOfDay(start)
	key := weekCacheKeyPrefix + from.Format(dateLayout)

	if s.cache != nil {
		var cached dto.WeekScheduleResponse
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			s.recordCacheLookup(true)
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("week schedule cache lookup failed", zap.Error(err))
		}
		s.recordCacheLookup(false)
	}

	bookings, err := s.ListWeek(ctx, from)
	if err != nil {
		return nil, err
	}
	occupied := make(map[string]models.BookingDetail, len(bookings))
	for _, booking := range bookings {
		occupied[slotKey(booking.Date, booking.StartTime)] = booking
	}

	settings := s.settings.Current()
	week := &dto.WeekScheduleResponse{
		StartDate: from.Format(dateLayout),
		Days:      make([]dto.DaySchedule, 0, 7),
	}
	for i := 0; i < 7; i++ {
		date := from.AddDate(0, 0, i)
		weekday := models.Weekday(date.Weekday().String())
		setting := settings[weekday]

		day := dto.DaySchedule{
			Date:    date.Format(dateLayout),
			Weekday: weekday,
			Enabled: setting.Enabled,
			Slots:   []dto.SlotView{},
		}
		for _, window := range GenerateSlots(setting) {
			view := dto.SlotView{Start: window.Start, End: window.End}
			if booking, ok := occupied[slotKey(date, window.Start)]; ok {
				view.Booked = true
				view.Booking = &dto.SlotBooking{ID: booking.ID, UserID: booking.UserID, UserName: booking.UserName}
			}
			day.Slots = append(day.Slots, view)
		}
		week.Days = append(week.Days, day)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, week, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache week schedule", zap.Error(err))
		}
	}
	return week, nil
}

func (s *BookingService) invalidateWeekCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, weekCachePattern); err != nil {
		s.logger.Warn("failed to invalidate week schedule cache", zap.Error(err))
	}
}

func (s *BookingService) recordOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordBookingOutcome(outcome)
	}
}

func (s *BookingService) recordCacheLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}

func slotKey(date time.Time, startTime string) string {
	return date.Format(dateLayout) + "T" + startTime
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return startOfDay(date), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
