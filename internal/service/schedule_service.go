package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/anderswb/laundry-room-api/internal/models"
	appErrors "github.com/anderswb/laundry-room-api/pkg/errors"
)

type scheduleRepository interface {
	GetAll(ctx context.Context) ([]models.ScheduleSetting, error)
	ReplaceAll(ctx context.Context, settings []models.ScheduleSetting) error
}

type scheduleCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ScheduleService owns the weekday booking configuration. The current
// mapping is held as a guarded snapshot so reads always observe a fully
// committed seven-day configuration; updates replace it wholesale after the
// repository transaction commits.
type ScheduleService struct {
	repo   scheduleRepository
	cache  scheduleCacheInvalidator
	logger *zap.Logger

	mu      sync.RWMutex
	current models.WeekSettings
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, cache scheduleCacheInvalidator, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, cache: cache, logger: logger, current: models.DefaultWeekSettings()}
}

// Load primes the snapshot from storage. An empty table is seeded with the
// default configuration so the first deployment is immediately bookable.
func (s *ScheduleService) Load(ctx context.Context) error {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule settings")
	}
	if len(rows) == 0 {
		defaults := models.DefaultWeekSettings()
		if err := s.repo.ReplaceAll(ctx, settingsToRows(defaults)); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed schedule settings")
		}
		s.replaceSnapshot(defaults)
		s.logger.Info("seeded default schedule settings")
		return nil
	}

	settings := models.DefaultWeekSettings()
	for _, row := range rows {
		settings[row.Day] = models.WeekdaySetting{Enabled: row.Enabled, StartTime: row.StartTime, EndTime: row.EndTime}
	}
	s.replaceSnapshot(settings)
	return nil
}

// Current returns the latest committed weekday configuration.
func (s *ScheduleService) Current() models.WeekSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Update validates and replaces the whole weekday configuration. The first
// invalid entry fails the update with no partial write; on success the new
// mapping becomes visible to all subsequent reads and the cached week views
// are invalidated.
func (s *ScheduleService) Update(ctx context.Context, settings models.WeekSettings) error {
	if err := validateWeekSettings(settings); err != nil {
		return err
	}

	if err := s.repo.ReplaceAll(ctx, settingsToRows(settings)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule settings")
	}
	s.replaceSnapshot(settings)

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, weekCachePattern); err != nil {
			s.logger.Warn("failed to invalidate week schedule cache", zap.Error(err))
		}
	}
	return nil
}

func (s *ScheduleService) replaceSnapshot(settings models.WeekSettings) {
	s.mu.Lock()
	s.current = settings.Clone()
	s.mu.Unlock()
}

func validateWeekSettings(settings models.WeekSettings) error {
	for _, day := range models.WeekdayOrder {
		setting, ok := settings[day]
		if !ok {
			return appErrors.Clone(appErrors.ErrInvalidRequest, fmt.Sprintf("missing setting for %s", day))
		}
		if _, err := parseClock(setting.StartTime); err != nil {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s: start time must be a valid HH:MM value", day))
		}
		if _, err := parseClock(setting.EndTime); err != nil {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s: end time must be a valid HH:MM value", day))
		}
		if setting.Enabled && setting.StartTime >= setting.EndTime {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s: start time must be before end time", day))
		}
	}
	return nil
}

func settingsToRows(settings models.WeekSettings) []models.ScheduleSetting {
	rows := make([]models.ScheduleSetting, 0, len(models.WeekdayOrder))
	for _, day := range models.WeekdayOrder {
		setting := settings[day]
		rows = append(rows, models.ScheduleSetting{
			Day:       day,
			Enabled:   setting.Enabled,
			StartTime: setting.StartTime,
			EndTime:   setting.EndTime,
		})
	}
	return rows
}
