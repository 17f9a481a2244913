package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anderswb/laundry-room-api/internal/models"
	appErrors "github.com/anderswb/laundry-room-api/pkg/errors"
)

type scheduleRepoStub struct {
	mu         sync.Mutex
	rows       []models.ScheduleSetting
	getErr     error
	replaceErr error
	replaces   int
}

func (s *scheduleRepoStub) GetAll(ctx context.Context) ([]models.ScheduleSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	out := make([]models.ScheduleSetting, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *scheduleRepoStub) ReplaceAll(ctx context.Context, settings []models.ScheduleSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.rows = make([]models.ScheduleSetting, len(settings))
	copy(s.rows, settings)
	s.replaces++
	return nil
}

type cacheInvalidatorStub struct {
	mu       sync.Mutex
	patterns []string
}

func (c *cacheInvalidatorStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	return nil
}

func TestScheduleServiceLoadSeedsDefaults(t *testing.T) {
	repo := &scheduleRepoStub{}
	svc := NewScheduleService(repo, nil, nil)

	require.NoError(t, svc.Load(context.Background()))
	require.Len(t, repo.rows, 7)

	current := svc.Current()
	for _, day := range models.WeekdayOrder {
		setting := current[day]
		assert.True(t, setting.Enabled)
		assert.Equal(t, "07:00", setting.StartTime)
		assert.Equal(t, "22:00", setting.EndTime)
	}
}

func TestScheduleServiceLoadReadsStoredRows(t *testing.T) {
	repo := &scheduleRepoStub{rows: []models.ScheduleSetting{
		{Day: models.Monday, Enabled: false, StartTime: "08:00", EndTime: "20:00"},
		{Day: models.Tuesday, Enabled: true, StartTime: "06:00", EndTime: "18:00"},
	}}
	svc := NewScheduleService(repo, nil, nil)

	require.NoError(t, svc.Load(context.Background()))
	current := svc.Current()
	assert.False(t, current[models.Monday].Enabled)
	assert.Equal(t, "06:00", current[models.Tuesday].StartTime)
	// Days without a stored row keep the default.
	assert.Equal(t, "07:00", current[models.Wednesday].StartTime)
}

func TestScheduleServiceUpdateReplacesAtomically(t *testing.T) {
	repo := &scheduleRepoStub{}
	cache := &cacheInvalidatorStub{}
	svc := NewScheduleService(repo, cache, nil)
	require.NoError(t, svc.Load(context.Background()))

	next := models.DefaultWeekSettings()
	next[models.Sunday] = models.WeekdaySetting{Enabled: false, StartTime: "07:00", EndTime: "22:00"}
	next[models.Monday] = models.WeekdaySetting{Enabled: true, StartTime: "06:00", EndTime: "21:00"}

	require.NoError(t, svc.Update(context.Background(), next))

	current := svc.Current()
	assert.False(t, current[models.Sunday].Enabled)
	assert.Equal(t, "06:00", current[models.Monday].StartTime)
	require.Len(t, cache.patterns, 1)
	assert.Equal(t, weekCachePattern, cache.patterns[0])
}

func TestScheduleServiceUpdateRejectsEqualTimesNamingDay(t *testing.T) {
	repo := &scheduleRepoStub{}
	svc := NewScheduleService(repo, nil, nil)
	require.NoError(t, svc.Load(context.Background()))
	before := svc.Current()
	replacesBefore := repo.replaces

	invalid := models.DefaultWeekSettings()
	invalid[models.Monday] = models.WeekdaySetting{Enabled: true, StartTime: "10:00", EndTime: "10:00"}

	err := svc.Update(context.Background(), invalid)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Monday")

	// Nothing was written and readers still see the previous mapping.
	assert.Equal(t, replacesBefore, repo.replaces)
	assert.Equal(t, before, svc.Current())
}

func TestScheduleServiceUpdateRejectsMissingDay(t *testing.T) {
	svc := NewScheduleService(&scheduleRepoStub{}, nil, nil)
	require.NoError(t, svc.Load(context.Background()))

	partial := models.DefaultWeekSettings()
	delete(partial, models.Friday)

	err := svc.Update(context.Background(), partial)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidRequest.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Friday")
}

func TestScheduleServiceUpdateRejectsMalformedClock(t *testing.T) {
	svc := NewScheduleService(&scheduleRepoStub{}, nil, nil)
	require.NoError(t, svc.Load(context.Background()))

	invalid := models.DefaultWeekSettings()
	invalid[models.Thursday] = models.WeekdaySetting{Enabled: true, StartTime: "7am", EndTime: "22:00"}

	err := svc.Update(context.Background(), invalid)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Contains(t, appErrors.FromError(err).Message, "Thursday")
}

func TestScheduleServiceUpdateSurfacesStorageFailure(t *testing.T) {
	repo := &scheduleRepoStub{}
	svc := NewScheduleService(repo, nil, nil)
	require.NoError(t, svc.Load(context.Background()))
	repo.replaceErr = errors.New("connection reset")

	err := svc.Update(context.Background(), models.DefaultWeekSettings())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceConcurrentReadsSeeWholeMapping(t *testing.T) {
	repo := &scheduleRepoStub{}
	svc := NewScheduleService(repo, nil, nil)
	require.NoError(t, svc.Load(context.Background()))

	next := models.DefaultWeekSettings()
	for _, day := range models.WeekdayOrder {
		next[day] = models.WeekdaySetting{Enabled: true, StartTime: "08:00", EndTime: "20:00"}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = svc.Update(context.Background(), next)
	}()

	// Readers must observe either the old mapping or the new one in full,
	// never a mix of start times.
	for i := 0; i < 100; i++ {
		current := svc.Current()
		require.Len(t, current, 7)
		first := current[models.Monday].StartTime
		for _, day := range models.WeekdayOrder {
			assert.Equal(t, first, current[day].StartTime)
		}
	}
	wg.Wait()
}
