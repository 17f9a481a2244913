package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/anderswb/laundry-room-api/internal/models"
)

// ScheduleRepository persists the per-weekday booking configuration.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// GetAll returns the stored setting rows for every configured weekday.
func (r *ScheduleRepository) GetAll(ctx context.Context) ([]models.ScheduleSetting, error) {
	const query = `SELECT day, enabled, start_time, end_time, updated_at FROM schedule_settings`
	var settings []models.ScheduleSetting
	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("list schedule settings: %w", err)
	}
	return settings, nil
}

// ReplaceAll swaps in a full seven-day configuration within one transaction.
// Readers observe either the previous mapping or the new one, never a mix.
func (r *ScheduleRepository) ReplaceAll(ctx context.Context, settings []models.ScheduleSetting) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule settings tx: %w", err)
	}
	const query = `INSERT INTO schedule_settings (day, enabled, start_time, end_time, updated_at)
        VALUES (:day, :enabled, :start_time, :end_time, :updated_at)
        ON CONFLICT (day)
        DO UPDATE SET enabled = EXCLUDED.enabled, start_time = EXCLUDED.start_time,
                      end_time = EXCLUDED.end_time, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for i := range settings {
		settings[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, settings[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert schedule setting %s: %w", settings[i].Day, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule settings tx: %w", err)
	}
	return nil
}
