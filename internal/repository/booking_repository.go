package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/anderswb/laundry-room-api/internal/models"
)

// ErrDuplicateSlot is returned when an insert collides with the unique
// constraint on (date, start_time). The constraint is the final arbiter for
// concurrent creates; callers must treat this as a slot conflict, not as a
// storage fault.
var ErrDuplicateSlot = errors.New("slot already booked")

const bookingDetailColumns = `b.id, b.date, b.start_time, b.end_time, b.user_id, b.created_at,
        u.name AS user_name, u.email AS user_email`

// BookingRepository handles persistence of slot bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs the repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create persists a new booking. A unique-constraint violation on
// (date, start_time) is mapped to ErrDuplicateSlot.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO bookings (id, date, start_time, end_time, user_id, created_at)
        VALUES (:id, :date, :start_time, :end_time, :user_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// ExistsAt reports whether a live booking occupies (date, startTime).
func (r *BookingRepository) ExistsAt(ctx context.Context, date time.Time, startTime string) (bool, error) {
	const query = `SELECT 1 FROM bookings WHERE date = $1 AND start_time = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, date, startTime); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check slot occupancy: %w", err)
	}
	return true, nil
}

// FindDetailByID returns a booking joined with its owner's identity.
func (r *BookingRepository) FindDetailByID(ctx context.Context, id string) (*models.BookingDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings b
        LEFT JOIN users u ON u.id = b.user_id
        WHERE b.id = $1`, bookingDetailColumns)
	var detail models.BookingDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListRange returns bookings whose date falls in [from, to), each joined with
// the owning user, ordered ascending by date then start time.
func (r *BookingRepository) ListRange(ctx context.Context, from, to time.Time) ([]models.BookingDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings b
        LEFT JOIN users u ON u.id = b.user_id
        WHERE b.date >= $1 AND b.date < $2
        ORDER BY b.date ASC, b.start_time ASC`, bookingDetailColumns)
	var bookings []models.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query, from, to); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// DeleteByID removes a booking and reports how many rows matched.
func (r *BookingRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	const query = `DELETE FROM bookings WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete booking rows affected: %w", err)
	}
	return affected, nil
}
