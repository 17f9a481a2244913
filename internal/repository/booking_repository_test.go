package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/anderswb/laundry-room-api/internal/models"
)

func newBookingRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestBookingRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	booking := &models.Booking{
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "07:00",
		EndTime:   "10:00",
		UserID:    "user-1",
	}
	err := repo.Create(context.Background(), booking)
	require.NoError(t, err)
	require.NotEmpty(t, booking.ID)
	require.False(t, booking.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCreateDuplicateSlot(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_slot_unique"})

	booking := &models.Booking{
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "07:00",
		EndTime:   "10:00",
		UserID:    "user-1",
	}
	err := repo.Create(context.Background(), booking)
	require.ErrorIs(t, err, ErrDuplicateSlot)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryExistsAt(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM bookings WHERE date = $1 AND start_time = $2 LIMIT 1")).
		WithArgs(date, "07:00").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	occupied, err := repo.ExistsAt(context.Background(), date, "07:00")
	require.NoError(t, err)
	require.True(t, occupied)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM bookings WHERE date = $1 AND start_time = $2 LIMIT 1")).
		WithArgs(date, "10:00").
		WillReturnError(sql.ErrNoRows)

	occupied, err = repo.ExistsAt(context.Background(), date, "10:00")
	require.NoError(t, err)
	require.False(t, occupied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryFindDetailByID(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	name := "Anna Andersson"
	email := "anna@example.com"
	rows := sqlmock.NewRows([]string{"id", "date", "start_time", "end_time", "user_id", "created_at", "user_name", "user_email"}).
		AddRow("bkg-1", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "07:00", "10:00", "user-1", time.Now(), name, email)
	mock.ExpectQuery("SELECT (.+) FROM bookings b").
		WithArgs("bkg-1").
		WillReturnRows(rows)

	detail, err := repo.FindDetailByID(context.Background(), "bkg-1")
	require.NoError(t, err)
	require.Equal(t, "bkg-1", detail.ID)
	require.NotNil(t, detail.UserName)
	require.Equal(t, name, *detail.UserName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryFindDetailByIDGuest(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	// Guest bookings have no matching users row; the join yields NULLs.
	rows := sqlmock.NewRows([]string{"id", "date", "start_time", "end_time", "user_id", "created_at", "user_name", "user_email"}).
		AddRow("bkg-2", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "10:00", "13:00", models.GuestUserID, time.Now(), nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM bookings b").
		WithArgs("bkg-2").
		WillReturnRows(rows)

	detail, err := repo.FindDetailByID(context.Background(), "bkg-2")
	require.NoError(t, err)
	require.Equal(t, models.GuestUserID, detail.UserID)
	require.Nil(t, detail.UserName)
	require.Nil(t, detail.UserEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryFindDetailByIDMissing(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM bookings b").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindDetailByID(context.Background(), "missing")
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryListRange(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	rows := sqlmock.NewRows([]string{"id", "date", "start_time", "end_time", "user_id", "created_at", "user_name", "user_email"}).
		AddRow("bkg-1", from, "07:00", "10:00", "user-1", time.Now(), "Anna Andersson", "anna@example.com").
		AddRow("bkg-2", from, "10:00", "13:00", "user-2", time.Now(), "Erik Eriksson", "erik@example.com")
	mock.ExpectQuery("SELECT (.+) FROM bookings b").
		WithArgs(from, to).
		WillReturnRows(rows)

	bookings, err := repo.ListRange(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	require.Equal(t, "07:00", bookings[0].StartTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryDeleteByID(t *testing.T) {
	db, mock, cleanup := newBookingRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1")).
		WithArgs("bkg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.DeleteByID(context.Background(), "bkg-1")
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err = repo.DeleteByID(context.Background(), "missing")
	require.NoError(t, err)
	require.Zero(t, affected)
	require.NoError(t, mock.ExpectationsWereMet())
}
