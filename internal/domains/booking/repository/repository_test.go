package repository_test

import (
	"context"
	"testing"
	"time"

	"hms/infras/otel/mocks"
	"hms/infras/postgres"
	"hms/internal/domains/booking/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var activeLineColumns = []string{
	"line_id", "booking_id", "booking_name", "booking_state",
	"room_id", "room_name", "physical_room_code", "checkin_date", "checkout_date",
}

func setupLineRepository(t *testing.T) (repository.BookingLine, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := &postgres.Connection{
		Read:  sqlx.NewDb(db, "sqlmock"),
		Write: sqlx.NewDb(db, "sqlmock"),
	}

	return repository.NewLine(conn, mocks.NewOtel()), mock
}

func TestBookingLineRepository_GetActiveLines(t *testing.T) {
	repo, mock := setupLineRepository(t)

	checkin := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	checkout := time.Date(2026, time.March, 12, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(activeLineColumns).
		AddRow("line-1", "booking-1", "BK-20260310-deadbeef", "reserved",
			"room-1", "Room 101 Double", "RM-101", checkin, checkout)

	mock.ExpectQuery(`FROM room_booking_lines l`).
		WithArgs("RM-101").
		WillReturnRows(rows)

	lines, err := repo.GetActiveLines(context.Background(), "RM-101")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "BK-20260310-deadbeef", lines[0].BookingName)
	assert.Equal(t, "reserved", lines[0].BookingState)
	assert.True(t, checkin.Equal(lines[0].CheckinDate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingLineRepository_FindOverlapping(t *testing.T) {
	checkin := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	checkout := time.Date(2026, time.March, 12, 12, 0, 0, 0, time.UTC)

	t.Run("conflicting line returned", func(t *testing.T) {
		repo, mock := setupLineRepository(t)

		rows := sqlmock.NewRows(activeLineColumns).
			AddRow("line-2", "booking-2", "BK-20260309-cafebabe", "check_in",
				"room-2", "Room 101 Twin", "RM-101",
				checkin.Add(-24*time.Hour), checkout.Add(-24*time.Hour))

		mock.ExpectQuery(`l.checkin_date < \$3\s+AND l.checkout_date > \$2`).
			WithArgs("RM-101", checkin, checkout, "").
			WillReturnRows(rows)

		lines, err := repo.FindOverlapping(context.Background(), "RM-101", checkin, checkout, "")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "BK-20260309-cafebabe", lines[0].BookingName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booking exclusion passed through", func(t *testing.T) {
		repo, mock := setupLineRepository(t)

		mock.ExpectQuery(`b\.id::text <> \$4`).
			WithArgs("RM-101", checkin, checkout, "booking-1").
			WillReturnRows(sqlmock.NewRows(activeLineColumns))

		lines, err := repo.FindOverlapping(context.Background(), "RM-101", checkin, checkout, "booking-1")
		require.NoError(t, err)
		assert.Empty(t, lines)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure wrapped", func(t *testing.T) {
		repo, mock := setupLineRepository(t)

		mock.ExpectQuery(`FROM room_booking_lines l`).
			WithArgs("RM-101", checkin, checkout, "").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.FindOverlapping(context.Background(), "RM-101", checkin, checkout, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query booking lines")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingLineRepository_FindActiveWithFutureCheckout(t *testing.T) {
	repo, mock := setupLineRepository(t)

	now := time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)
	checkout := time.Date(2026, time.March, 12, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(activeLineColumns).
		AddRow("line-3", "booking-3", "BK-20260310-deadbeef", "check_in",
			"room-1", "Room 101 Double", "RM-101", now.Add(-19*time.Hour), checkout)

	mock.ExpectQuery(`l.checkout_date > \$2`).
		WithArgs("RM-101", now).
		WillReturnRows(rows)

	lines, err := repo.FindActiveWithFutureCheckout(context.Background(), "RM-101", now)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, checkout.Equal(lines[0].CheckoutDate))
	assert.NoError(t, mock.ExpectationsWereMet())
}
