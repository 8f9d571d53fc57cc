package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"hms/infras/otel"
	"hms/infras/postgres"
	"hms/internal/domains/booking/model"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	gRepo "hms/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Active lines are booking lines whose booking currently occupies its room.
const queryActiveLines = `
SELECT
	l.id AS line_id,
	b.id AS booking_id,
	b.name AS booking_name,
	b.state AS booking_state,
	l.room_id AS room_id,
	r.name AS room_name,
	r.physical_room_code AS physical_room_code,
	l.checkin_date AS checkin_date,
	l.checkout_date AS checkout_date
FROM room_booking_lines l
JOIN room_bookings b ON b.id = l.booking_id
JOIN room_configurations r ON r.id = l.room_id
WHERE r.physical_room_code = $1
  AND b.state IN ('reserved', 'check_in')`

// Strict overlap with the half-open interval [$2, $3): touching endpoints do
// not conflict. The exclusion id stays text: comparing the uuid column against
// a text parameter would fail type resolution, so the column side is cast.
const queryOverlappingLines = queryActiveLines + `
  AND l.checkin_date < $3
  AND l.checkout_date > $2
  AND ($4 = '' OR b.id::text <> $4)
ORDER BY l.checkin_date`

const queryActiveFutureCheckout = queryActiveLines + `
  AND l.checkout_date > $2
ORDER BY l.checkout_date`

type selecter interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
	WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type BookingLine interface {
	Insert(ctx context.Context, model model.BookingLine) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.BookingLine) error
	InsertBulkTx(ctx context.Context, tx *sqlx.Tx, models []model.BookingLine) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.BookingLine, error)
	GetTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.BookingLine, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BookingLine, error)
	GetAllTx(ctx context.Context, tx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BookingLine, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
	GetActiveLines(ctx context.Context, physicalRoomCode string) ([]model.ActiveLine, error)
	GetActiveLinesTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string) ([]model.ActiveLine, error)
	FindOverlapping(ctx context.Context, physicalRoomCode string, checkin, checkout time.Time, excludeBookingID string) ([]model.ActiveLine, error)
	FindOverlappingTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string, checkin, checkout time.Time, excludeBookingID string) ([]model.ActiveLine, error)
	FindActiveWithFutureCheckout(ctx context.Context, physicalRoomCode string, after time.Time) ([]model.ActiveLine, error)
	FindActiveWithFutureCheckoutTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string, after time.Time) ([]model.ActiveLine, error)
}

type bookingImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &bookingImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *bookingImpl) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return repo.db.WithTransaction(ctx, fn)
}

type bookingLineImpl struct {
	gRepo.Repository[model.BookingLine]
	db   *postgres.Connection
	otel otel.Otel
}

func NewLine(db *postgres.Connection, otel otel.Otel) BookingLine {
	return &bookingLineImpl{
		Repository: gRepo.NewRepository[model.BookingLine](model.LineEntityName, model.LineTableName, model.FieldLineID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *bookingLineImpl) GetActiveLines(ctx context.Context, physicalRoomCode string) ([]model.ActiveLine, error) {
	return repo.selectActiveLines(ctx, repo.db.Read, "GetActiveLines", queryActiveLines, physicalRoomCode)
}

func (repo *bookingLineImpl) GetActiveLinesTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string) ([]model.ActiveLine, error) {
	return repo.selectActiveLines(ctx, tx, "GetActiveLinesTx", queryActiveLines, physicalRoomCode)
}

func (repo *bookingLineImpl) FindOverlapping(ctx context.Context, physicalRoomCode string, checkin, checkout time.Time, excludeBookingID string) ([]model.ActiveLine, error) {
	return repo.selectActiveLines(ctx, repo.db.Read, "FindOverlapping", queryOverlappingLines, physicalRoomCode, checkin, checkout, excludeBookingID)
}

func (repo *bookingLineImpl) FindOverlappingTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string, checkin, checkout time.Time, excludeBookingID string) ([]model.ActiveLine, error) {
	return repo.selectActiveLines(ctx, tx, "FindOverlappingTx", queryOverlappingLines, physicalRoomCode, checkin, checkout, excludeBookingID)
}

func (repo *bookingLineImpl) FindActiveWithFutureCheckout(ctx context.Context, physicalRoomCode string, after time.Time) ([]model.ActiveLine, error) {
	return repo.selectActiveLines(ctx, repo.db.Read, "FindActiveWithFutureCheckout", queryActiveFutureCheckout, physicalRoomCode, after)
}

func (repo *bookingLineImpl) FindActiveWithFutureCheckoutTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string, after time.Time) ([]model.ActiveLine, error) {
	return repo.selectActiveLines(ctx, tx, "FindActiveWithFutureCheckoutTx", queryActiveFutureCheckout, physicalRoomCode, after)
}

func (repo *bookingLineImpl) selectActiveLines(ctx context.Context, sel selecter, spanName, query string, args ...interface{}) (lines []model.ActiveLine, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.LineEntityName+"."+spanName)
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = sel.SelectContext(ctx, &lines, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to query booking lines")
	}

	return lines, nil
}
