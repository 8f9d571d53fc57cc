package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"hms/infras/otel"
	"hms/infras/postgres"
	"hms/internal/domains/room/model"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	gRepo "hms/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const queryLockPhysicalRoom = `SELECT pg_advisory_xact_lock(hashtext($1))`

type Room interface {
	Insert(ctx context.Context, model model.RoomConfiguration) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.RoomConfiguration, error)
	GetTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.RoomConfiguration, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.RoomConfiguration, error)
	GetAllTx(ctx context.Context, tx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.RoomConfiguration, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	LockPhysicalRoomTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string) error
	WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type repositoryImpl struct {
	gRepo.Repository[model.RoomConfiguration]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.RoomConfiguration](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LockPhysicalRoomTx takes a transaction-scoped advisory lock on a physical
// room code. Writers touching several codes must lock them in sorted order.
func (repo *repositoryImpl) LockPhysicalRoomTx(ctx context.Context, tx *sqlx.Tx, physicalRoomCode string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".LockPhysicalRoomTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = tx.ExecContext(ctx, queryLockPhysicalRoom, physicalRoomCode); err != nil {
		return errors.Wrap(err, "failed to lock physical room")
	}

	return nil
}

func (repo *repositoryImpl) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return repo.db.WithTransaction(ctx, fn)
}
