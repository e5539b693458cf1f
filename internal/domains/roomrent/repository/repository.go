package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"conferent/infras/otel"
	"conferent/infras/postgres"
	"conferent/internal/domains/roomrent/model"
	gDto "conferent/shared/dto"
	gRepo "conferent/shared/repository"
)

type RoomRent interface {
	Insert(ctx context.Context, model model.RoomRent) error
	InsertBulk(ctx context.Context, models []model.RoomRent) error
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.RoomRent) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.RoomRent, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.RoomRent, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.RoomRent]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) RoomRent {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.RoomRent](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
