package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"conferent/infras/otel"
	"conferent/infras/postgres"
	"conferent/internal/domains/invite/model"
	gDto "conferent/shared/dto"
	gRepo "conferent/shared/repository"
)

type Invite interface {
	Insert(ctx context.Context, model model.UserInvite) error
	InsertBulk(ctx context.Context, models []model.UserInvite) error
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.UserInvite) error
	InsertReturningID(ctx context.Context, model model.UserInvite) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.UserInvite, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.UserInvite, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.UserInvite]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Invite {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.UserInvite](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
