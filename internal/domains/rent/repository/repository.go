package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"conferent/infras/otel"
	"conferent/infras/postgres"
	"conferent/internal/domains/rent/model"
	"conferent/shared/constant"
	gDto "conferent/shared/dto"
	"conferent/shared/logger"
	gRepo "conferent/shared/repository"
)

type Rent interface {
	Insert(ctx context.Context, model model.Rent) error
	InsertReturningID(ctx context.Context, model model.Rent) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Rent, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Rent, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	InsertReturningIDTx(ctx context.Context, sqltx *sqlx.Tx, model model.Rent) (int64, error)
	ExistOverlapping(ctx context.Context, roomID int64, startTime, endTime time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Rent]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Rent {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Rent](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// InsertReturningIDTx inserts the rent inside the transaction and scans back
// the generated primary key.
func (repo *repositoryImpl) InsertReturningIDTx(ctx context.Context, sqltx *sqlx.Tx, rent model.Rent) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".rent.InsertReturningIDTx")
	defer scope.End()

	placeholders := []string{}
	for _, col := range repo.InsertColumns {
		placeholders = append(placeholders, ":"+col)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		model.TableName,
		strings.Join(repo.InsertColumns, ", "),
		strings.Join(placeholders, ", "),
		model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows, err := sqlx.NamedQueryContext(ctx, sqltx, query, rent)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to insert rent: %w", err)
	}
	defer rows.Close()

	var id int64
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return 0, fmt.Errorf("failed to scan inserted rent id: %w", err)
		}
	}

	return id, nil
}

// ExistOverlapping reports whether an active reservation on the room
// intersects the half-open interval [startTime, endTime).
func (repo *repositoryImpl) ExistOverlapping(ctx context.Context, roomID int64, startTime, endTime time.Time) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".rent.ExistOverlapping")
	defer scope.End()

	query := `SELECT EXISTS(
		SELECT 1 FROM rents
		WHERE room_id = :room_id
		AND status IN (:pending, :confirmed)
		AND start_time < :end_time
		AND end_time > :start_time
	)`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"room_id":    roomID,
		"pending":    constant.RentStatusPending,
		"confirmed":  constant.RentStatusConfirmed,
		"start_time": startTime,
		"end_time":   endTime,
	}

	exist := false

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check overlapping rent: %w", err)
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &exist, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check overlapping rent: %w", err)
	}

	return exist, nil
}
