package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"leadtime/infras/otel"
	"leadtime/infras/postgres"
	"leadtime/internal/domains/reservation/model"
	"leadtime/shared/constant"
	gDto "leadtime/shared/dto"
	"leadtime/shared/logger"
	gRepo "leadtime/shared/repository"
	"leadtime/shared/timezone"
	"time"
)

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	CompleteElapsed(ctx context.Context, before time.Time) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// CompleteElapsed transitions every scheduled reservation dated strictly
// before the given day to completed and reports how many rows changed.
func (repo *repositoryImpl) CompleteElapsed(ctx context.Context, before time.Time) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".CompleteElapsed")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %s SET %s = :completed, modified_at = :now, modified_by = :actor WHERE %s = :scheduled AND %s < :before",
		model.TableName, model.FieldStatus, model.FieldStatus, model.FieldBookingDate,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{
		"completed": constant.ReservationStatusCompleted,
		"scheduled": constant.ReservationStatusScheduled,
		"before":    before.Format(constant.DayFormat),
		"now":       timezone.Now(),
		"actor":     constant.ActorSystem,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to complete elapsed reservations: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}
