package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"leadtime/infras/otel"
	"leadtime/infras/postgres"
	"leadtime/internal/domains/schedule/model"
	gDto "leadtime/shared/dto"
	gRepo "leadtime/shared/repository"
)

type Rule interface {
	Insert(ctx context.Context, model model.AvailabilityRule) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.AvailabilityRule, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AvailabilityRule, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.AvailabilityRule]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Rule {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.AvailabilityRule](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
