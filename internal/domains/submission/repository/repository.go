package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"leadtime/infras/otel"
	"leadtime/infras/postgres"
	"leadtime/internal/domains/submission/model"
	"leadtime/shared/constant"
	gDto "leadtime/shared/dto"
	"leadtime/shared/logger"
	gRepo "leadtime/shared/repository"
	"time"
)

type Submission interface {
	Insert(ctx context.Context, model model.SubmissionRecord) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.SubmissionRecord, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	IncrementWindow(ctx context.Context, formType, identifierHash string, now, expiredBefore time.Time) (model.SubmissionWindow, error)
	PurgeOlderThan(ctx context.Context, before time.Time) (int64, error)
	DeleteExpiredWindows(ctx context.Context, before time.Time) error
}

type repositoryImpl struct {
	gRepo.Repository[model.SubmissionRecord]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Submission {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.SubmissionRecord](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// IncrementWindow bumps the submission counter for one (form type, identifier)
// pair in a single statement. A window whose start is at or before
// expiredBefore is reset to a fresh window of one instead of incremented, so
// the read-modify-write races that a SELECT-then-UPDATE would allow cannot
// occur.
func (repo *repositoryImpl) IncrementWindow(ctx context.Context, formType, identifierHash string, now, expiredBefore time.Time) (window model.SubmissionWindow, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".IncrementWindow")
	defer scope.End()

	query := fmt.Sprintf(`INSERT INTO %s (form_type, identifier_hash, count, window_start)
		VALUES (:form_type, :identifier_hash, 1, :now)
		ON CONFLICT (form_type, identifier_hash) DO UPDATE SET
			count = CASE WHEN %s.window_start <= :expired_before THEN 1 ELSE %s.count + 1 END,
			window_start = CASE WHEN %s.window_start <= :expired_before THEN :now ELSE %s.window_start END
		RETURNING form_type, identifier_hash, count, window_start`,
		model.WindowTableName, model.WindowTableName, model.WindowTableName, model.WindowTableName, model.WindowTableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.db.Write.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return window, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &window, map[string]any{
		"form_type":       formType,
		"identifier_hash": identifierHash,
		"now":             now,
		"expired_before":  expiredBefore,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return window, fmt.Errorf("failed to increment submission window: %w", err)
	}

	return window, nil
}

// PurgeOlderThan drops audit rows past their retention horizon.
func (repo *repositoryImpl) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".PurgeOlderThan")
	defer scope.End()

	query := fmt.Sprintf("DELETE FROM %s WHERE %s < :before", model.TableName, model.FieldCreatedAt)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{"before": before})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to purge submission logs: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}

// DeleteExpiredWindows removes counters whose window has lapsed. Stale rows
// are harmless to correctness, this only keeps the table small.
func (repo *repositoryImpl) DeleteExpiredWindows(ctx context.Context, before time.Time) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".DeleteExpiredWindows")
	defer scope.End()

	query := fmt.Sprintf("DELETE FROM %s WHERE window_start < :before", model.WindowTableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{"before": before})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to delete expired submission windows: %w", err)
	}

	return nil
}
