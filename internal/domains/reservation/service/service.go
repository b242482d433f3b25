package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"leadtime/config"
	"leadtime/infras/jwt"
	"leadtime/infras/otel"
	"leadtime/internal/domains/reservation/model"
	"leadtime/internal/domains/reservation/model/dto"
	"leadtime/internal/domains/reservation/repository"
	schedModel "leadtime/internal/domains/schedule/model"
	schedRepo "leadtime/internal/domains/schedule/repository"
	"leadtime/internal/events"
	"leadtime/shared"
	"leadtime/shared/constant"
	gDto "leadtime/shared/dto"
	"leadtime/shared/failure"
	gRepo "leadtime/shared/repository"
	"leadtime/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

type Reservation interface {
	Commit(ctx context.Context, req dto.CommitRequest) (dto.CommitResponse, error)
	CancelByToken(ctx context.Context, token string) error
	CancelByID(ctx context.Context, id string) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	CompleteElapsed(ctx context.Context) (int64, error)
}

type serviceImpl struct {
	repo       repository.Reservation
	ruleRepo   schedRepo.Rule
	tokens     jwt.Tokens
	dispatcher events.Dispatcher
	cfg        *config.Config
	otel       otel.Otel
}

func New(repo repository.Reservation, ruleRepo schedRepo.Rule, tokens jwt.Tokens, dispatcher events.Dispatcher, cfg *config.Config, otel otel.Otel) Reservation {
	return &serviceImpl{
		repo:       repo,
		ruleRepo:   ruleRepo,
		tokens:     tokens,
		dispatcher: dispatcher,
		cfg:        cfg,
		otel:       otel,
	}
}

// Commit atomically claims one slot for one guest. The claim is a plain
// insert; the partial unique index on scheduled reservations is the only
// arbiter, so two concurrent commits for the same slot cannot both succeed
// regardless of interleaving.
func (s *serviceImpl) Commit(ctx context.Context, req dto.CommitRequest) (res dto.CommitResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Commit")
	defer scope.End()
	defer scope.TraceIfError(err)

	loc := timezone.GetLocation()

	day, err := time.ParseInLocation(constant.DayFormat, req.Date, loc)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date)) // nolint:wrapcheck
	}

	if day.Before(timezone.StartOfDay(timezone.Now())) {
		return res, failure.BadRequestFromString("date must not be in the past") // nolint:wrapcheck
	}

	rule, err := s.matchRule(ctx, int(day.Weekday()), req.StartTime)
	if err != nil {
		return res, err
	}

	actor, _ := ctx.Value(constant.ContextKeyActor).(string)
	if actor == constant.Empty {
		actor = constant.ActorVisitor
	}

	reservation := req.ToModel(day, rule.DurationMinutes, loc.String(), actor)

	if err := s.repo.Insert(ctx, reservation); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, failure.Conflict("slot has already been booked") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to insert reservation")

		return res, fmt.Errorf("failed to insert reservation: %w", err)
	}

	cancelToken, err := s.tokens.GenerateCancelToken(reservation.ID)
	if err != nil {
		// The slot is claimed; a token failure must not unwind the booking.
		log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to generate cancel token")
	}

	s.dispatchConfirmed(ctx, reservation, cancelToken)

	return dto.CommitResponse{
		ReservationID:   reservation.ID,
		Date:            req.Date,
		StartTime:       reservation.StartTime,
		DurationMinutes: reservation.DurationMinutes,
		Timezone:        reservation.Timezone,
		Status:          reservation.Status,
		CancelToken:     cancelToken,
	}, nil
}

// CancelByToken releases a reservation on presentation of its cancel token.
func (s *serviceImpl) CancelByToken(ctx context.Context, token string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelByToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	claims, err := s.tokens.ValidateCancelToken(token)
	if err != nil {
		return failure.Unauthorized("invalid or expired cancel token") // nolint:wrapcheck
	}

	return s.cancel(ctx, claims.ReservationID, constant.ActorVisitor)
}

// CancelByID releases a reservation on behalf of staff.
func (s *serviceImpl) CancelByID(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelByID")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyActor).(string)
	if actor == constant.Empty {
		actor = constant.ActorStaff
	}

	return s.cancel(ctx, id, actor)
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

// CompleteElapsed marks scheduled reservations whose booking date has fully
// passed as completed. Same-day reservations are left alone until midnight.
func (s *serviceImpl) CompleteElapsed(ctx context.Context) (completed int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CompleteElapsed")
	defer scope.End()
	defer scope.TraceIfError(err)

	completed, err = s.repo.CompleteElapsed(ctx, timezone.StartOfDay(timezone.Now()))
	if err != nil {
		log.Error().Err(err).Msg("failed to complete elapsed reservations")

		return 0, fmt.Errorf("failed to complete elapsed reservations: %w", err)
	}

	return completed, nil
}

func (s *serviceImpl) cancel(ctx context.Context, id, actor string) error {
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	reservation, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if reservation.Status != constant.ReservationStatusScheduled {
		return failure.Conflict(fmt.Sprintf("reservation is already %s", reservation.Status)) // nolint:wrapcheck
	}

	err = s.repo.Update(ctx, map[string]any{
		model.FieldStatus:        constant.ReservationStatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel reservation")

		return fmt.Errorf("failed to cancel reservation: %w", err)
	}

	s.dispatchCancelled(ctx, reservation)

	return nil
}

func (s *serviceImpl) matchRule(ctx context.Context, weekday int, startTime string) (rule schedModel.AvailabilityRule, err error) {
	rule, err = s.ruleRepo.Get(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    schedModel.FieldDayOfWeek,
				Operator: gDto.FilterOperatorEq,
				Value:    weekday,
				Table:    schedModel.TableName,
			},
			gDto.Filter{
				Field:    schedModel.FieldStartTime,
				Operator: gDto.FilterOperatorEq,
				Value:    startTime,
				Table:    schedModel.TableName,
			},
			gDto.Filter{
				Field:    schedModel.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    schedModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to match availability rule")

		return rule, fmt.Errorf("failed to match availability rule: %w", err)
	}

	if rule.ID == constant.Empty {
		return rule, failure.UnprocessableEntity("slot is not offered") // nolint:wrapcheck
	}

	return rule, nil
}

func (s *serviceImpl) dispatchConfirmed(ctx context.Context, reservation model.Reservation, cancelToken string) {
	go func() {
		c := context.WithoutCancel(ctx)

		err := s.dispatcher.BookingConfirmed(c, events.BookingEvent{
			ReservationID:   reservation.ID,
			BookingDate:     timezone.Format(reservation.BookingDate, constant.DayFormat),
			StartTime:       reservation.StartTime,
			DurationMinutes: reservation.DurationMinutes,
			Timezone:        reservation.Timezone,
			GuestName:       reservation.GuestName,
			GuestEmail:      reservation.GuestEmail,
			CancelToken:     cancelToken,
		})
		if err != nil {
			log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to publish booking confirmed event")
		}
	}()
}

func (s *serviceImpl) dispatchCancelled(ctx context.Context, reservation model.Reservation) {
	go func() {
		c := context.WithoutCancel(ctx)

		err := s.dispatcher.BookingCancelled(c, events.BookingEvent{
			ReservationID:   reservation.ID,
			BookingDate:     timezone.Format(reservation.BookingDate, constant.DayFormat),
			StartTime:       reservation.StartTime,
			DurationMinutes: reservation.DurationMinutes,
			Timezone:        reservation.Timezone,
			GuestName:       reservation.GuestName,
			GuestEmail:      reservation.GuestEmail,
		})
		if err != nil {
			log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("failed to publish booking cancelled event")
		}
	}()
}
