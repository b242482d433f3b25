package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"leadtime/config"
	"leadtime/infras/otel"
	"leadtime/internal/domains/submission/model/dto"
	"leadtime/internal/domains/submission/repository"
	"leadtime/shared/constant"
	gDto "leadtime/shared/dto"
	"leadtime/shared/failure"
	"leadtime/shared/timezone"
	"leadtime/shared/validator"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Submission interface {
	Admit(ctx context.Context, req dto.AdmitRequest) (dto.Decision, error)
	Record(ctx context.Context, entry dto.RecordEntry)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSubmissionsResponse, error)
	Purge(ctx context.Context) (int64, error)
}

type serviceImpl struct {
	repo repository.Submission
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.Submission, cfg *config.Config, otel otel.Otel) Submission {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
	}
}

// Admit is the single gate every public form submission passes before any
// business logic runs. Checks run cheapest first: honeypot, then payload
// validation, then the rate window. A honeypot hit never touches the window,
// so bots cannot exhaust a legitimate visitor's quota from the same network.
func (s *serviceImpl) Admit(ctx context.Context, req dto.AdmitRequest) (decision dto.Decision, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Admit")
	defer scope.End()
	defer scope.TraceIfError(err)

	if strings.TrimSpace(req.HoneypotValue) != constant.Empty {
		decision.HoneypotTriggered = true
		decision.Suspicious = true

		// The rejection reads like any other failed submission so the trap
		// field is never revealed.
		return decision, failure.BadRequestFromString("unable to process submission") // nolint:wrapcheck
	}

	if req.Payload != nil {
		if err := validator.ValidateAny(req.Payload); err != nil {
			return decision, err // nolint:wrapcheck
		}
	}

	window := time.Duration(s.cfg.Booking.Guard.WindowMinutes) * time.Minute
	now := timezone.Now()

	state, err := s.repo.IncrementWindow(ctx, req.FormType, req.IdentifierHash, now, now.Add(-window))
	if err != nil {
		log.Error().Err(err).Str("form_type", req.FormType).Msg("failed to increment submission window")

		// Fail closed: an unreadable counter must not become an open gate.
		return decision, fmt.Errorf("failed to increment submission window: %w", err)
	}

	if state.Count > s.cfg.Booking.Guard.MaxSubmissions {
		decision.Suspicious = true

		retryAfter := int64(state.WindowStart.Add(window).Sub(now).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}

		return decision, failure.TooManyRequests("too many submissions, please try again later", retryAfter) // nolint:wrapcheck
	}

	return decision, nil
}

// Record appends one audit line for a submission attempt. The log is best
// effort; a write failure is logged and swallowed so it can never change the
// outcome the visitor already received.
func (s *serviceImpl) Record(ctx context.Context, entry dto.RecordEntry) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Record")
	defer scope.End()

	if err := s.repo.Insert(ctx, entry.ToModel(timezone.Now())); err != nil {
		log.Error().Err(err).Str("form_type", entry.FormType).Msg("failed to record submission")
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSubmissionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count submissions")

		return res, fmt.Errorf("failed to count submissions: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get submissions")

		return res, fmt.Errorf("failed to get submissions: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

// Purge enforces the retention policy on the audit log and sweeps lapsed rate
// windows. It returns how many audit rows were dropped.
func (s *serviceImpl) Purge(ctx context.Context) (purged int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Purge")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()
	retention := time.Duration(s.cfg.Housekeeping.SubmissionRetentionDays) * 24 * time.Hour

	purged, err = s.repo.PurgeOlderThan(ctx, now.Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to purge submission logs: %w", err)
	}

	window := time.Duration(s.cfg.Booking.Guard.WindowMinutes) * time.Minute

	if err := s.repo.DeleteExpiredWindows(ctx, now.Add(-window)); err != nil {
		return purged, fmt.Errorf("failed to delete expired submission windows: %w", err)
	}

	return purged, nil
}
