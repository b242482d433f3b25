package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"leadtime/config"
	"leadtime/infras/otel"
	"leadtime/internal/domains/schedule/model"
	"leadtime/internal/domains/schedule/model/dto"
	"leadtime/internal/domains/schedule/repository"
	resModel "leadtime/internal/domains/reservation/model"
	resRepo "leadtime/internal/domains/reservation/repository"
	"leadtime/shared"
	"leadtime/shared/cache"
	"leadtime/shared/constant"
	gDto "leadtime/shared/dto"
	"leadtime/shared/failure"
	"leadtime/shared/timezone"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheRulesByDay = "schedule:rules"
	cacheGetRules   = "schedule:gets"
)

type Schedule interface {
	Resolve(ctx context.Context, date, tz string) (dto.ResolveResponse, error)
	ActiveRulesForWeekday(ctx context.Context, weekday int) ([]model.AvailabilityRule, error)
	CreateRule(ctx context.Context, req dto.CreateRuleRequest) error
	UpdateRule(ctx context.Context, req dto.UpdateRuleRequest, id string) error
	DeactivateRule(ctx context.Context, id string) error
	GetRules(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRulesResponse, error)
}

type serviceImpl struct {
	repo    repository.Rule
	resRepo resRepo.Reservation
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(repo repository.Rule, resRepo resRepo.Reservation, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Schedule {
	return &serviceImpl{
		repo:    repo,
		resRepo: resRepo,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

// Resolve derives the bookable slots for one calendar date from the weekly
// template and the reservations already scheduled on that date. It is a pure
// read: calling it repeatedly with no intervening writes yields identical
// output.
func (s *serviceImpl) Resolve(ctx context.Context, date, tz string) (res dto.ResolveResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer scope.TraceIfError(err)

	loc, err := timezone.Load(tz)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown timezone %q", tz)) // nolint:wrapcheck
	}

	day, err := time.ParseInLocation(constant.DayFormat, date, loc)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date)) // nolint:wrapcheck
	}

	today := timezone.StartOfDay(time.Now().In(loc))
	if day.Before(today) {
		return res, failure.BadRequestFromString("date must not be in the past") // nolint:wrapcheck
	}

	rules, err := s.ActiveRulesForWeekday(ctx, int(day.Weekday()))
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("failed to load availability rules")

		return res, fmt.Errorf("failed to load availability rules: %w", err)
	}

	res.Date = date
	res.Timezone = loc.String()
	res.Slots = []dto.SlotView{}

	// A weekday with no active rules is a legitimate empty result, not an error.
	if len(rules) == 0 {
		return res, nil
	}

	reserved, err := s.scheduledStartTimes(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("failed to load reservations")

		return res, fmt.Errorf("failed to load reservations: %w", err)
	}

	for _, rule := range rules {
		res.Slots = append(res.Slots, dto.SlotView{
			StartTime:       rule.StartTime,
			DurationMinutes: rule.DurationMinutes,
			Available:       !reserved[rule.StartTime],
		})
	}

	sortSlots(res.Slots)

	return res, nil
}

// ActiveRulesForWeekday returns the active template entries for one weekday,
// cache-aside over Redis since the template only changes on admin writes.
func (s *serviceImpl) ActiveRulesForWeekday(ctx context.Context, weekday int) (rules []model.AvailabilityRule, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ActiveRulesForWeekday")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheRulesByDay, strconv.Itoa(weekday))

	err = s.cache.Get(ctx, cacheKey, &rules)
	if err == nil {
		return rules, nil
	}

	rules, err = s.repo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldDayOfWeek,
				Operator: gDto.FilterOperatorEq,
				Value:    weekday,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get availability rules: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, rules, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save availability rules to cache")
		}
	}()

	return rules, nil
}

func (s *serviceImpl) CreateRule(ctx context.Context, req dto.CreateRuleRequest) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateRule")
	defer scope.End()

	actor, _ := ctx.Value(constant.ContextKeyActor).(string)
	rule := req.ToModel(actor)

	if rule.Active {
		if err := s.checkOverlap(ctx, rule, constant.Empty); err != nil {
			return err
		}
	}

	if err := s.repo.Insert(ctx, rule); err != nil {
		log.Error().Err(err).Msg("failed to create availability rule")

		return fmt.Errorf("failed to create availability rule: %w", err)
	}

	s.invalidateRuleCaches(ctx)

	return nil
}

func (s *serviceImpl) UpdateRule(ctx context.Context, req dto.UpdateRuleRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateRule")
	defer scope.End()

	if req == (dto.UpdateRuleRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	existing, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability rule")

		return fmt.Errorf("failed to get availability rule: %w", err)
	}

	if existing.ID == constant.Empty {
		return failure.NotFound("availability rule not found") // nolint:wrapcheck
	}

	updated := existing
	if req.StartTime != "" {
		updated.StartTime = req.StartTime
	}

	if req.DurationMinutes != 0 {
		updated.DurationMinutes = req.DurationMinutes
	}

	if req.Active != nil {
		updated.Active = *req.Active
	}

	if updated.Active {
		if err := s.checkOverlap(ctx, updated, existing.ID); err != nil {
			return err
		}
	}

	actor, _ := ctx.Value(constant.ContextKeyActor).(string)

	if err := s.repo.Update(ctx, shared.TransformFields(req, actor), filter); err != nil {
		log.Error().Err(err).Msg("failed to update availability rule")

		return fmt.Errorf("failed to update availability rule: %w", err)
	}

	s.invalidateRuleCaches(ctx)

	return nil
}

// DeactivateRule retires a rule from the template. There is no hard delete;
// slots already booked against the rule keep their meaning.
func (s *serviceImpl) DeactivateRule(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeactivateRule")
	defer scope.End()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if availability rule exists")

		return fmt.Errorf("failed to check if availability rule exists: %w", err)
	}

	if !exist {
		return failure.NotFound("availability rule not found") // nolint:wrapcheck
	}

	actor, _ := ctx.Value(constant.ContextKeyActor).(string)

	err = s.repo.Update(ctx, map[string]any{
		model.FieldActive:        false,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to deactivate availability rule")

		return fmt.Errorf("failed to deactivate availability rule: %w", err)
	}

	s.invalidateRuleCaches(ctx)

	return nil
}

func (s *serviceImpl) GetRules(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRulesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetRules")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetRules, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count availability rules")

		return res, fmt.Errorf("failed to count availability rules: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability rules")

		return res, fmt.Errorf("failed to get availability rules: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save availability rules to cache")
		}
	}()

	return res, nil
}

// checkOverlap enforces the template invariant: active rules of one weekday
// must not overlap in [start, start+duration).
func (s *serviceImpl) checkOverlap(ctx context.Context, candidate model.AvailabilityRule, excludeID string) error {
	start, err := shared.ParseClock(candidate.StartTime)
	if err != nil {
		return err
	}

	end := start + candidate.DurationMinutes

	siblings, err := s.ActiveRulesForWeekday(ctx, candidate.DayOfWeek)
	if err != nil {
		return fmt.Errorf("failed to load sibling rules: %w", err)
	}

	for _, sibling := range siblings {
		if sibling.ID == excludeID {
			continue
		}

		siblingStart, err := shared.ParseClock(sibling.StartTime)
		if err != nil {
			log.Error().Err(err).Str("rule_id", sibling.ID).Msg("stored rule has malformed start time")

			continue
		}

		if start < siblingStart+sibling.DurationMinutes && siblingStart < end {
			return failure.Conflict(fmt.Sprintf("rule overlaps existing slot at %s", sibling.StartTime)) // nolint:wrapcheck
		}
	}

	return nil
}

func (s *serviceImpl) scheduledStartTimes(ctx context.Context, date string) (map[string]bool, error) {
	reservations, err := s.resRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    resModel.FieldBookingDate,
				Operator: gDto.FilterOperatorEq,
				Value:    date,
				Table:    resModel.TableName,
			},
			gDto.Filter{
				Field:    resModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    constant.ReservationStatusScheduled,
				Table:    resModel.TableName,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get reservations: %w", err)
	}

	taken := make(map[string]bool, len(reservations))
	for _, reservation := range reservations {
		taken[reservation.StartTime] = true
	}

	return taken, nil
}

func (s *serviceImpl) invalidateRuleCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheRulesByDay)
		shared.InvalidateCaches(c, s.cache, cacheGetRules)
	}()
}

func sortSlots(slots []dto.SlotView) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime < slots[j].StartTime
	})
}
