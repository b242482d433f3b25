package availability

import (
	"leadtime/infras/otel"
	"leadtime/internal/domains/schedule/model"
	"leadtime/internal/domains/schedule/model/dto"
	"leadtime/internal/domains/schedule/service"
	"leadtime/shared"
	"leadtime/shared/constant"
	gDto "leadtime/shared/dto"
	"leadtime/shared/validator"
	"leadtime/transport/http/middleware"
	"leadtime/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Schedule
	middleware middleware.Admin
	otel       otel.Otel
}

func New(service service.Schedule, middleware middleware.Admin, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/availability", handler.ResolveAvailability)

	router.Route("/admin/rules", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.APIKey)
		routerGroup.Post("/", handler.CreateRule)
		routerGroup.Get("/", handler.GetRules)
		routerGroup.Patch("/{id}", handler.UpdateRule)
		routerGroup.Delete("/{id}", handler.DeactivateRule)
	})
}

// ResolveAvailability returns the bookable slots for one calendar date,
// rendered in the requested timezone.
func (handler *Handler) ResolveAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResolveAvailability")
	defer scope.End()

	date := r.URL.Query().Get(constant.RequestParamDate)
	tz := r.URL.Query().Get(constant.RequestParamTimezone)

	slots, err := handler.service.Resolve(ctx, date, tz)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability resolved successfully")

	response.WithJSON(w, http.StatusOK, slots)
}

// CreateRule adds a weekly availability rule to the template.
func (handler *Handler) CreateRule(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRule")
	defer scope.End()

	req := dto.CreateRuleRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.CreateRule(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create availability rule")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Availability rule created successfully")

	response.WithMessage(writer, http.StatusCreated, "Availability rule created successfully")
}

// GetRules lists the weekly template, optionally filtered by weekday or
// active state.
func (handler *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRules")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	dayOfWeek := r.URL.Query().Get(model.FieldDayOfWeek)
	active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive))

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if dayOfWeek != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldDayOfWeek,
			Operator: gDto.FilterOperatorEq,
			Value:    dayOfWeek,
			Table:    model.TableName,
		})
	}

	if active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	rules, err := handler.service.GetRules(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability rules")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability rules retrieved successfully")

	response.WithJSON(w, http.StatusOK, rules)
}

// UpdateRule modifies an existing availability rule.
func (handler *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRule")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateRuleRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateRule(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update availability rule")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability rule updated successfully")

	response.WithMessage(w, http.StatusOK, "Availability rule updated successfully")
}

// DeactivateRule retires a rule from the weekly template.
func (handler *Handler) DeactivateRule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeactivateRule")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.DeactivateRule(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to deactivate availability rule")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability rule deactivated successfully")

	response.WithMessage(w, http.StatusOK, "Availability rule deactivated successfully")
}
