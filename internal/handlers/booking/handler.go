package booking

import (
	"encoding/json"
	"fmt"
	"leadtime/infras/otel"
	"leadtime/internal/domains/booking/model/dto"
	bookingService "leadtime/internal/domains/booking/service"
	resModel "leadtime/internal/domains/reservation/model"
	resDto "leadtime/internal/domains/reservation/model/dto"
	resService "leadtime/internal/domains/reservation/service"
	subModel "leadtime/internal/domains/submission/model"
	subService "leadtime/internal/domains/submission/service"
	"leadtime/shared"
	"leadtime/shared/constant"
	gDto "leadtime/shared/dto"
	"leadtime/shared/failure"
	"leadtime/shared/validator"
	"leadtime/transport/http/middleware"
	"leadtime/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service      bookingService.Booking
	reservations resService.Reservation
	submissions  subService.Submission
	middleware   middleware.Admin
	otel         otel.Otel
}

func New(service bookingService.Booking, reservations resService.Reservation, submissions subService.Submission, middleware middleware.Admin, otel otel.Otel) Handler {
	return Handler{
		service:      service,
		reservations: reservations,
		submissions:  submissions,
		middleware:   middleware,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.SubmitBooking)
		routerGroup.Post("/cancel", handler.CancelBooking)
	})

	router.Route("/admin/bookings", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.APIKey)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Post("/{id}/cancel", handler.CancelBookingByID)
	})

	router.Route("/admin/submissions", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.APIKey)
		routerGroup.Get("/", handler.GetSubmissions)
	})
}

// SubmitBooking processes a public booking form submission. The body is only
// decoded here; validation belongs to the submission guard so it runs in the
// right order relative to the honeypot and rate checks.
func (handler *Handler) SubmitBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitBooking")
	defer scope.End()

	req := dto.SubmitBookingRequest{}

	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		err = failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err))
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	clientID, _ := ctx.Value(constant.ContextKeyClientID).(string)

	res, err := handler.service.Submit(ctx, req, clientID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking submitted successfully")

	response.WithJSON(writer, http.StatusCreated, res)
}

// CancelBooking cancels a reservation on presentation of its cancel token.
func (handler *Handler) CancelBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	req := resDto.CancelRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.reservations.CancelByToken(ctx, req.CancelToken); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking cancelled successfully")

	response.WithMessage(writer, http.StatusOK, "Booking cancelled successfully")
}

// GetBookings lists reservations for staff, with optional filters.
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(resModel.FieldStatus)
	bookingDate := r.URL.Query().Get(resModel.FieldBookingDate)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    resModel.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    resModel.TableName,
		})
	}

	if bookingDate != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    resModel.FieldBookingDate,
			Operator: gDto.FilterOperatorEq,
			Value:    bookingDate,
			Table:    resModel.TableName,
		})
	}

	bookings, err := handler.reservations.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// CancelBookingByID cancels a reservation on behalf of staff.
func (handler *Handler) CancelBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.reservations.CancelByID(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking cancelled successfully by staff")

	response.WithMessage(w, http.StatusOK, "Booking cancelled successfully")
}

// GetSubmissions lists the submission audit log for staff.
func (handler *Handler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSubmissions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	formType := r.URL.Query().Get(subModel.FieldFormType)
	suspicious := shared.ConvertStringToBool(r.URL.Query().Get(subModel.FieldSuspicious))

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if formType != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    subModel.FieldFormType,
			Operator: gDto.FilterOperatorEq,
			Value:    formType,
			Table:    subModel.TableName,
		})
	}

	if suspicious != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    subModel.FieldSuspicious,
			Operator: gDto.FilterOperatorEq,
			Value:    *suspicious,
			Table:    subModel.TableName,
		})
	}

	submissions, err := handler.submissions.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get submissions")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Submissions retrieved successfully")

	response.WithJSON(w, http.StatusOK, submissions)
}
