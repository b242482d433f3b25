//go:build wireinject
// +build wireinject

package di

import (
	"leadtime/config"
	"leadtime/infras/jwt"
	"leadtime/infras/kafka"
	"leadtime/infras/otel"
	"leadtime/infras/postgres"
	"leadtime/infras/redis"
	"leadtime/internal/events"
	"leadtime/internal/housekeeping"
	availabilityHandler "leadtime/internal/handlers/availability"
	bookingHandler "leadtime/internal/handlers/booking"
	"leadtime/shared/cache"
	"leadtime/transport/http"
	"leadtime/transport/http/middleware"
	"leadtime/transport/http/router"

	bookingService "leadtime/internal/domains/booking/service"
	reservationRepository "leadtime/internal/domains/reservation/repository"
	reservationService "leadtime/internal/domains/reservation/service"
	scheduleRepository "leadtime/internal/domains/schedule/repository"
	scheduleService "leadtime/internal/domains/schedule/service"
	submissionRepository "leadtime/internal/domains/submission/repository"
	submissionService "leadtime/internal/domains/submission/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAdminMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	events.NewDispatcher,
)

var scheduleDomain = wire.NewSet(
	scheduleRepository.New,
	scheduleService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var submissionDomain = wire.NewSet(
	submissionRepository.New,
	submissionService.New,
)

var bookingDomain = wire.NewSet(
	bookingService.New,
)

var domains = wire.NewSet(
	scheduleDomain,
	reservationDomain,
	submissionDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	availabilityHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeHousekeeper() *housekeeping.Worker {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
		housekeeping.NewWorker,
	)

	return &housekeeping.Worker{}
}
