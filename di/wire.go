//go:build wireinject
// +build wireinject

package di

import (
	"caseclub/config"
	"caseclub/infras/jwt"
	"caseclub/infras/kafka"
	"caseclub/infras/otel"
	"caseclub/infras/postgres"
	"caseclub/infras/redis"
	"caseclub/infras/s3"
	"caseclub/permissions"
	"caseclub/shared/cache"
	"caseclub/transport/http"
	"caseclub/transport/http/middleware"
	"caseclub/transport/http/router"

	"github.com/google/wire"

	authService "caseclub/internal/domains/auth/service"
	userRepository "caseclub/internal/domains/user/repository"
	userService "caseclub/internal/domains/user/service"

	slotRepository "caseclub/internal/domains/slot/repository"
	slotService "caseclub/internal/domains/slot/service"

	appointmentRepository "caseclub/internal/domains/appointment/repository"
	appointmentService "caseclub/internal/domains/appointment/service"

	feedbackRepository "caseclub/internal/domains/feedback/repository"
	feedbackService "caseclub/internal/domains/feedback/service"

	casestudyRepository "caseclub/internal/domains/casestudy/repository"
	casestudyService "caseclub/internal/domains/casestudy/service"

	partnerService "caseclub/internal/domains/partner/service"

	appointmentHandler "caseclub/internal/handlers/appointment"
	authHandler "caseclub/internal/handlers/auth"
	casestudyHandler "caseclub/internal/handlers/casestudy"
	feedbackHandler "caseclub/internal/handlers/feedback"
	partnerHandler "caseclub/internal/handlers/partner"
	slotHandler "caseclub/internal/handlers/slot"
	userHandler "caseclub/internal/handlers/user"
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
	s3.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var userDomain = wire.NewSet(
	userService.New,
)

var slotDomain = wire.NewSet(
	slotRepository.New,
	slotService.New,
)

var appointmentDomain = wire.NewSet(
	appointmentRepository.New,
	appointmentService.New,
)

var feedbackDomain = wire.NewSet(
	feedbackRepository.New,
	feedbackService.New,
)

var caseStudyDomain = wire.NewSet(
	casestudyRepository.New,
	casestudyService.New,
)

var partnerDomain = wire.NewSet(
	partnerService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	slotDomain,
	appointmentDomain,
	feedbackDomain,
	caseStudyDomain,
	partnerDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	slotHandler.New,
	appointmentHandler.New,
	feedbackHandler.New,
	casestudyHandler.New,
	partnerHandler.New,
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
