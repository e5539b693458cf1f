//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"conferent/config"
	"conferent/infras/authapi"
	"conferent/infras/jwt"
	"conferent/infras/kafka"
	"conferent/infras/otel"
	"conferent/infras/postgres"
	"conferent/infras/redis"
	"conferent/infras/sessionkv"
	"conferent/internal/session"
	"conferent/permissions"
	"conferent/shared/cache"
	"conferent/transport/http"
	"conferent/transport/http/middleware"
	"conferent/transport/http/router"

	authService "conferent/internal/domains/auth/service"
	inviteRepository "conferent/internal/domains/invite/repository"
	inviteService "conferent/internal/domains/invite/service"
	rentRepository "conferent/internal/domains/rent/repository"
	rentService "conferent/internal/domains/rent/service"
	roomRepository "conferent/internal/domains/room/repository"
	roomService "conferent/internal/domains/room/service"
	roomRentRepository "conferent/internal/domains/roomrent/repository"
	userRepository "conferent/internal/domains/user/repository"
	userService "conferent/internal/domains/user/service"

	authHandler "conferent/internal/handlers/auth"
	inviteHandler "conferent/internal/handlers/invite"
	rentHandler "conferent/internal/handlers/rent"
	roomHandler "conferent/internal/handlers/room"
	userHandler "conferent/internal/handlers/user"
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
	authapi.New,
	sessionkv.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var rentDomain = wire.NewSet(
	rentRepository.New,
	roomRentRepository.New,
	rentService.New,
)

var inviteDomain = wire.NewSet(
	inviteRepository.New,
	inviteService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var sessionCore = wire.NewSet(
	session.NewInviteSource,
	session.NewManager,
)

var domains = wire.NewSet(
	roomDomain,
	rentDomain,
	inviteDomain,
	userDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	roomHandler.New,
	rentHandler.New,
	userHandler.New,
	inviteHandler.New,
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

func InitializeSessionManager() *session.Manager {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		rentRepository.New,
		inviteDomain,
		sessionCore,
	)

	return &session.Manager{}
}
