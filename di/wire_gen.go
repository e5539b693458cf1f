// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"conferent/config"
	"conferent/infras/authapi"
	"conferent/infras/jwt"
	"conferent/infras/kafka"
	"conferent/infras/otel"
	"conferent/infras/postgres"
	"conferent/infras/redis"
	"conferent/infras/sessionkv"
	"conferent/internal/domains/auth/service"
	repository5 "conferent/internal/domains/invite/repository"
	service5 "conferent/internal/domains/invite/service"
	repository3 "conferent/internal/domains/rent/repository"
	service3 "conferent/internal/domains/rent/service"
	repository2 "conferent/internal/domains/room/repository"
	service2 "conferent/internal/domains/room/service"
	repository4 "conferent/internal/domains/roomrent/repository"
	"conferent/internal/domains/user/repository"
	service4 "conferent/internal/domains/user/service"
	"conferent/internal/handlers/auth"
	"conferent/internal/handlers/invite"
	"conferent/internal/handlers/rent"
	"conferent/internal/handlers/room"
	"conferent/internal/handlers/user"
	"conferent/internal/session"
	"conferent/permissions"
	"conferent/shared/cache"
	"conferent/transport/http"
	"conferent/transport/http/middleware"
	"conferent/transport/http/router"
	"github.com/google/wire"
)

// Injectors from wire.go:

func InitializeService() *http.HTTP {
	configConfig := config.Get()
	connection := postgres.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositoryUser := repository.New(connection, otelOtel)
	client := redis.New(configConfig)
	redisCache := cache.NewRedisCache(client, otelOtel)
	jwtJWT := jwt.New(configConfig)
	serviceAuth := service.New(repositoryUser, configConfig, redisCache, otelOtel, jwtJWT)
	handler := auth.New(serviceAuth, otelOtel)
	repositoryRoom := repository2.New(connection, otelOtel)
	serviceRoom := service2.New(repositoryRoom, configConfig, redisCache, otelOtel)
	roomHandler := room.New(serviceRoom, otelOtel)
	repositoryRent := repository3.New(connection, otelOtel)
	roomRent := repository4.New(connection, otelOtel)
	repositoryInvite := repository5.New(connection, otelOtel)
	kafkaClient := kafka.New(configConfig)
	serviceRent := service3.New(repositoryRent, repositoryRoom, roomRent, repositoryInvite, connection, configConfig, redisCache, otelOtel, kafkaClient)
	rentHandler := rent.New(serviceRent, otelOtel)
	serviceUser := service4.New(repositoryUser, configConfig, redisCache, otelOtel)
	userHandler := user.New(serviceUser, otelOtel)
	serviceInvite := service5.New(repositoryInvite, repositoryRent, configConfig, redisCache, otelOtel)
	inviteHandler := invite.New(serviceInvite, otelOtel)
	domainHandlers := router.DomainHandlers{
		Auth:   handler,
		Room:   roomHandler,
		Rent:   rentHandler,
		User:   userHandler,
		Invite: inviteHandler,
	}
	appMiddleware := middleware.NewAppMiddleware(otelOtel, configConfig, redisCache)
	permissionData := permissions.Get()
	authRole := middleware.NewAuthRoleMiddleware(jwtJWT, otelOtel, permissionData, redisCache, configConfig)
	routerRouter := router.New(domainHandlers, appMiddleware, authRole)
	httpHTTP := http.New(configConfig, routerRouter)
	return httpHTTP
}

func InitializeSessionManager() *session.Manager {
	configConfig := config.Get()
	gateway := authapi.New(configConfig)
	client := redis.New(configConfig)
	otelOtel := otel.New(configConfig)
	store := sessionkv.New(configConfig, client, otelOtel)
	connection := postgres.New(configConfig)
	repositoryInvite := repository5.New(connection, otelOtel)
	repositoryRent := repository3.New(connection, otelOtel)
	redisCache := cache.NewRedisCache(client, otelOtel)
	serviceInvite := service5.New(repositoryInvite, repositoryRent, configConfig, redisCache, otelOtel)
	inviteSource := session.NewInviteSource(serviceInvite)
	manager := session.NewManager(gateway, store, inviteSource, otelOtel)
	return manager
}

// wire.go:

var configurations = wire.NewSet(config.Get)

var infrastructures = wire.NewSet(postgres.New, otel.New, redis.New, jwt.New, kafka.New, authapi.New, sessionkv.New)

var middlewares = wire.NewSet(permissions.Get, middleware.NewAppMiddleware, middleware.NewAuthRoleMiddleware)

var sharedHelpers = wire.NewSet(cache.NewRedisCache)

var roomDomain = wire.NewSet(repository2.New, service2.New)

var rentDomain = wire.NewSet(repository3.New, repository4.New, service3.New)

var inviteDomain = wire.NewSet(repository5.New, service5.New)

var userDomain = wire.NewSet(repository.New, service4.New)

var authDomain = wire.NewSet(service.New)

var sessionCore = wire.NewSet(session.NewInviteSource, session.NewManager)

var domains = wire.NewSet(
	roomDomain,
	rentDomain,
	inviteDomain,
	userDomain,
	authDomain,
)

var routing = wire.NewSet(wire.Struct(new(router.DomainHandlers), "*"), auth.New, room.New, rent.New, user.New, invite.New, router.New)
