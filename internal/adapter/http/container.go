package http

import (
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"todoservice/internal/adapter/database"
	"todoservice/internal/adapter/database/repository"
	"todoservice/internal/adapter/http/handler"
	"todoservice/internal/config"
	"todoservice/internal/core/port"
	"todoservice/internal/core/service"
)

type Container struct {
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository

	UserService port.UserService
	TodoService port.TodoService

	UserHandler   *handler.UserHandler
	TodoHandler   *handler.TodoHandler
	HealthHandler *handler.HealthHandler
}

// NewContainer wires repositories, services and handlers around a DB owned
// by the caller. cache may be nil.
func NewContainer(db *database.DB, cache port.CacheRepository, cfg config.CacheConfig, probe port.Telemetry, logger *otelzap.Logger) *Container {
	userRepo := repository.NewUserRepository(db, probe)
	todoRepo := repository.NewTodoRepository(db, probe)

	userSvc := service.NewUserService(userRepo, probe)
	todoSvc := service.NewTodoService(todoRepo, cache, cfg.TTL, probe, logger)

	return &Container{
		UserRepo: userRepo,
		TodoRepo: todoRepo,

		UserService: userSvc,
		TodoService: todoSvc,

		UserHandler:   handler.NewUserHandler(userSvc, logger),
		TodoHandler:   handler.NewTodoHandler(todoSvc, logger),
		HealthHandler: handler.NewHealthHandler(db),
	}
}
