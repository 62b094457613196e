package http

import (
	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"todoservice/internal/adapter/http/middleware"
	"todoservice/internal/config"
	"todoservice/internal/core/telemetry"
)

// NewRouter builds the gin engine. metrics and logger may be nil.
func NewRouter(container *Container, cfg *config.Config, metrics *telemetry.AppMetrics, logger *otelzap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	router := gin.New()

	// Trailing-slash redirects are answered before any middleware runs, so
	// they would carry no CORS headers. Collection routes are registered
	// with and without the slash instead.
	router.RedirectTrailingSlash = false

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(cfg.App.Name))
	router.Use(middleware.Logging(logger))

	if metrics != nil {
		router.Use(middleware.Metrics(metrics))
	}

	router.Use(middleware.CORS(cfg.HTTP.CORSOrigins))

	if cfg.HTTP.EnforceHTTPS {
		router.Use(middleware.HTTPSRedirect(logger))
	}

	router.GET("/health", container.HealthHandler.Health)

	api := router.Group("/")

	if cfg.RateLimit.Enabled {
		api.Use(middleware.NewRateLimiter(cfg.RateLimit, logger, metrics).Middleware())
	}

	setupTodoRoutes(api, container)
	setupUserRoutes(api, container)

	return router
}

func setupTodoRoutes(group *gin.RouterGroup, container *Container) {
	todos := group.Group("/todos")
	{
		todos.POST("", container.TodoHandler.CreateTodo)
		todos.POST("/", container.TodoHandler.CreateTodo)
		todos.GET("", container.TodoHandler.ListTodos)
		todos.GET("/", container.TodoHandler.ListTodos)
		todos.GET("/:id", container.TodoHandler.GetTodo)
		todos.PUT("/:id", container.TodoHandler.UpdateTodo)
		todos.DELETE("/:id", container.TodoHandler.DeleteTodo)
	}
}

func setupUserRoutes(group *gin.RouterGroup, container *Container) {
	group.POST("/users", container.UserHandler.CreateUser)
	group.POST("/users/", container.UserHandler.CreateUser)
}
