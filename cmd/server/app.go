package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/redis"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
)

// authRateLimitPrefix namespaces the limiter keys for /auth/register and /auth/login.
const authRateLimitPrefix = "tasks:ratelimit:auth:"

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	stores *stores
	redis  *goredis.Client

	jwtService  auth.JWTService
	userService service.UserService
	taskService service.TaskService

	// authLimiter is nil when rate limiting is disabled.
	authLimiter middleware.Limiter
}

// newApplication connects to the backing services and wires the service layer.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.stores, err = openStores(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open stores: %w", err)
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"access_token_lifetime_minutes", cfg.Auth.AccessTokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	passwords := auth.NewBcrypt(cfg.Auth.BcryptCost)
	app.userService = service.NewUserService(
		app.stores.users,
		passwords,
		passwords,
		app.jwtService,
		logger,
	)
	app.taskService = service.NewTaskService(
		app.stores.tasks,
		service.NewPaginator(cfg.Pagination),
		logger,
	)

	if cfg.Redis.URL != "" {
		app.redis, err = redis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.authLimiter = redis.NewSlidingWindowLimiter(
			app.redis,
			cfg.Redis.AuthRequestsPerMinute,
			time.Minute,
			authRateLimitPrefix,
		)
		logger.Info("auth rate limiting enabled",
			"requests_per_minute", cfg.Redis.AuthRequestsPerMinute)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then releases every resource.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if app.stores != nil && app.stores.db != nil {
		if err := app.stores.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
