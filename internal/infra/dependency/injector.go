// Package dependency provides dependency injection for the application.
package dependency

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/spendwise/backend/config"
	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/application/usecase/advice"
	"github.com/spendwise/backend/internal/application/usecase/auth"
	"github.com/spendwise/backend/internal/application/usecase/expense"
	domainerror "github.com/spendwise/backend/internal/domain/error"
	"github.com/spendwise/backend/internal/infra/cache"
	"github.com/spendwise/backend/internal/infra/observability"
	"github.com/spendwise/backend/internal/infra/resilience"
	"github.com/spendwise/backend/internal/infra/server/router"
	"github.com/spendwise/backend/internal/integration/adapters"
	summarycache "github.com/spendwise/backend/internal/integration/cache"
	"github.com/spendwise/backend/internal/integration/entrypoint/controller"
	"github.com/spendwise/backend/internal/integration/entrypoint/middleware"
	"github.com/spendwise/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Redis        *redis.Client
	Metrics      *observability.Metrics
	Router       *router.Router
	RateLimiters []*middleware.RateLimiter
}

// Options carries optional collaborators. Zero values are valid: no Redis
// means no summary cache, and a nil Generator means the Gemini adapter is built
// from config.
type Options struct {
	Redis     *redis.Client
	Metrics   *observability.Metrics
	Generator adapter.AdviceGenerator
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, opts Options) (*Injector, error) {
	loc, err := cfg.Aggregation.Location()
	if err != nil {
		return nil, err
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	expenseRepo := persistence.NewExpenseRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiry)

	var summaryCache adapter.SummaryCache
	if opts.Redis != nil {
		summaryCache = summarycache.NewRedisSummaryCache(opts.Redis, cfg.Redis.SummaryTTL, metrics)
	}

	generator := opts.Generator
	if generator == nil {
		generator = adapters.NewGeminiAdviceGenerator(cfg.Gemini, metrics)
	}
	generator = adapters.NewResilientAdviceGenerator(
		generator,
		resilience.DefaultBreakerSettings(),
		cfg.Gemini.MaxConcurrency,
		metrics,
	)
	if !generator.IsAvailable() {
		slog.Warn("Advice generator not configured, /advice will return 503")
	}

	// Create use cases
	signupUseCase := auth.NewSignupUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUseCase(userRepo, passwordService, tokenService)
	expenseService := expense.NewService(expenseRepo, summaryCache, loc)
	adviceService := advice.NewService(expenseRepo, expenseService, generator, cfg.Aggregation.CurrencySymbol)

	// Create controllers
	var cacheHealthChecker func() bool
	if opts.Redis != nil {
		cacheHealthChecker = func() bool { return cache.HealthCheck(opts.Redis) }
	}
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, cacheHealthChecker).WithCacheHitRatio(func() float64 {
		return metrics.CacheHitRatio(observability.CacheSummaryHistory)
	})

	authController := controller.NewAuthController(signupUseCase, loginUseCase)
	expenseController := controller.NewExpenseController(expenseService, metrics)
	adviceController := controller.NewAdviceController(adviceService)

	// Create middleware
	loginRateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.Window)
	adviceRateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.AdviceMaxAttempts, cfg.RateLimit.Window).
		WithCode(string(domainerror.ErrCodeAdviceRateLimited))
	// Rate limits are lifted in E2E/test environments to prevent flaky tests
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginRateLimiter.Disable()
		adviceRateLimiter.Disable()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		router.Controllers{
			Health:  healthController,
			Auth:    authController,
			Expense: expenseController,
			Advice:  adviceController,
		},
		router.Middlewares{
			Auth:        authMiddleware,
			LoginLimit:  loginRateLimiter,
			AdviceLimit: adviceRateLimiter,
		},
		metrics,
	)

	return &Injector{
		Config:       cfg,
		DB:           db,
		Redis:        opts.Redis,
		Metrics:      metrics,
		Router:       r,
		RateLimiters: []*middleware.RateLimiter{loginRateLimiter, adviceRateLimiter},
	}, nil
}

// ConnectRedis opens the summary cache connection when enabled. A failed
// connection is logged and the API runs without the cache.
func ConnectRedis(cfg *config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		slog.Info("Redis disabled, summary cache off")
		return nil
	}

	client, err := cache.NewRedisClient(cfg)
	if err != nil {
		slog.Warn("Redis connection failed, running without summary cache", "error", err)
		return nil
	}
	return client
}

// Describe returns a one-line summary of the wiring for start-up logs.
func (i *Injector) Describe() string {
	cacheState := "off"
	if i.Redis != nil {
		cacheState = "redis"
	}
	return fmt.Sprintf("db=%s cache=%s timezone=%s", i.Config.Database.Driver, cacheState, i.Config.Aggregation.Timezone)
}
