// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spendwise/backend/internal/infra/observability"
	"github.com/spendwise/backend/internal/integration/entrypoint/controller"
	"github.com/spendwise/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine            *gin.Engine
	healthController  *controller.HealthController
	authController    *controller.AuthController
	expenseController *controller.ExpenseController
	adviceController  *controller.AdviceController
	loginRateLimiter  *middleware.RateLimiter
	adviceRateLimiter *middleware.RateLimiter
	authMiddleware    *middleware.AuthMiddleware
	metrics           *observability.Metrics
}

// Controllers groups the HTTP handlers mounted by the router.
type Controllers struct {
	Health  *controller.HealthController
	Auth    *controller.AuthController
	Expense *controller.ExpenseController
	Advice  *controller.AdviceController
}

// Middlewares groups the shared middleware mounted by the router.
type Middlewares struct {
	Auth        *middleware.AuthMiddleware
	LoginLimit  *middleware.RateLimiter
	AdviceLimit *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
// metrics may be nil, in which case /metrics is not mounted.
func NewRouter(controllers Controllers, middlewares Middlewares, metrics *observability.Metrics) *Router {
	return &Router{
		healthController:  controllers.Health,
		authController:    controllers.Auth,
		expenseController: controllers.Expense,
		adviceController:  controllers.Advice,
		loginRateLimiter:  middlewares.LoginLimit,
		adviceRateLimiter: middlewares.AdviceLimit,
		authMiddleware:    middlewares.Auth,
		metrics:           metrics,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	if r.metrics != nil {
		r.engine.Use(middleware.Metrics(r.metrics))
	}

	r.setupOperationalRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// Engine returns the configured engine. Setup must be called first.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupOperationalRoutes configures health and metrics endpoints.
func (r *Router) setupOperationalRoutes() {
	r.engine.GET("/health", r.healthController.Check)

	if r.metrics != nil {
		handler := promhttp.HandlerFor(r.metrics.Registry, promhttp.HandlerOpts{})
		r.engine.GET("/metrics", gin.WrapH(handler))
	}
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	if r.authController != nil {
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", r.authController.Signup)
			auth.POST("/login", limit(r.loginRateLimiter), r.authController.Login)
		}
	}

	if r.authMiddleware == nil {
		return
	}

	if r.expenseController != nil {
		expenses := v1.Group("/expenses")
		expenses.Use(r.authMiddleware.Authenticate())
		{
			expenses.POST("", r.expenseController.Create)
			expenses.GET("", r.expenseController.List)
			expenses.GET("/summary", r.expenseController.MonthSummary)
			expenses.GET("/summary/day", r.expenseController.DaySummary)
			expenses.GET("/summary/range", r.expenseController.RangeSummary)
			expenses.GET("/history", r.expenseController.History)
			expenses.GET("/prediction", r.expenseController.Prediction)
		}
	}

	if r.adviceController != nil {
		advice := v1.Group("/advice")
		advice.Use(r.authMiddleware.Authenticate())
		{
			advice.POST("", limit(r.adviceRateLimiter), r.adviceController.GetAdvice)
			advice.POST("/investment", r.adviceController.GetInvestmentAdvice)
		}
	}
}

// limit returns the limiter middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.Middleware()
}
