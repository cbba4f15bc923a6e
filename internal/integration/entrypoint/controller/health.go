package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker    func() bool
	cacheHealthChecker func() bool
	cacheHitRatio      func() float64
}

// HealthResponse represents the health check response. CacheHitRatio is the
// summary cache's hits over lookups since start-up.
type HealthResponse struct {
	Status        string  `json:"status"`
	Database      string  `json:"database"`
	Cache         string  `json:"cache"`
	CacheHitRatio float64 `json:"cacheHitRatio"`
	Timestamp     string  `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
// A nil cacheHealthChecker reports the cache as disabled.
func NewHealthController(dbHealthChecker, cacheHealthChecker func() bool) *HealthController {
	return &HealthController{
		dbHealthChecker:    dbHealthChecker,
		cacheHealthChecker: cacheHealthChecker,
	}
}

// WithCacheHitRatio reports ratio in the health response while the cache is enabled.
func (h *HealthController) WithCacheHitRatio(ratio func() float64) *HealthController {
	h.cacheHitRatio = ratio
	return h
}

// Check handles GET /health requests.
// The API reports "ok" while the database is reachable; the cache is optional.
func (h *HealthController) Check(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	dbStatus := "disconnected"
	if h.dbHealthChecker != nil && h.dbHealthChecker() {
		dbStatus = "connected"
	} else {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	cacheStatus := "disabled"
	var hitRatio float64
	if h.cacheHealthChecker != nil {
		cacheStatus = "disconnected"
		if h.cacheHealthChecker() {
			cacheStatus = "connected"
		}
		if h.cacheHitRatio != nil {
			hitRatio = h.cacheHitRatio()
		}
	}

	c.JSON(code, HealthResponse{
		Status:        status,
		Database:      dbStatus,
		Cache:         cacheStatus,
		CacheHitRatio: hitRatio,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}
