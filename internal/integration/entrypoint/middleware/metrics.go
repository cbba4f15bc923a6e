package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/backend/internal/infra/observability"
)

// Metrics records request count and latency per matched route. Unmatched
// paths share one label to bound cardinality.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
