package middleware

import (
	"time"

	"github.com/exonyb/backoffice/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// HTTPMetrics records request count, latency and in-flight requests.
// A nil recorder disables it.
func HTTPMetrics(metrics *telemetry.HTTPMetrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		method := c.Request.Method
		metrics.Begin(ctx, method)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.End(ctx, method, route, c.Writer.Status(), time.Since(start))
	}
}
