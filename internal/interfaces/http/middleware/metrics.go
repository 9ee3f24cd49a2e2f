package middleware

import (
	"time"

	"github.com/erp/workbench/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// HTTPMetrics records one request count and duration per served request.
// Unmatched routes are reported as "unmatched" to keep cardinality bounded.
// A nil metrics value yields a pass-through middleware.
func HTTPMetrics(metrics *telemetry.WorkbenchMetrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
