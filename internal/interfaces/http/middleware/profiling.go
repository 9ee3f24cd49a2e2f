package middleware

import (
	"context"

	"github.com/erp/workbench/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling tags the handler's goroutine with route, method and tenant
// pyroscope labels. Place it after JWT authentication.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		labels := map[string]string{
			telemetry.ProfilingLabelMethod: c.Request.Method,
			telemetry.ProfilingLabelRoute:  c.FullPath(),
		}
		if id, ok := GetJWTTenantID(c); ok {
			labels[telemetry.ProfilingLabelTenantID] = id.String()
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
