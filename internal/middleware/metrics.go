// Package middleware provides the gin middleware shared by every route of the console API.
// internal/api/router.go registers all of it ahead of the handlers.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orgadmin/orgadmin/internal/telemetry"
)

// noRoutePath labels requests that matched no route (404/405).
const noRoutePath = "<no-route>"

// MetricsMiddleware records http_requests_total and http_request_duration_seconds
// for every request. The path label is the matched route template from
// c.FullPath(), so /api/organizations/7 and /api/organizations/8 share a series.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = noRoutePath
		}
		method := c.Request.Method

		telemetry.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		telemetry.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
