// Package telemetry provides logging setup and Prometheus metrics for the console backend.
//
// All metrics are registered against the default Prometheus registry and exposed by the
// side-channel HTTP server that cmd/server starts when telemetry.metrics.enabled is set:
//
//	GET http://<host>:<ORGADMIN_TELEMETRY_METRICS_PROMETHEUS_PORT>/metrics
//
// The endpoint is not served by the gin router.
//
// HTTP metrics are labelled with c.FullPath() (for example /api/organizations/:id/users)
// rather than the raw URL, so numeric ids never become label values.
package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/orgadmin/orgadmin/internal/safego"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics, labelled by method, route template and status code.
//
// Example PromQL queries:
//   - Error rate (%):        sum(rate(http_requests_total{status=~"5.."}[5m])) / sum(rate(http_requests_total[5m])) * 100
//   - p99 latency per route: histogram_quantile(0.99, sum by (path, le) (rate(http_request_duration_seconds_bucket[5m])))
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// Mutation counters, incremented by the admin handlers after a write succeeds.
// The op label is one of create, update, update_status or delete.
var (
	OrganizationMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "organizations_mutations_total",
			Help: "Total number of successful organization writes, by operation.",
		},
		[]string{"op"},
	)

	UserMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "users_mutations_total",
			Help: "Total number of successful user writes, by operation.",
		},
		[]string{"op"},
	)
)

// DBOpenConnections tracks the number of open connections held by the pool.
// It is sampled by StartDBStatsCollector rather than per request.
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector samples pool statistics every interval until ctx is
// cancelled. A tick whose ping fails leaves the gauge at its last value.
func StartDBStatsCollector(ctx context.Context, db *sqlx.DB, interval time.Duration) {
	safego.Go("db-stats-collector", func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := db.PingContext(ctx); err != nil {
					if ctx.Err() != nil {
						return
					}
					slog.Warn("db stats collector: database unreachable, skipping sample", "error", err)
					continue
				}
				DBOpenConnections.Set(float64(db.Stats().OpenConnections))
			}
		}
	})
}
