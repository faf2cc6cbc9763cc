package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Report metrics
	Reports        *prometheus.CounterVec
	ReportDuration *prometheus.HistogramVec
	ExportsWritten *prometheus.CounterVec

	// Communication metrics
	EmailDeliveries *prometheus.CounterVec
	EventsScheduled *prometheus.CounterVec
	DigestRuns      *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBRows        *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisDuration   *prometheus.HistogramVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. Tests pass a fresh
// prometheus.NewRegistry(); binaries pass prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Report metrics
		Reports: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_reports_total",
				Help: "Total reports served by domain, operation and outcome",
			},
			[]string{"domain", "operation", "outcome"},
		),
		ReportDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerlens_report_duration_seconds",
				Help:    "Duration of report operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"domain", "operation"},
		),
		ExportsWritten: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_exports_total",
				Help: "Total spreadsheet exports by report",
			},
			[]string{"report"},
		),

		// Communication metrics
		EmailDeliveries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_email_deliveries_total",
				Help: "Email delivery attempts by method and status",
			},
			[]string{"method", "status"},
		),
		EventsScheduled: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_events_scheduled_total",
				Help: "Calendar events by status",
			},
			[]string{"status"},
		),
		DigestRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_digest_runs_total",
				Help: "Scheduled KPI digest runs by status",
			},
			[]string{"status"},
		),

		// API metrics
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerlens_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerlens_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Database metrics
		DBQueries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerlens_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBRows: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerlens_db_rows_returned",
				Help:    "Rows returned per query",
				Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
			},
			[]string{"table"},
		),
		DBConnections: f.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerlens_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerlens_redis_duration_seconds",
				Help:    "Redis operation duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		RedisErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_rate_limit_hits_total",
				Help: "Total rate limit hits by API area",
			},
			[]string{"area"},
		),
	}
}
