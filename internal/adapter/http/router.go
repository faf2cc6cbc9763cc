package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/adapter/http/handler"
	"github.com/iho/ledgerlens/internal/adapter/http/middleware"
	"github.com/iho/ledgerlens/internal/infrastructure/auth"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
	"github.com/iho/ledgerlens/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	FinancialHandler     *handler.FinancialHandler
	InventoryHandler     *handler.InventoryHandler
	SalesHandler         *handler.TradeHandler
	PurchaseHandler      *handler.TradeHandler
	OverviewHandler      *handler.OverviewHandler
	ExportHandler        *handler.ExportHandler
	CommunicationHandler *handler.CommunicationHandler
	AuthHandler          *handler.AuthHandler
	HealthHandler        *handler.HealthHandler

	Logger             zerolog.Logger
	Metrics            *metrics.Metrics
	Gatherer           prometheus.Gatherer
	RateLimitPerMinute int

	// JWTManager enables bearer authentication on /api/v1 when set.
	JWTManager *auth.JWTManager

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimitPerMinute > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthHandler != nil {
			r.Post("/auth/token", cfg.AuthHandler.Token)
		}

		r.Group(func(r chi.Router) {
			if cfg.JWTManager != nil {
				r.Use(middleware.Auth(cfg.JWTManager, cfg.Metrics))
			}

			r.Route("/financial", cfg.FinancialHandler.Routes)
			r.Route("/inventory", cfg.InventoryHandler.Routes)
			r.Route("/sales", cfg.SalesHandler.Routes)
			r.Route("/purchase", cfg.PurchaseHandler.Routes)
			r.Route("/overview", cfg.OverviewHandler.Routes)
			r.Route("/export", cfg.ExportHandler.Routes)

			r.Route("/communication", func(r chi.Router) {
				if cfg.JWTManager != nil {
					r.Use(middleware.RequireRole(auth.RoleOperator))
				}
				// Idempotency middleware for mutating requests
				if cfg.IdempotencyStore != nil {
					r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
				}
				cfg.CommunicationHandler.Routes(r)
			})
		})
	})

	return r
}
