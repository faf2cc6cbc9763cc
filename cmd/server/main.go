package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/ledgerlens/internal/adapter/http"
	"github.com/iho/ledgerlens/internal/adapter/http/handler"
	"github.com/iho/ledgerlens/internal/adapter/notifier"
	postgresRepo "github.com/iho/ledgerlens/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/ledgerlens/internal/adapter/repository/redis"
	"github.com/iho/ledgerlens/internal/adapter/scheduler"
	"github.com/iho/ledgerlens/internal/infrastructure/auth"
	"github.com/iho/ledgerlens/internal/infrastructure/config"
	"github.com/iho/ledgerlens/internal/infrastructure/logger"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
	"github.com/iho/ledgerlens/internal/infrastructure/postgres"
	"github.com/iho/ledgerlens/internal/infrastructure/redis"
	"github.com/iho/ledgerlens/internal/usecase"
)

const digestTimeout = 2 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(cfg *config.Config) error {
	ctx := context.Background()
	m := metrics.New(prometheus.DefaultRegisterer)

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:      cfg.DatabaseURL,
		MaxConns:         cfg.DatabaseMaxConns,
		MinConns:         cfg.DatabaseMinConns,
		ConnectRetry:     cfg.DatabaseConnectRetry,
		StatementTimeout: cfg.DatabaseTimeout,
		Logger:           log.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Initialize repositories
	ledgerRepo := postgresRepo.NewLedgerRepository(pool, m)
	voucherRepo := postgresRepo.NewVoucherRepository(pool, m)
	entryRepo := postgresRepo.NewEntryRepository(pool, m)
	inventoryRepo := postgresRepo.NewInventoryRepository(pool, m)
	stockItemRepo := postgresRepo.NewStockItemRepository(pool, m)
	godownRepo := postgresRepo.NewGodownRepository(pool, m)

	// Initialize use cases
	resolver := usecase.NewResolver(ledgerRepo, stockItemRepo, godownRepo, voucherRepo)
	financialUC := usecase.NewFinancialUseCase(ledgerRepo, voucherRepo, entryRepo, resolver, log.Logger)
	inventoryUC := usecase.NewInventoryUseCase(godownRepo, inventoryRepo, resolver, log.Logger)
	salesUC := usecase.NewSalesUseCase(entryRepo, inventoryRepo, log.Logger)
	purchaseUC := usecase.NewPurchaseUseCase(entryRepo, inventoryRepo, log.Logger)
	overviewUC := usecase.NewOverviewUseCase(entryRepo, inventoryRepo, log.Logger)
	commsUC := usecase.NewCommunicationUseCase(
		emailSenders(ctx, cfg, log.Logger),
		calendar(ctx, cfg, log.Logger),
		m,
		log.Logger,
	)

	routerCfg := httpAdapter.RouterConfig{
		FinancialHandler:     handler.NewFinancialHandler(financialUC, cfg.Currency, m),
		InventoryHandler:     handler.NewInventoryHandler(inventoryUC, cfg.Currency, m),
		SalesHandler:         handler.NewSalesHandler(salesUC, cfg.Currency, m),
		PurchaseHandler:      handler.NewPurchaseHandler(purchaseUC, cfg.Currency, m),
		OverviewHandler:      handler.NewOverviewHandler(overviewUC, cfg.Currency, m),
		ExportHandler:        handler.NewExportHandler(handler.NewExportSources(financialUC, inventoryUC, salesUC, purchaseUC, overviewUC), m),
		CommunicationHandler: handler.NewCommunicationHandler(commsUC),
		Logger:               log.Logger,
		Metrics:              m,
		Gatherer:             prometheus.DefaultGatherer,
		RateLimitPerMinute:   cfg.RateLimitPerMinute,
		IdempotencyTTL:       cfg.IdempotencyTTL,
	}

	// Redis is optional; without it communication requests are not deduplicated.
	var cache handler.Pinger
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient, m)
		cache = handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}
	routerCfg.HealthHandler = handler.NewHealthHandler(postgres.NewPinger(pool, m.DBConnections), cache)

	if cfg.AuthEnabled {
		jwtManager, keys, err := authentication(cfg)
		if err != nil {
			return err
		}
		routerCfg.JWTManager = jwtManager
		routerCfg.AuthHandler = handler.NewAuthHandler(keys, jwtManager, m)
		log.Info().Int("api_keys", keys.Len()).Msg("authentication enabled")
	}

	// Scheduled KPI digest
	var digest *scheduler.DigestJob
	if cfg.DigestCron != "" {
		digestUC := usecase.NewDigestUseCase(overviewUC, commsUC, cfg.DigestRecipients, cfg.DigestWindow, cfg.Currency, log.Logger)
		digest = scheduler.NewDigestJob(digestUC, digestTimeout, m, log.Logger)
		if err := digest.Start(cfg.DigestCron); err != nil {
			return err
		}
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if digest != nil {
		digest.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// emailSenders builds the delivery fallback chain: Gmail API, SMTP, then the
// outbox directory. A method that is not configured is left out.
func emailSenders(ctx context.Context, cfg *config.Config, logger zerolog.Logger) []usecase.EmailSender {
	ids := notifier.ULIDGenerator{}
	var senders []usecase.EmailSender

	if cfg.GmailCredentialsFile != "" {
		gmail, err := notifier.NewGmailSender(ctx, cfg.GmailCredentialsFile, cfg.GmailSender, ids)
		if err != nil {
			logger.Warn().Err(err).Msg("gmail delivery disabled")
		} else {
			senders = append(senders, gmail)
		}
	}
	if cfg.SMTPConfigured() {
		senders = append(senders, notifier.NewSMTPSender(notifier.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			UseTLS:   cfg.SMTPUseTLS,
		}, ids))
	}
	if cfg.EmailOutboxDir != "" {
		senders = append(senders, notifier.NewFileSender(cfg.EmailOutboxDir, cfg.SMTPFrom, ids))
	}

	names := make([]string, len(senders))
	for i, s := range senders {
		names[i] = s.Name()
	}
	logger.Info().Strs("methods", names).Msg("email delivery chain")
	return senders
}

// calendar returns nil when no calendar credentials are configured.
func calendar(ctx context.Context, cfg *config.Config, logger zerolog.Logger) usecase.CalendarScheduler {
	if cfg.CalendarCredentialsFile == "" {
		return nil
	}
	c, err := notifier.NewCalendarScheduler(ctx, cfg.CalendarCredentialsFile, cfg.CalendarID)
	if err != nil {
		logger.Warn().Err(err).Msg("calendar scheduling disabled")
		return nil
	}
	return c
}

func authentication(cfg *config.Config) (*auth.JWTManager, *auth.KeyRing, error) {
	if cfg.JWTSecret == "" {
		return nil, nil, errors.New("AUTH_ENABLED requires JWT_SECRET")
	}
	keys, err := auth.ParseKeyRing(cfg.APIKeys)
	if err != nil {
		return nil, nil, err
	}
	if keys.Len() == 0 {
		return nil, nil, errors.New("AUTH_ENABLED requires at least one API_KEYS entry")
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration), keys, nil
}
