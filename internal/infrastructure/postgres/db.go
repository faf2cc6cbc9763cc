package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// PoolConfig configures the connection pool.
type PoolConfig struct {
	DatabaseURL string
	MaxConns    int
	MinConns    int
	// ConnectRetry bounds how long the initial ping is retried. Zero pings once.
	ConnectRetry time.Duration
	// StatementTimeout is set as the server-side statement_timeout. Zero keeps the server default.
	StatementTimeout time.Duration
	Logger           zerolog.Logger
}

// NewPool creates a new PostgreSQL connection pool.
func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int) (*pgxpool.Pool, error) {
	return NewPoolWithConfig(ctx, PoolConfig{DatabaseURL: databaseURL, MaxConns: maxConns, MinConns: minConns})
}

// NewPoolWithConfig creates a pool and waits for the database to answer a ping.
// Only the startup ping is retried; queries issued later never are.
func NewPoolWithConfig(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		config.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns >= 0 {
		config.MinConns = int32(cfg.MinConns)
	}
	if cfg.StatementTimeout > 0 {
		config.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := ping(ctx, pool, cfg); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

func ping(ctx context.Context, pool *pgxpool.Pool, cfg PoolConfig) error {
	if cfg.ConnectRetry <= 0 {
		return pool.Ping(ctx)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = cfg.ConnectRetry

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := pool.Ping(ctx)
		if err != nil {
			cfg.Logger.Warn().Err(err).Int("attempt", attempt).Msg("database not reachable, retrying")
		}
		return err
	}, backoff.WithContext(b, ctx))
}

// Pinger checks the pool for readiness and publishes its open connection
// count on every check.
type Pinger struct {
	pool  *pgxpool.Pool
	conns prometheus.Gauge
}

// NewPinger creates a Pinger. conns may be nil.
func NewPinger(pool *pgxpool.Pool, conns prometheus.Gauge) *Pinger {
	return &Pinger{pool: pool, conns: conns}
}

// Ping records the pool size and pings the database.
func (p *Pinger) Ping(ctx context.Context) error {
	if p.conns != nil {
		p.conns.Set(float64(p.pool.Stat().TotalConns()))
	}
	return p.pool.Ping(ctx)
}
