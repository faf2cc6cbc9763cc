package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestNewPoolWithConfigDefaults(t *testing.T) {
	ctx := context.Background()

	// using invalid URL should return error
	if _, err := NewPoolWithConfig(ctx, PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := PoolConfig{
		DatabaseURL:  "postgres://invalid:5432/db?connect_timeout=1",
		MaxConns:     1,
		MinConns:     0,
		ConnectRetry: 500 * time.Millisecond,
		Logger:       zerolog.Nop(),
	}

	_, err := NewPoolWithConfig(ctx, cfg)
	if err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}

func TestPingerPublishesConnectionCount(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// pgxpool connects lazily, so the pool starts empty.
	pool, err := pgxpool.New(ctx, "postgres://ledgerlens@127.0.0.1:1/ledgerlens?connect_timeout=1")
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	defer pool.Close()

	conns := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_db_connections"})
	conns.Set(7)

	if err := NewPinger(pool, conns).Ping(ctx); err == nil {
		t.Fatalf("expected ping to fail without a server")
	}
	if got := testutil.ToFloat64(conns); got != 0 {
		t.Fatalf("expected gauge to track the empty pool, got %v", got)
	}
}

func TestMigratorRejectsBadSource(t *testing.T) {
	m := NewMigrator("postgres://invalid:5432/db", t.TempDir()+"/missing", zerolog.Nop())

	if err := m.Up(); err == nil {
		t.Fatalf("expected error for a missing migrations directory")
	}
}
