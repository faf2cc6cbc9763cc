package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
	infraredis "github.com/iho/ledgerlens/internal/infrastructure/redis"
)

// newTestStore connects to an in-memory server the way the server binary
// does and returns the store with its client for direct key inspection.
func newTestStore(t *testing.T, m *metrics.Metrics) (*IdempotencyStore, *redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := infraredis.NewClient(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("failed to connect to miniredis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return NewIdempotencyStore(client, m), client, mr
}
