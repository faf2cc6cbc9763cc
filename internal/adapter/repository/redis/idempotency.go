package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

// PendingMarker is stored while the first request for a key is in flight.
const PendingMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client  redis.UniversalClient
	prefix  string
	metrics *metrics.Metrics
}

// NewIdempotencyStore creates a new IdempotencyStore. m may be nil.
func NewIdempotencyStore(client redis.UniversalClient, m *metrics.Metrics) *IdempotencyStore {
	return &IdempotencyStore{
		client:  client,
		prefix:  "ledgerlens:idempotency:",
		metrics: m,
	}
}

// CheckAndSet claims key with response, or with PendingMarker when response
// is nil. When the key is already claimed it returns the stored value.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (exists bool, existing []byte, err error) {
	defer s.observe("check_and_set", time.Now(), &err)

	fullKey := s.prefix + key
	value := response
	if value == nil {
		value = []byte(PendingMarker)
	}

	set, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	existing, err = s.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; the caller may retry.
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	return true, existing, nil
}

// Update updates an existing idempotency key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) (err error) {
	defer s.observe("update", time.Now(), &err)

	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}

// Release drops a claim so that a failed request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) (err error) {
	defer s.observe("release", time.Now(), &err)

	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *IdempotencyStore) observe(op string, start time.Time, err *error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RedisOperations.WithLabelValues(op).Inc()
	s.metrics.RedisDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if *err != nil {
		s.metrics.RedisErrors.WithLabelValues(op).Inc()
	}
}
