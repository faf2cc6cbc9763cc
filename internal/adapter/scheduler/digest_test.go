package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerlens/internal/adapter/scheduler"
	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

type stubDigest struct {
	err      error
	calls    int
	deadline bool
}

func (s *stubDigest) Send(ctx context.Context) (*domain.DeliveryReceipt, error) {
	s.calls++
	_, s.deadline = ctx.Deadline()
	if s.err != nil {
		return nil, s.err
	}
	return &domain.DeliveryReceipt{ID: "01DIGEST", Method: "file"}, nil
}

func TestDigestJob_Run(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	ok := &stubDigest{}
	job := scheduler.NewDigestJob(ok, time.Minute, m, zerolog.Nop())

	job.Run(context.Background())
	assert.Equal(t, 1, ok.calls)
	assert.True(t, ok.deadline, "run must be bounded by the job timeout")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DigestRuns.WithLabelValues("sent")))

	failing := &stubDigest{err: domain.ErrNoDeliveryMethod}
	scheduler.NewDigestJob(failing, 0, m, zerolog.Nop()).Run(context.Background())
	assert.False(t, failing.deadline)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DigestRuns.WithLabelValues("failed")))
}

func TestDigestJob_Start(t *testing.T) {
	job := scheduler.NewDigestJob(&stubDigest{}, 0, nil, zerolog.Nop())

	err := job.Start("not a schedule")
	require.Error(t, err)

	require.NoError(t, job.Start("0 7 * * *"))
	defer job.Stop(context.Background())

	next := job.Next().UTC()
	assert.Equal(t, 7, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))
}

func TestDigestJob_StopHonoursContext(t *testing.T) {
	job := scheduler.NewDigestJob(&stubDigest{err: errors.New("boom")}, 0, nil, zerolog.Nop())
	require.NoError(t, job.Start("@daily"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job.Stop(ctx)
}
