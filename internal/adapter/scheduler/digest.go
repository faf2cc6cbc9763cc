// Package scheduler runs the periodic KPI digest.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

// DigestSender builds and delivers one digest.
type DigestSender interface {
	Send(ctx context.Context) (*domain.DeliveryReceipt, error)
}

// DigestJob sends the KPI digest on a cron schedule.
type DigestJob struct {
	cron    *cron.Cron
	sender  DigestSender
	timeout time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
	entryID cron.EntryID
}

// NewDigestJob creates a DigestJob. m may be nil.
func NewDigestJob(sender DigestSender, timeout time.Duration, m *metrics.Metrics, logger zerolog.Logger) *DigestJob {
	return &DigestJob{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		sender:  sender,
		timeout: timeout,
		metrics: m,
		logger:  logger.With().Str("component", "digest_job").Logger(),
	}
}

// Start schedules the digest with a standard five-field cron spec and
// starts the scheduler.
func (j *DigestJob) Start(spec string) error {
	id, err := j.cron.AddFunc(spec, func() { j.Run(context.Background()) })
	if err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	j.entryID = id
	j.cron.Start()

	j.logger.Info().Str("schedule", spec).Time("next", j.Next()).Msg("digest scheduler started")
	return nil
}

// Next is the next scheduled run, zero before Start.
func (j *DigestJob) Next() time.Time {
	return j.cron.Entry(j.entryID).Next
}

// Stop stops scheduling and waits for a running digest to finish or ctx to end.
func (j *DigestJob) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	j.logger.Info().Msg("digest scheduler stopped")
}

// Run sends one digest. Failures are logged and counted, never panicked.
func (j *DigestJob) Run(ctx context.Context) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	receipt, err := j.sender.Send(ctx)
	if err != nil {
		j.record("failed")
		j.logger.Error().Err(err).Msg("digest delivery failed")
		return
	}
	j.record("sent")
	j.logger.Info().Str("method", receipt.Method).Str("id", receipt.ID).Msg("digest delivered")
}

func (j *DigestJob) record(status string) {
	if j.metrics != nil {
		j.metrics.DigestRuns.WithLabelValues(status).Inc()
	}
}
