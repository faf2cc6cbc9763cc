package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

// CommunicationUseCase sends email through an ordered fallback chain and
// schedules calendar events.
type CommunicationUseCase struct {
	senders  []EmailSender
	calendar CalendarScheduler
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewCommunicationUseCase creates a new CommunicationUseCase. Senders are tried
// in the given order; calendar may be nil when scheduling is not configured.
func NewCommunicationUseCase(senders []EmailSender, calendar CalendarScheduler, m *metrics.Metrics, logger zerolog.Logger) *CommunicationUseCase {
	return &CommunicationUseCase{
		senders:  senders,
		calendar: calendar,
		metrics:  m,
		logger:   logger.With().Str("component", "communication").Logger(),
	}
}

// SendEmailInput represents input for sending an email.
type SendEmailInput struct {
	To      []string
	CC      []string
	Subject string
	Body    string
	HTML    bool
}

// SendEmail delivers the message with the first sender that succeeds. Every
// failed sender is recorded on the receipt.
func (uc *CommunicationUseCase) SendEmail(ctx context.Context, input SendEmailInput) (*domain.DeliveryReceipt, error) {
	msg := &domain.EmailMessage{
		To:      trimAll(input.To),
		CC:      trimAll(input.CC),
		Subject: strings.TrimSpace(input.Subject),
		Body:    input.Body,
		HTML:    input.HTML,
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	uc.logger.Debug().Str("op", "send_email").Strs("to", msg.To).Str("subject", msg.Subject).Send()

	var failed []domain.DeliveryAttempt
	for _, s := range uc.senders {
		receipt, err := s.Deliver(ctx, msg)
		if err != nil {
			uc.logger.Warn().Err(err).Str("method", s.Name()).Msg("email delivery failed, trying next method")
			uc.recordDelivery(s.Name(), "failed")
			failed = append(failed, domain.DeliveryAttempt{Method: s.Name(), Error: err.Error()})
			if ctx.Err() != nil {
				break
			}
			continue
		}
		uc.recordDelivery(s.Name(), "sent")
		receipt.Method = s.Name()
		receipt.Failed = failed
		if receipt.SentAt.IsZero() {
			receipt.SentAt = time.Now().UTC()
		}
		uc.logger.Info().Str("method", s.Name()).Str("id", receipt.ID).Msg("email delivered")
		return receipt, nil
	}

	methods := make([]string, len(failed))
	for i, f := range failed {
		methods[i] = f.Method
	}
	return nil, fmt.Errorf("%w: tried %s", domain.ErrNoDeliveryMethod, strings.Join(methods, ", "))
}

func (uc *CommunicationUseCase) recordDelivery(method, status string) {
	if uc.metrics != nil {
		uc.metrics.EmailDeliveries.WithLabelValues(method, status).Inc()
	}
}

// ScheduleEventInput represents input for scheduling a calendar event.
type ScheduleEventInput struct {
	Summary         string
	StartTime       string
	DurationMinutes int
	Attendees       []string
	Description     string
	Location        string
}

// ScheduleEvent creates a calendar event starting at StartTime (RFC 3339)
// and lasting DurationMinutes.
func (uc *CommunicationUseCase) ScheduleEvent(ctx context.Context, input ScheduleEventInput) (*domain.ScheduledEvent, error) {
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(input.StartTime))
	if err != nil {
		return nil, domain.Invalid("start_time", "must be an RFC 3339 timestamp")
	}
	if input.DurationMinutes <= 0 {
		return nil, domain.Invalid("duration_minutes", "must be positive")
	}
	event := &domain.CalendarEvent{
		Title:       strings.TrimSpace(input.Summary),
		Description: input.Description,
		Location:    input.Location,
		Start:       start,
		End:         start.Add(time.Duration(input.DurationMinutes) * time.Minute),
		Attendees:   trimAll(input.Attendees),
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if uc.calendar == nil {
		return nil, fmt.Errorf("calendar: %w", domain.ErrSenderDisabled)
	}

	uc.logger.Debug().Str("op", "schedule_event").Str("title", event.Title).Time("start", event.Start).Send()

	scheduled, err := uc.calendar.Schedule(ctx, event)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.EventsScheduled.WithLabelValues("failed").Inc()
		}
		return nil, fmt.Errorf("failed to schedule event: %w", err)
	}
	if uc.metrics != nil {
		uc.metrics.EventsScheduled.WithLabelValues("created").Inc()
	}
	return scheduled, nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsDeliveryFailure reports whether err means no delivery method worked.
func IsDeliveryFailure(err error) bool {
	return errors.Is(err, domain.ErrNoDeliveryMethod) || errors.Is(err, domain.ErrSenderDisabled)
}
