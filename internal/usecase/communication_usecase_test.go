package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
	"github.com/iho/ledgerlens/internal/usecase"
	"github.com/iho/ledgerlens/internal/usecase/mocks"
)

func newComms(senders []usecase.EmailSender, cal usecase.CalendarScheduler) (*usecase.CommunicationUseCase, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	return usecase.NewCommunicationUseCase(senders, cal, m, zerolog.Nop()), m
}

func TestCommunicationUseCase_SendEmailFallsBack(t *testing.T) {
	gmail := mocks.NewSender("gmail", domain.ErrSenderDisabled)
	smtp := mocks.NewSender("smtp", errors.New("connection refused"))
	file := mocks.NewSender("file", nil)
	uc, m := newComms([]usecase.EmailSender{gmail, smtp, file}, nil)

	receipt, err := uc.SendEmail(context.Background(), usecase.SendEmailInput{
		To:      []string{" ops@example.com "},
		Subject: "Monthly close",
		Body:    "done",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if receipt.Method != "file" || receipt.SentAt.IsZero() {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
	if len(receipt.Failed) != 2 || receipt.Failed[0].Method != "gmail" || receipt.Failed[1].Method != "smtp" {
		t.Fatalf("expected gmail then smtp recorded as failed, got %+v", receipt.Failed)
	}
	if !strings.Contains(receipt.Failed[1].Error, "connection refused") {
		t.Fatalf("expected smtp error kept, got %q", receipt.Failed[1].Error)
	}
	if len(file.Delivered) != 1 || file.Delivered[0].To[0] != "ops@example.com" {
		t.Fatalf("expected trimmed recipient delivered, got %+v", file.Delivered)
	}

	if got := testutil.ToFloat64(m.EmailDeliveries.WithLabelValues("gmail", "failed")); got != 1 {
		t.Errorf("expected one failed gmail delivery, got %v", got)
	}
	if got := testutil.ToFloat64(m.EmailDeliveries.WithLabelValues("file", "sent")); got != 1 {
		t.Errorf("expected one file delivery, got %v", got)
	}
}

func TestCommunicationUseCase_SendEmailAllFail(t *testing.T) {
	uc, _ := newComms([]usecase.EmailSender{
		mocks.NewSender("gmail", domain.ErrSenderDisabled),
		mocks.NewSender("smtp", domain.ErrSenderDisabled),
	}, nil)

	_, err := uc.SendEmail(context.Background(), usecase.SendEmailInput{To: []string{"a@example.com"}, Subject: "x"})
	if !errors.Is(err, domain.ErrNoDeliveryMethod) || !usecase.IsDeliveryFailure(err) {
		t.Fatalf("expected no delivery method, got %v", err)
	}
	if !strings.Contains(err.Error(), "gmail, smtp") {
		t.Fatalf("expected tried methods in error, got %q", err)
	}

	empty, _ := newComms(nil, nil)
	if _, err := empty.SendEmail(context.Background(), usecase.SendEmailInput{To: []string{"a@example.com"}, Subject: "x"}); !errors.Is(err, domain.ErrNoDeliveryMethod) {
		t.Fatalf("expected no delivery method without senders, got %v", err)
	}
}

func TestCommunicationUseCase_SendEmailValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No expectations: an invalid message must never reach a sender.
	sender := mocks.NewMockEmailSender(ctrl)
	uc, _ := newComms([]usecase.EmailSender{sender}, nil)

	tests := []struct {
		name  string
		input usecase.SendEmailInput
	}{
		{name: "no recipients", input: usecase.SendEmailInput{Subject: "x"}},
		{name: "blank recipients", input: usecase.SendEmailInput{To: []string{" ", ""}, Subject: "x"}},
		{name: "bad address", input: usecase.SendEmailInput{To: []string{"not-an-address"}, Subject: "x"}},
		{name: "bad cc", input: usecase.SendEmailInput{To: []string{"a@example.com"}, CC: []string{"@@"}, Subject: "x"}},
		{name: "no subject", input: usecase.SendEmailInput{To: []string{"a@example.com"}, Subject: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.SendEmail(context.Background(), tt.input); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestCommunicationUseCase_ScheduleEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	cal := mocks.NewMockCalendarScheduler(ctrl)
	uc, m := newComms(nil, cal)

	start := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	cal.EXPECT().
		Schedule(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *domain.CalendarEvent) (*domain.ScheduledEvent, error) {
			if !e.Start.Equal(start) || !e.End.Equal(start.Add(45*time.Minute)) {
				t.Errorf("unexpected event times %s..%s", e.Start, e.End)
			}
			if len(e.Attendees) != 1 || e.Attendees[0] != "cfo@example.com" {
				t.Errorf("unexpected attendees %v", e.Attendees)
			}
			return &domain.ScheduledEvent{ID: "ev-1", Link: "https://calendar.example.com/ev-1"}, nil
		})

	ev, err := uc.ScheduleEvent(context.Background(), usecase.ScheduleEventInput{
		Summary:         "Quarter review",
		StartTime:       "2024-03-04T10:00:00Z",
		DurationMinutes: 45,
		Attendees:       []string{"cfo@example.com", " "},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.ID != "ev-1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if got := testutil.ToFloat64(m.EventsScheduled.WithLabelValues("created")); got != 1 {
		t.Fatalf("expected one created event, got %v", got)
	}
}

func TestCommunicationUseCase_ScheduleEventErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	cal := mocks.NewMockCalendarScheduler(ctrl)
	cal.EXPECT().Schedule(gomock.Any(), gomock.Any()).Return(nil, errors.New("quota exceeded"))
	uc, m := newComms(nil, cal)

	valid := usecase.ScheduleEventInput{Summary: "Sync", StartTime: "2024-03-04T10:00:00+05:30", DurationMinutes: 30}

	tests := []struct {
		name   string
		mutate func(in *usecase.ScheduleEventInput)
		err    error
	}{
		{name: "bad start", mutate: func(in *usecase.ScheduleEventInput) { in.StartTime = "2024-03-04 10:00" }, err: domain.ErrInvalidInput},
		{name: "zero duration", mutate: func(in *usecase.ScheduleEventInput) { in.DurationMinutes = 0 }, err: domain.ErrInvalidInput},
		{name: "no summary", mutate: func(in *usecase.ScheduleEventInput) { in.Summary = "" }, err: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if _, err := uc.ScheduleEvent(context.Background(), in); !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}

	if _, err := uc.ScheduleEvent(context.Background(), valid); err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected calendar error wrapped, got %v", err)
	}
	if got := testutil.ToFloat64(m.EventsScheduled.WithLabelValues("failed")); got != 1 {
		t.Fatalf("expected one failed event, got %v", got)
	}

	noCal, _ := newComms(nil, nil)
	if _, err := noCal.ScheduleEvent(context.Background(), valid); !errors.Is(err, domain.ErrSenderDisabled) {
		t.Fatalf("expected calendar disabled, got %v", err)
	}
}

func TestDigestUseCase_Send(t *testing.T) {
	file := mocks.NewSender("file", nil)
	comms, _ := newComms([]usecase.EmailSender{file}, nil)
	digest := usecase.NewDigestUseCase(newOverview(tradeBook()), comms, []string{"owner@example.com"}, 30*24*time.Hour, "INR", zerolog.Nop())
	digest.SetNow(fixedNow("2024-03-01"))

	receipt, err := digest.Send(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.Method != "file" || len(file.Delivered) != 1 {
		t.Fatalf("expected one file delivery, got %+v", receipt)
	}

	msg := file.Delivered[0]
	if msg.Subject != "KPI digest 2024-01-31 to 2024-03-01" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"Sales revenue:", "INR 350.00", "Active customers:", "Cash outflows:"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("expected %q in digest body:\n%s", want, msg.Body)
		}
	}
}

func TestDigestUseCase_SendWithoutActivity(t *testing.T) {
	file := mocks.NewSender("file", nil)
	comms, _ := newComms([]usecase.EmailSender{file}, nil)
	digest := usecase.NewDigestUseCase(newOverview(mocks.NewBook()), comms, []string{"owner@example.com"}, 7*24*time.Hour, "INR", zerolog.Nop())
	digest.SetNow(fixedNow("2024-03-08"))

	if _, err := digest.Send(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body := file.Delivered[0].Body; !strings.HasPrefix(body, "No activity was recorded for 2024-03-01 to 2024-03-08") {
		t.Fatalf("unexpected notice %q", body)
	}

	failing := tradeBook()
	failing.Err = errors.New("pool closed")
	broken := usecase.NewDigestUseCase(newOverview(failing), comms, []string{"owner@example.com"}, 7*24*time.Hour, "INR", zerolog.Nop())
	if _, err := broken.Send(context.Background()); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected data unavailable, got %v", err)
	}
}
