package notifier

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/iho/ledgerlens/internal/domain"
)

// CalendarScheduler creates events through the Google Calendar API.
type CalendarScheduler struct {
	svc        *calendar.Service
	calendarID string
}

// NewCalendarScheduler creates a scheduler on calendarID ("primary" when empty).
func NewCalendarScheduler(ctx context.Context, credentialsFile, calendarID string, opts ...option.ClientOption) (*CalendarScheduler, error) {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile), option.WithScopes(calendar.CalendarEventsScope))
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &CalendarScheduler{svc: svc, calendarID: calendarID}, nil
}

// Schedule implements usecase.CalendarScheduler. Attendees are notified.
func (c *CalendarScheduler) Schedule(ctx context.Context, event *domain.CalendarEvent) (*domain.ScheduledEvent, error) {
	ev := &calendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Location,
		Start:       &calendar.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: event.End.Format(time.RFC3339)},
	}
	for _, a := range event.Attendees {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: a})
	}

	created, err := c.svc.Events.Insert(c.calendarID, ev).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	return &domain.ScheduledEvent{ID: created.Id, Link: created.HtmlLink}, nil
}
