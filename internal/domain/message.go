package domain

import (
	"net/mail"
	"strings"
	"time"
)

// EmailMessage is an outbound email composed by a caller or the digest job.
type EmailMessage struct {
	To      []string
	CC      []string
	Subject string
	Body    string
	HTML    bool
}

// Validate checks recipients and subject.
func (m *EmailMessage) Validate() error {
	if len(m.To) == 0 {
		return Invalid("to", "at least one recipient is required")
	}
	for _, addr := range append(append([]string{}, m.To...), m.CC...) {
		if _, err := mail.ParseAddress(strings.TrimSpace(addr)); err != nil {
			return Invalid("to", "invalid address %q", addr)
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return Invalid("subject", "cannot be empty")
	}
	return nil
}

// DeliveryAttempt records one strategy that was tried and failed.
type DeliveryAttempt struct {
	Method string
	Error  string
}

// DeliveryReceipt reports how a message was finally delivered.
type DeliveryReceipt struct {
	ID       string
	Method   string
	Location string
	SentAt   time.Time
	Failed   []DeliveryAttempt
}

// CalendarEvent is an event to be created in the external calendar.
type CalendarEvent struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// Validate checks the title and time window.
func (e *CalendarEvent) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return Invalid("title", "cannot be empty")
	}
	if e.Start.IsZero() {
		return Invalid("start", "is required")
	}
	if !e.End.After(e.Start) {
		return Invalid("end", "must be after start")
	}
	for _, a := range e.Attendees {
		if _, err := mail.ParseAddress(strings.TrimSpace(a)); err != nil {
			return Invalid("attendees", "invalid address %q", a)
		}
	}
	return nil
}

// ScheduledEvent is the calendar's view of a created event.
type ScheduledEvent struct {
	ID   string
	Link string
}
