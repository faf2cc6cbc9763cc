package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/usecase"
)

// DefaultEventDuration is used when a schedule request omits the duration.
const DefaultEventDuration = 60

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the struct tags of a request and reports the first
// failing field as an invalid input.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.Invalid("", "%v", err)
	}
	fe := fieldErrs[0]
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i > 0 {
		field = field[:i]
	}
	switch fe.Tag() {
	case "required":
		return domain.Invalid(field, "is required")
	case "email":
		return domain.Invalid(field, "invalid address %q", fe.Value())
	case "min", "max":
		return domain.Invalid(field, "must be %s %s", map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param())
	default:
		return domain.Invalid(field, "failed %s validation", fe.Tag())
	}
}

// SendEmailRequest represents a request to send an email.
type SendEmailRequest struct {
	To      []string `json:"to" validate:"required,min=1,dive,email"`
	CC      []string `json:"cc,omitempty" validate:"omitempty,dive,email"`
	Subject string   `json:"subject" validate:"required,max=998"`
	Body    string   `json:"body"`
	HTML    bool     `json:"html,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SendEmailRequest) ToUseCaseInput() usecase.SendEmailInput {
	return usecase.SendEmailInput{
		To:      r.To,
		CC:      r.CC,
		Subject: r.Subject,
		Body:    r.Body,
		HTML:    r.HTML,
	}
}

// ScheduleEventRequest represents a request to create a calendar event.
type ScheduleEventRequest struct {
	Summary         string   `json:"summary" validate:"required,max=1024"`
	StartTime       string   `json:"start_time" validate:"required"`
	DurationMinutes int      `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=1440"`
	Attendees       []string `json:"attendees,omitempty" validate:"omitempty,dive,email"`
	Description     string   `json:"description,omitempty"`
	Location        string   `json:"location,omitempty"`
}

// ToUseCaseInput converts to use case input, applying the default duration.
func (r *ScheduleEventRequest) ToUseCaseInput() usecase.ScheduleEventInput {
	duration := r.DurationMinutes
	if duration == 0 {
		duration = DefaultEventDuration
	}
	return usecase.ScheduleEventInput{
		Summary:         r.Summary,
		StartTime:       r.StartTime,
		DurationMinutes: duration,
		Attendees:       r.Attendees,
		Description:     r.Description,
		Location:        r.Location,
	}
}

// LoginRequest exchanges an API key for a bearer token.
type LoginRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}
