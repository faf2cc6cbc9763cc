package dto

import (
	"errors"

	"github.com/iho/ledgerlens/internal/domain"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusNoData  = "no_data"
	StatusError   = "error"
)

// Error kinds reported with StatusError.
const (
	KindInvalidInput    = "invalid_input"
	KindNotFound        = "not_found"
	KindDataUnavailable = "data_unavailable"
	KindDeliveryFailed  = "delivery_failed"
	KindUnauthorized    = "unauthorized"
	KindForbidden       = "forbidden"
	KindConflict        = "conflict"
	KindRateLimited     = "rate_limited"
	KindInternal        = "internal"
)

// Envelope is the outcome of every API call. Data is set only on success.
type Envelope struct {
	Status    string         `json:"status"`
	Message   string         `json:"message,omitempty"`
	ErrorKind string         `json:"error_kind,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	Currency  string         `json:"currency,omitempty"`
	Data      any            `json:"data,omitempty"`
}

// Success wraps a report.
func Success(data any, currency string) Envelope {
	return Envelope{Status: StatusSuccess, Currency: currency, Data: data}
}

// Failure is an error envelope for conditions raised outside the use cases.
func Failure(kind, message string) Envelope {
	return Envelope{Status: StatusError, ErrorKind: kind, Message: message}
}

// FromError classifies err into a no_data or error envelope. Unclassified
// errors are reported as internal without their text.
func FromError(err error) Envelope {
	var noData *domain.NoDataError
	if errors.As(err, &noData) {
		return Envelope{Status: StatusNoData, Message: noData.Message, Params: noData.Params}
	}

	env := Envelope{Status: StatusError, Message: err.Error()}
	var invalid *domain.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		env.ErrorKind = KindInvalidInput
		if invalid.Field != "" {
			env.Params = map[string]any{"field": invalid.Field}
		}
	case errors.Is(err, domain.ErrInvalidInput):
		env.ErrorKind = KindInvalidInput
	case errors.Is(err, domain.ErrNotFound):
		env.ErrorKind = KindNotFound
	case errors.Is(err, domain.ErrDataUnavailable):
		env.ErrorKind = KindDataUnavailable
		env.Message = "data store unavailable"
	case errors.Is(err, domain.ErrNoDeliveryMethod), errors.Is(err, domain.ErrSenderDisabled):
		env.ErrorKind = KindDeliveryFailed
	default:
		env.ErrorKind = KindInternal
		env.Message = "internal error"
	}
	return env
}
