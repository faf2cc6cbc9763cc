package domain

import (
	"errors"
	"fmt"
)

// Outcome categories. Every error returned by the use cases matches exactly
// one of these with errors.Is.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrNoData          = errors.New("no data")
	ErrDataUnavailable = errors.New("data unavailable")
)

// Communication errors
var (
	ErrNoDeliveryMethod = errors.New("no delivery method succeeded")
	ErrSenderDisabled   = errors.New("delivery method not configured")
)

// InvalidInputError is returned before any data access when a parameter is malformed.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid builds an InvalidInputError.
func Invalid(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError is returned when a name fragment resolves to nothing.
type NotFoundError struct {
	Kind     EntityKind
	Fragment string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Fragment)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NoDataError means the query was valid but matched no transactions.
// Params echoes the query parameters back for diagnostics.
type NoDataError struct {
	Message string
	Params  map[string]any
}

func (e *NoDataError) Error() string { return e.Message }

func (e *NoDataError) Is(target error) bool { return target == ErrNoData }

// NoData builds a NoDataError.
func NoData(params map[string]any, format string, args ...any) error {
	return &NoDataError{Message: fmt.Sprintf(format, args...), Params: params}
}

// DataUnavailableError wraps a store failure.
type DataUnavailableError struct {
	Op  string
	Err error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

func (e *DataUnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

// Unavailable wraps err as a DataUnavailableError unless it already carries
// an outcome category.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDataUnavailable) || errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoData) {
		return err
	}
	return &DataUnavailableError{Op: op, Err: err}
}
