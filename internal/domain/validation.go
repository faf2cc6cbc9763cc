package domain

import (
	"strings"
	"time"
)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// Validation constants
const (
	MaxFragmentLength = 255
	MaxLimit          = 1000
)

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, Invalid(field, "invalid date format %q, use YYYY-MM-DD", value)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange is an inclusive window. A zero bound means unbounded on that side.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange parses optional bounds and rejects start after end.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	var err error

	if strings.TrimSpace(from) != "" {
		if r.From, err = ParseDate("start_date", from); err != nil {
			return DateRange{}, err
		}
	}
	if strings.TrimSpace(to) != "" {
		if r.To, err = ParseDate("end_date", to); err != nil {
			return DateRange{}, err
		}
	}
	if r.HasFrom() && r.HasTo() && r.From.After(r.To) {
		return DateRange{}, Invalid("start_date", "start date cannot be after end date")
	}

	return r, nil
}

// ParseBoundedRange parses a window where both bounds are required.
func ParseBoundedRange(from, to string) (DateRange, error) {
	if strings.TrimSpace(from) == "" {
		return DateRange{}, Invalid("start_date", "start date is required")
	}
	if strings.TrimSpace(to) == "" {
		return DateRange{}, Invalid("end_date", "end date is required")
	}
	return ParseDateRange(from, to)
}

// HasFrom reports whether the lower bound is set.
func (r DateRange) HasFrom() bool { return !r.From.IsZero() }

// HasTo reports whether the upper bound is set.
func (r DateRange) HasTo() bool { return !r.To.IsZero() }

// Bounded reports whether both bounds are set.
func (r DateRange) Bounded() bool { return r.HasFrom() && r.HasTo() }

// Contains reports whether t falls inside the window, comparing calendar days.
func (r DateRange) Contains(t time.Time) bool {
	d := truncateDay(t)
	if r.HasFrom() && d.Before(truncateDay(r.From)) {
		return false
	}
	if r.HasTo() && d.After(truncateDay(r.To)) {
		return false
	}
	return true
}

// Params renders the bounds for diagnostics.
func (r DateRange) Params() map[string]any {
	p := map[string]any{}
	if r.HasFrom() {
		p["start_date"] = FormatDate(r.From)
	}
	if r.HasTo() {
		p["end_date"] = FormatDate(r.To)
	}
	return p
}

// String renders "from to to", using "beginning"/"latest" for open bounds.
func (r DateRange) String() string {
	from, to := "beginning", "latest"
	if r.HasFrom() {
		from = FormatDate(r.From)
	}
	if r.HasTo() {
		to = FormatDate(r.To)
	}
	return from + " to " + to
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateFragment checks a free-text name fragment.
func ValidateFragment(field, fragment string, required bool) (string, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		if required {
			return "", Invalid(field, "cannot be empty")
		}
		return "", nil
	}
	if len(fragment) > MaxFragmentLength {
		return "", Invalid(field, "exceeds %d characters", MaxFragmentLength)
	}
	return fragment, nil
}

// ValidateLimit applies a default to zero and rejects out-of-range values.
func ValidateLimit(limit, defaultValue int) (int, error) {
	if limit == 0 {
		return defaultValue, nil
	}
	if limit < 0 || limit > MaxLimit {
		return 0, Invalid("limit", "must be between 1 and %d", MaxLimit)
	}
	return limit, nil
}
