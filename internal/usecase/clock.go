package usecase

import "time"

// truncate drops the time of day, keeping the calendar date in UTC.
func truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
