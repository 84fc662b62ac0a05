// Package calendar holds the day arithmetic shared by the bounded contexts.
// Every calendar day is a UTC midnight, whatever zone the input carries.
package calendar

import "time"

const day = 24 * time.Hour

// DateOnly truncates t to midnight UTC of the day t falls on in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOnlyPtr truncates an optional time. Nil stays nil.
func DateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := DateOnly(*t)
	return &d
}

// DaysBetween counts whole calendar days from a to b. It is negative when b
// falls on an earlier day.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)) / day)
}

// IsBeforeDay reports whether t falls on an earlier calendar day than ref.
func IsBeforeDay(t, ref time.Time) bool {
	return DateOnly(t).Before(DateOnly(ref))
}
