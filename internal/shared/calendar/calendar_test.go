package calendar

import (
	"testing"
	"time"
)

func TestDateOnlyUsesUTCDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"utc afternoon", time.Date(2025, 5, 1, 15, 30, 0, 0, time.UTC), time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"early morning east of utc", time.Date(2025, 5, 2, 3, 0, 0, 0, tokyo), time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"late evening east of utc", time.Date(2025, 5, 2, 20, 0, 0, 0, tokyo), time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateOnly(tt.in); !got.Equal(tt.want) || got.Location() != time.UTC {
				t.Fatalf("DateOnly(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDateOnlyPtr(t *testing.T) {
	if DateOnlyPtr(nil) != nil {
		t.Fatal("nil input must stay nil")
	}
	in := time.Date(2025, 5, 1, 23, 59, 0, 0, time.UTC)
	if got := DateOnlyPtr(&in); !got.Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("DateOnlyPtr = %v", got)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 5, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, 5, 4, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 3 {
		t.Fatalf("DaysBetween = %d, want 3", got)
	}
	if got := DaysBetween(b, a); got != -3 {
		t.Fatalf("DaysBetween reversed = %d, want -3", got)
	}
}

func TestIsBeforeDay(t *testing.T) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if IsBeforeDay(due, time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)) {
		t.Fatal("a date due today is not before today")
	}
	if !IsBeforeDay(due, time.Date(2025, 6, 2, 0, 30, 0, 0, time.UTC)) {
		t.Fatal("yesterday's date is before today")
	}
}
