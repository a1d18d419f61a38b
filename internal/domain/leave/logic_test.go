package leave

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateDays(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single day", date(2025, 1, 10), date(2025, 1, 10), 1},
		{"three days", date(2025, 1, 10), date(2025, 1, 12), 3},
		{"month boundary", date(2025, 1, 30), date(2025, 2, 2), 4},
		{"ignores clock time", date(2025, 3, 1).Add(23 * time.Hour), date(2025, 3, 2), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, err := CalculateDays(tc.start, tc.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if days != tc.want {
				t.Fatalf("expected %d days, got %d", tc.want, days)
			}
		})
	}
}

func TestCalculateDaysInvalidRange(t *testing.T) {
	_, err := CalculateDays(date(2025, 2, 10), date(2025, 2, 9))
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestChargeYearCrossYearRequest(t *testing.T) {
	// A request spanning the year boundary is charged entirely to the
	// start date's year.
	if year := ChargeYear(date(2025, 12, 29)); year != 2025 {
		t.Fatalf("expected 2025, got %d", year)
	}
}
