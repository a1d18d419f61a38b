package leave

import "time"

// CalculateDays returns the inclusive day count between start and end.
// A single-day request counts as 1.
func CalculateDays(start, end time.Time) (int, error) {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)
	if endDay.Before(startDay) {
		return 0, ErrInvalidDateRange
	}
	return int(endDay.Sub(startDay)/(24*time.Hour)) + 1, nil
}

// ChargeYear is the ledger year a request is charged against. Requests that
// span a year boundary are charged entirely to the start date's year.
func ChargeYear(start time.Time) int {
	return start.Year()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
