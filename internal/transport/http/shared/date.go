package shared

import "time"

const dateOnly = "2006-01-02"

// ParseDate accepts RFC3339 timestamps or bare dates. Leave requests carry
// whole days, so the date-only form is the common case.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Parse(dateOnly, value)
}
