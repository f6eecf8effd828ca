package core

import (
	"time"
)

// DateLayout is the storage format of every date field.
const DateLayout = "2006-01-02"

// TimestampLayout is the storage format of created_at stamps.
const TimestampLayout = "2006-01-02 15:04:05"

// ParseDate parses a stored YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return s != "" && err == nil
}

// IsFutureDate reports whether s falls strictly after today. Malformed input
// is not a future date; format errors are caught by ValidDate.
func IsFutureDate(s string, today time.Time) bool {
	d, err := ParseDate(s)
	if err != nil {
		return false
	}
	return d.After(truncateToDay(today))
}

// FormatDate renders t in the storage date format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthKey derives the "YYYY-MM" bucket of a stored date string.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// MonthKeyOf renders the "YYYY-MM" bucket of a point in time.
func MonthKeyOf(t time.Time) string {
	return t.Format("2006-01")
}

// DaysUntil counts whole days from today until the stored date; negative when
// the date already passed.
func DaysUntil(date string, today time.Time) (int, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(d.Sub(truncateToDay(today)).Hours() / 24), nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
