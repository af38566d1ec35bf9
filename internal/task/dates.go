package task

import (
	"fmt"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// DateLayout is the layout used when printing dates.
const DateLayout = "2006-01-02"

// Date returns the civil date year-month-day at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t and returns the same calendar date at
// midnight UTC.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// AddDays returns d shifted by n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// DaysBetween returns the number of whole days from a to b. It counts
// calendar days directly, so dates centuries apart stay exact.
func DaysBetween(a, b time.Time) int {
	return int((Truncate(b).Unix() - Truncate(a).Unix()) / secondsPerDay)
}

// FormatDays renders a day count, using the singular for exactly one day.
func FormatDays(days int) string {
	if days == 1 {
		return fmt.Sprintf("%d day", days)
	}
	return fmt.Sprintf("%d days", days)
}

// RelativeToToday describes date relative to today as markdown.
// Past and present dates are emphasized since they need attention.
func RelativeToToday(date, today time.Time, prefix string) string {
	delta := DaysBetween(today, date)
	switch {
	case delta < 0:
		return fmt.Sprintf("**%s%s ago**", prefix, FormatDays(-delta))
	case delta == 0:
		return fmt.Sprintf("**%stoday**", prefix)
	default:
		return fmt.Sprintf("%sin %s", prefix, FormatDays(delta))
	}
}
