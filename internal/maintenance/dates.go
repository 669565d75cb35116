package maintenance

import (
	"strings"
	"time"

	"biomed-system/pkg/constants"

	"github.com/aarondl/null/v8"
)

// ParseDate reads a YYYY-MM-DD calendar date (an RFC 3339 timestamp is
// truncated to its date). Anything else is reported as absent.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(constants.DateLayout, s, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func parseNullDate(s null.String) (time.Time, bool) {
	if !s.Valid {
		return time.Time{}, false
	}
	return ParseDate(s.String)
}

// FormatDate renders the calendar date of t, ignoring its clock and zone offset.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateLayout)
}

// calendarDate drops the clock component while keeping the wall-clock date of t.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// monthsBetween is the whole-month difference between the calendar months of a and b.
func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// addMonths follows time.AddDate: day overflow rolls into the following month.
func addMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// DueDate is the last instant (23:59:59.999) of the zero-based month in year.
func DueDate(year, month int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	firstOfNext := time.Date(year, time.Month(month+1)+1, 1, 0, 0, 0, 0, loc)
	return firstOfNext.Add(-time.Millisecond)
}
