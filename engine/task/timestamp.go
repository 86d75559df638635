package task

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	isoLayout      = "2006-01-02T15:04:05"
	isoMicroLayout = "2006-01-02T15:04:05.000000"
	labelLayout    = "Jan 02, 2006 03:04 PM"
)

// ParseTimestamp parses a date or date-time cell in any common textual format.
// Values without an explicit zone are read as wall-clock time. Slash dates are
// month-first unless the first field cannot be a month ("31/12/2024").
// A bare clock time such as "12:30" has no date and is rejected.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(value, time.UTC, dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil || t.Year() == 0 {
		return time.Time{}, false
	}
	return t, true
}

// FormatISO renders t as a zone-less ISO-8601 timestamp.
// Microseconds are included only when present; nanoseconds below that are truncated.
func FormatISO(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format(isoMicroLayout)
	}
	return t.Format(isoLayout)
}

// FormatLabel renders t as "Jan 05, 2024 03:30 PM".
func FormatLabel(t time.Time) string {
	return t.Format(labelLayout)
}
