package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	secondsPerHour = 3600
	hoursPerDay    = 24
	shortLabel     = "< 1 hr"
)

// Duration summarizes the elapsed time between a record's start and end.
type Duration struct {
	Hours float64
	Days  float64
	Label string
}

// ComputeDuration returns the elapsed time from start to end, floored at zero.
// Days are derived from the rounded hours, not from the raw elapsed time.
// Elapsed time is taken from Unix seconds so spans beyond time.Duration's range stay exact.
func ComputeDuration(start, end time.Time) Duration {
	seconds := float64(end.Unix()-start.Unix()) + float64(end.Nanosecond()-start.Nanosecond())/1e9
	if seconds < 0 {
		seconds = 0
	}
	hours := round2(seconds / secondsPerHour)
	return Duration{
		Hours: hours,
		Days:  round2(hours / hoursPerDay),
		Label: secondsLabel(wholeSeconds(start, end)),
	}
}

// DurationLabel renders elapsed as "2 days 3 hrs", "1 hr 5 min" or "45 min".
// Minutes are dropped once a day component exists; sub-minute spans render as "< 1 hr".
func DurationLabel(elapsed time.Duration) string {
	return secondsLabel(int64(elapsed / time.Second))
}

// wholeSeconds truncates the span between start and end to whole seconds.
func wholeSeconds(start, end time.Time) int64 {
	total := end.Unix() - start.Unix()
	if end.Nanosecond() < start.Nanosecond() {
		total--
	}
	return total
}

func secondsLabel(total int64) string {
	if total < 0 {
		total = 0
	}
	hoursTotal := total / secondsPerHour
	minutes := (total % secondsPerHour) / 60
	days := hoursTotal / hoursPerDay
	hours := hoursTotal % hoursPerDay

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, pluralize(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, pluralize(hours, "hr"))
	}
	if days == 0 && minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d min", minutes))
	}
	if len(parts) == 0 {
		return shortLabel
	}
	return strings.Join(parts, " ")
}

func pluralize(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// round2 rounds to two decimals using the float's exact binary value,
// resolving exact ties to even.
func round2(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
