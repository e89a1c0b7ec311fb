// Package timefmt formats note timestamps for display, with fixed en-US phrasing.
package timefmt

import (
	"fmt"
	"time"
)

// absoluteLayout renders a medium date with a short time, e.g. "Jan 15, 2024, 3:30 PM".
const absoluteLayout = "Jan 2, 2006, 3:04 PM"

// Absolute formats t as an absolute date-time string.
func Absolute(t time.Time) string {
	return t.Format(absoluteLayout)
}

// Relative formats t relative to now, e.g. "just now", "2 hours ago",
// "yesterday", "10 days ago". Timestamps more than 30 days away fall back
// to the absolute format.
//
// A difference of exactly one calendar day reads "yesterday" in both
// directions; future one-day differences do not read "tomorrow". This
// mirrors the behaviour of the UI this service was built for.
func Relative(t, now time.Time) string {
	diff := t.Sub(now)
	seconds := int(diff / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	if abs(seconds) < 60 {
		return "just now"
	}

	if abs(days) == 0 {
		if abs(hours) > 0 {
			return phrase(hours, "hour")
		}
		return phrase(minutes, "minute")
	}

	if abs(days) == 1 {
		return "yesterday"
	}

	if abs(days) <= 30 {
		return phrase(days, "day")
	}

	return Absolute(t)
}

// phrase renders a signed count of units: "2 hours ago", "in 1 minute".
func phrase(n int, unit string) string {
	u := unit
	if abs(n) != 1 {
		u += "s"
	}
	if n < 0 {
		return fmt.Sprintf("%d %s ago", -n, u)
	}
	return fmt.Sprintf("in %d %s", n, u)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
