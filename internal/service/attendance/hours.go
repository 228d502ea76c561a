package attendance

import (
	"fmt"
	"strconv"
	"time"
)

// Duration presentation helpers. The day view shows "{h}h {m}m", reports
// show decimal hours with two places; both render the same duration.

// FormatHoursMinutes renders a duration as "8h 5m". Negative durations
// render as zero.
func FormatHoursMinutes(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Minutes())
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// FormatDecimalHours renders a duration as decimal hours, e.g. "10.58".
func FormatDecimalHours(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return strconv.FormatFloat(d.Hours(), 'f', 2, 64)
}

// MinutesToDuration converts stored minute counts to a duration.
func MinutesToDuration(m int) time.Duration {
	return time.Duration(m) * time.Minute
}

// DurationToMinutes converts a duration to whole stored minutes.
func DurationToMinutes(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}
