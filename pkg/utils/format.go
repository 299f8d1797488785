package utils

import (
	"fmt"
	"time"
)

func FormatPeriod(start, end time.Time) string {
	return fmt.Sprintf("%s - %s",
		start.Format(DateKeyLayout),
		end.Format(DateKeyLayout))
}

// FormatHourLabel renders an hour of day (0-23) on a 12-hour clock.
func FormatHourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12:00 AM"
	case hour < 12:
		return fmt.Sprintf("%d:00 AM", hour)
	case hour == 12:
		return "12:00 PM"
	default:
		return fmt.Sprintf("%d:00 PM", hour-12)
	}
}

// WholeHours truncates a millisecond duration to full hours.
func WholeHours(ms int64) int64 {
	return ms / time.Hour.Milliseconds()
}
