package leave

import (
	"fmt"
	"strings"
	"time"
)

// Elapsed returns now - start, clamped at zero.
func Elapsed(now, start time.Time) time.Duration {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}

// FormatDuration renders whole hours and minutes, e.g. "1 hour 5 minutes".
// Anything under a minute displays as "1 minute".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "1 minute"
	}

	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)

	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
