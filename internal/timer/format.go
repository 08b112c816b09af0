package timer

import (
	"fmt"
	"time"
)

// FormatDuration renders a countdown value the way the timer face shows it:
// "1h 2m 03s", "2m 03s" or "5s". Seconds are zero-padded only when a larger
// unit is visible. Sub-second remainders round up so the face never reads
// "0s" while time is still left.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	secs := int64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}

	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %02ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
