package timer

import (
	"fmt"
)

// FormatDuration converts a number of seconds into a mm:ss string format.
// Negative values keep their sign; durations are not range checked.
func FormatDuration(sec int) string {
	sign := ""
	mag := uint(sec)
	if sec < 0 {
		sign = "-"
		// -sec overflows for the minimum int.
		mag = uint(-(sec + 1)) + 1
	}
	return fmt.Sprintf("%s%02d:%02d", sign, mag/60, mag%60)
}
