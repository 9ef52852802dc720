// Package format provides shared formatting utilities for human-readable output.
package format

import (
	"fmt"
	"time"
)

// Duration formats a duration for human-readable output.
// Handles microseconds, milliseconds, seconds, and minutes.
func Duration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.0fµs", float64(d.Microseconds()))
	}
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Milliseconds()))
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	return fmt.Sprintf("%.1fm", d.Minutes())
}

// Delta formats a rounded percentage delta with an explicit sign for
// positive values, e.g. "+20%", "-32%", "0%".
func Delta(delta int) string {
	if delta > 0 {
		return fmt.Sprintf("+%d%%", delta)
	}

	return fmt.Sprintf("%d%%", delta)
}

// Score formats a rounded 0-100 score.
func Score(score int) string {
	return fmt.Sprintf("%d", score)
}
