// Package format renders durations, byte counts and bars for terminal output.
package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatPause formats a pause given in nanoseconds with sub-millisecond
// precision, e.g. "1.234ms".
func FormatPause(ns uint64) string {
	if ns < uint64(time.Millisecond) {
		return FormatExecutionDuration(time.Duration(ns))
	}
	return fmt.Sprintf("%.3fms", float64(ns)/float64(time.Millisecond))
}
