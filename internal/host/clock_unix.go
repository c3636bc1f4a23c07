//go:build unix

package host

import "golang.org/x/sys/unix"

// MonotonicClock reads CLOCK_MONOTONIC in nanoseconds.
type MonotonicClock struct{}

// Nanotime returns the current monotonic time in nanoseconds.
func (MonotonicClock) Nanotime() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return fallbackNanotime()
	}
	return uint64(ts.Nano())
}
