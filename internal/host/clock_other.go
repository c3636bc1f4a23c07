//go:build !unix

package host

// MonotonicClock measures nanoseconds since process start using the
// monotonic component of time.Time.
type MonotonicClock struct{}

// Nanotime returns the current monotonic time in nanoseconds.
func (MonotonicClock) Nanotime() uint64 {
	return fallbackNanotime()
}
