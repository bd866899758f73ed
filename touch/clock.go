package touch

import "time"

// Millis is a monotonic millisecond timestamp. It wraps around after about 49
// days; differences between two Millis are still correct across the wrap as
// long as the real interval is shorter than that.
type Millis uint32

// Since returns the time elapsed from start to m, using unsigned wraparound
// arithmetic.
func (m Millis) Since(start Millis) Millis {
	return m - start
}

// Duration converts m to a time.Duration.
func (m Millis) Duration() time.Duration {
	return time.Duration(m) * time.Millisecond
}

// MillisOf truncates d to whole milliseconds.
func MillisOf(d time.Duration) Millis {
	return Millis(d / time.Millisecond)
}

// Clock is a monotonic millisecond clock.
type Clock interface {
	Now() Millis
}

// MonotonicClock is a Clock backed by the runtime's monotonic clock, counting
// from the moment it was created.
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock creates a clock that starts at zero now.
func NewMonotonicClock() MonotonicClock {
	return MonotonicClock{start: time.Now()}
}

// Now implements Clock.
func (c MonotonicClock) Now() Millis {
	return Millis(uint64(time.Since(c.start) / time.Millisecond))
}
