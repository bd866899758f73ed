// Package touch turns raw sensor readings into touch sessions and tiers.
package touch

// DefaultThreshold is the raw reading above which the pad counts as touched.
// It was picked by looking at raw values from a velostat pad on a 12-bit ADC.
const DefaultThreshold = 1800

// Sampler applies a fixed threshold to raw sensor readings.
type Sampler struct {
	Threshold uint16
}

// Contact returns true if raw is strictly above the threshold.
func (s Sampler) Contact(raw uint16) bool {
	return raw > s.Threshold
}

// Session tracks one continuous touch, from the rising edge of contact to
// the falling edge.
type Session struct {
	active bool
	start  Millis
}

// Update feeds the contact state for this tick. The start time is recorded
// only on the tick where contact goes from false to true.
func (s *Session) Update(contact bool, now Millis) {
	switch {
	case contact && !s.active:
		s.active = true
		s.start = now
	case !contact && s.active:
		*s = Session{}
	}
}

// Active returns true while the pad is being touched.
func (s *Session) Active() bool {
	return s.active
}

// Start returns the time the current session started. It returns false if
// there is no session.
func (s *Session) Start() (Millis, bool) {
	return s.start, s.active
}

// Elapsed returns how long the current session has lasted. It is 0 when
// there is no session.
func (s *Session) Elapsed(now Millis) Millis {
	if !s.active {
		return 0
	}
	return now.Since(s.start)
}
