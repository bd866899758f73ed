package touch

import "fmt"

// Tier is a classification of how long the pad has been held.
// Tiers are ordered by increasing hold time.
type Tier uint8

const (
	Released Tier = iota
	Tap
	Holding
	StillHolding
	LongHold
)

// String returns the name of the tier.
func (t Tier) String() string {
	switch t {
	case Released:
		return "released"
	case Tap:
		return "tap"
	case Holding:
		return "holding"
	case StillHolding:
		return "still-holding"
	case LongHold:
		return "long-hold"
	default:
		return fmt.Sprintf("Tier(%d)", t)
	}
}

// Thresholds are the hold times at which each tier after Tap begins. Each
// bound is inclusive.
type Thresholds struct {
	Holding      Millis
	StillHolding Millis
	LongHold     Millis
}

// DefaultThresholds returns the stock tier boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Holding:      500,
		StillHolding: 3000,
		LongHold:     8000,
	}
}

// Validate checks that the bounds are strictly increasing and that Tap has a
// non-empty range.
func (t Thresholds) Validate() error {
	if t.Holding == 0 {
		return fmt.Errorf("holding threshold must be positive")
	}
	if t.StillHolding <= t.Holding {
		return fmt.Errorf("still-holding threshold %d must be above holding threshold %d", t.StillHolding, t.Holding)
	}
	if t.LongHold <= t.StillHolding {
		return fmt.Errorf("long-hold threshold %d must be above still-holding threshold %d", t.LongHold, t.StillHolding)
	}
	return nil
}

// Classify maps a session to its tier. Ranges are checked in ascending
// order and are mutually exclusive.
func (t Thresholds) Classify(active bool, elapsed Millis) Tier {
	switch {
	case !active:
		return Released
	case elapsed < t.Holding:
		return Tap
	case elapsed < t.StillHolding:
		return Holding
	case elapsed < t.LongHold:
		return StillHolding
	default:
		return LongHold
	}
}
