package touch

import (
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSamplerThreshold(t *testing.T) {
	s := Sampler{Threshold: DefaultThreshold}
	for _, tc := range []struct {
		raw  uint16
		want bool
	}{
		{0, false},
		{1799, false},
		{1800, false}, // strictly above
		{1801, true},
		{2000, true},
		{4095, true},
	} {
		qt.Check(t, s.Contact(tc.raw), qt.Equals, tc.want, qt.Commentf("raw %d", tc.raw))
	}
}

func TestSessionEdges(t *testing.T) {
	c := qt.New(t)

	var s Session
	c.Assert(s.Active(), qt.IsFalse)
	c.Assert(s.Elapsed(1000), qt.Equals, Millis(0))

	s.Update(true, 100)
	c.Assert(s.Active(), qt.IsTrue)
	c.Assert(s.Elapsed(100), qt.Equals, Millis(0))

	// Staying active does not move the start time.
	s.Update(true, 600)
	start, ok := s.Start()
	c.Assert(ok, qt.IsTrue)
	c.Assert(start, qt.Equals, Millis(100))
	c.Assert(s.Elapsed(600), qt.Equals, Millis(500))

	s.Update(false, 700)
	c.Assert(s.Active(), qt.IsFalse)
	c.Assert(s.Elapsed(5000), qt.Equals, Millis(0))
	_, ok = s.Start()
	c.Assert(ok, qt.IsFalse)

	// A new rising edge starts a new session.
	s.Update(true, 900)
	c.Assert(s.Elapsed(950), qt.Equals, Millis(50))
}

func TestSessionElapsedAcrossRollover(t *testing.T) {
	var s Session
	s.Update(true, math.MaxUint32-99)
	qt.Assert(t, s.Elapsed(400), qt.Equals, Millis(500))
}

func TestClassify(t *testing.T) {
	th := DefaultThresholds()
	for _, tc := range []struct {
		active  bool
		elapsed Millis
		want    Tier
	}{
		{false, 0, Released},
		{false, 9000, Released},
		{true, 0, Tap},
		{true, 499, Tap},
		{true, 500, Holding},
		{true, 2500, Holding},
		{true, 2999, Holding},
		{true, 3000, StillHolding},
		{true, 7999, StillHolding},
		{true, 8000, LongHold},
		{true, 9000, LongHold},
		{true, math.MaxUint32, LongHold},
	} {
		got := th.Classify(tc.active, tc.elapsed)
		qt.Check(t, got, qt.Equals, tc.want, qt.Commentf("active=%v elapsed=%d", tc.active, tc.elapsed))
	}
}

func TestClassifyIsMonotonic(t *testing.T) {
	th := DefaultThresholds()
	prev := th.Classify(true, 0)
	for e := Millis(1); e < 10000; e++ {
		tier := th.Classify(true, e)
		if tier < prev {
			t.Fatalf("tier went backwards at %dms: %v -> %v", e, prev, tier)
		}
		prev = tier
	}
}

func TestThresholdsValidate(t *testing.T) {
	c := qt.New(t)
	c.Assert(DefaultThresholds().Validate(), qt.IsNil)
	c.Assert(Thresholds{}.Validate(), qt.ErrorMatches, "holding threshold must be positive")
	c.Assert(Thresholds{Holding: 500, StillHolding: 500, LongHold: 8000}.Validate(),
		qt.ErrorMatches, "still-holding threshold 500 must be above holding threshold 500")
	c.Assert(Thresholds{Holding: 500, StillHolding: 3000, LongHold: 3000}.Validate(),
		qt.ErrorMatches, "long-hold threshold 3000 must be above still-holding threshold 3000")
}

func TestTierString(t *testing.T) {
	qt.Assert(t, StillHolding.String(), qt.Equals, "still-holding")
	qt.Assert(t, Tier(42).String(), qt.Equals, "Tier(42)")
}
