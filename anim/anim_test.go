package anim

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"libdb.so/tapglow/led"
	"libdb.so/tapglow/touch"
)

const stripLength = 45

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	qt.Assert(t, err, qt.IsNil)
	return e
}

func hsv(h, v uint8) led.RGBColor {
	return led.HSV{H: h, S: 255, V: v}.RGB()
}

func TestReleasedIsDark(t *testing.T) {
	c := qt.New(t)
	e := newEngine(t)

	frame := led.NewLEDs(stripLength)
	frame.SetRange(0, stripLength, led.RGB(1, 2, 3))

	c.Assert(e.Render(frame, false, 9000), qt.Equals, PhaseOff)
	c.Assert(frame.AllOff(), qt.IsTrue)
}

func TestFillStartsDark(t *testing.T) {
	c := qt.New(t)
	e := newEngine(t)

	frame := led.NewLEDs(stripLength)
	c.Assert(e.Render(frame, true, 0), qt.Equals, PhaseFill)
	c.Assert(e.LitCount(0, stripLength), qt.Equals, 0)
	c.Assert(frame.AllOff(), qt.IsTrue)
}

func TestFillHalfway(t *testing.T) {
	c := qt.New(t)
	e := newEngine(t)

	frame := led.NewLEDs(stripLength)
	c.Assert(e.Render(frame, true, 2500), qt.Equals, PhaseFill)
	c.Assert(e.LitCount(2500, stripLength), qt.Equals, 22)
	c.Assert(e.Progress(2500), qt.Equals, float32(0.5))

	for i := 0; i < 22; i++ {
		c.Assert(frame[i], qt.Equals, hsv(uint8(i*255/stripLength), 128), qt.Commentf("led %d", i))
	}
	// 2500*45/5000 = 22.5, so the next LED is at half brightness.
	c.Assert(frame[22], qt.Equals, hsv(uint8(22*255/stripLength), 64))
	for i := 23; i < stripLength; i++ {
		c.Assert(frame[i].IsOff(), qt.IsTrue, qt.Commentf("led %d", i))
	}
}

func TestLitCountMonotonic(t *testing.T) {
	e := newEngine(t)

	prev := 0
	for elapsed := touch.Millis(0); elapsed <= 6000; elapsed += 7 {
		lit := e.LitCount(elapsed, stripLength)
		if lit < prev {
			t.Fatalf("lit count went from %d to %d at %dms", prev, lit, elapsed)
		}
		prev = lit
	}
	qt.Assert(t, prev, qt.Equals, stripLength)
}

func TestCycleAdvancesEveryTick(t *testing.T) {
	c := qt.New(t)
	e := newEngine(t)
	frame := led.NewLEDs(stripLength)

	c.Assert(e.Render(frame, true, 5200), qt.Equals, PhaseCycle)
	c.Assert(e.Offset(), qt.Equals, uint8(2))
	c.Assert(e.Progress(5200), qt.Equals, float32(1))

	for i := 0; i < 200; i++ {
		before := e.Offset()
		e.Render(frame, true, touch.Millis(5220+20*i))
		c.Assert(e.Offset(), qt.Equals, before+2)
	}

	for i := range frame {
		c.Assert(frame[i], qt.Equals, hsv(e.Offset()+uint8(i*255/stripLength), 128))
	}
}

func TestCycleOffsetWraps(t *testing.T) {
	e := newEngine(t)
	frame := led.NewLEDs(stripLength)

	for i := 0; i < 128; i++ {
		e.Render(frame, true, touch.Millis(5000+i))
	}
	qt.Assert(t, e.Offset(), qt.Equals, uint8(0))
}

func TestSameInstantRendersSameFrame(t *testing.T) {
	c := qt.New(t)
	e := newEngine(t)

	for _, elapsed := range []touch.Millis{0, 2500, 4999, 5000, 9000} {
		a := led.NewLEDs(stripLength)
		b := led.NewLEDs(stripLength)
		e.Render(a, true, elapsed)
		e.Render(b, true, elapsed)
		c.Assert(b, qt.DeepEquals, a, qt.Commentf("elapsed %d", elapsed))
	}
}

func TestOffsetSurvivesRelease(t *testing.T) {
	c := qt.New(t)
	e := newEngine(t)
	frame := led.NewLEDs(stripLength)

	e.Render(frame, true, 5000)
	e.Render(frame, true, 5020)
	c.Assert(e.Offset(), qt.Equals, uint8(4))

	e.Render(frame, false, 0)
	c.Assert(e.Offset(), qt.Equals, uint8(4))

	// The next hold resumes the rotation.
	e.Render(frame, true, 5000)
	c.Assert(e.Offset(), qt.Equals, uint8(6))
}

func TestInvalidConfig(t *testing.T) {
	_, err := NewEngine(Config{})
	qt.Assert(t, err, qt.ErrorMatches, "invalid animation config: fill time must be positive")
}
