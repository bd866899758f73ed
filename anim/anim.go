// Package anim renders the LED strip as a function of how long the pad has
// been held. A hold first fills the strip with a rainbow, one LED at a time,
// over the fill window. Once the strip is full the rainbow starts rotating and
// keeps rotating until the pad is released.
package anim

import (
	"fmt"

	"libdb.so/tapglow/internal/mathx"
	"libdb.so/tapglow/led"
	"libdb.so/tapglow/touch"
)

// Config is the configuration for the animation engine.
type Config struct {
	// FillTime is how long it takes to fill the whole strip.
	FillTime touch.Millis
	// Brightness is the HSV value of a fully lit LED.
	Brightness uint8
	// RainbowStep is how many hue steps the rainbow rotates per tick once
	// the strip is full.
	RainbowStep uint8
}

// DefaultConfig returns the stock animation settings.
func DefaultConfig() Config {
	return Config{
		FillTime:    5000,
		Brightness:  128,
		RainbowStep: 2,
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.FillTime == 0 {
		return fmt.Errorf("fill time must be positive")
	}
	return nil
}

// Phase is the animation phase of a rendered frame.
type Phase uint8

const (
	// PhaseOff means the pad is released and the strip is dark.
	PhaseOff Phase = iota
	// PhaseFill means the strip is being filled.
	PhaseFill
	// PhaseCycle means the strip is full and the rainbow is rotating.
	PhaseCycle
)

// String returns the name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseOff:
		return "off"
	case PhaseFill:
		return "fill"
	case PhaseCycle:
		return "cycle"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

// Engine computes LED frames. Its only retained state is the rainbow offset,
// which survives releases so the next hold continues where the last one
// stopped.
type Engine struct {
	cfg    Config
	offset uint8

	// last is the elapsed time of the previous cycle frame. It keeps the
	// rainbow still when asked to render the same instant twice.
	last      touch.Millis
	lastValid bool
}

// NewEngine creates a new engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid animation config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Offset returns the current rainbow offset.
func (e *Engine) Offset() uint8 {
	return e.offset
}

// Progress returns the fill fraction for the given hold time, in [0, 1].
func (e *Engine) Progress(elapsed touch.Millis) float32 {
	return mathx.Clamp(float32(elapsed)/float32(e.cfg.FillTime), 0, 1)
}

// LitCount returns how many LEDs of a strip of n LEDs are fully lit after
// holding for elapsed.
func (e *Engine) LitCount(elapsed touch.Millis, n int) int {
	if elapsed >= e.cfg.FillTime {
		return n
	}
	return int(uint64(elapsed) * uint64(n) / uint64(e.cfg.FillTime))
}

// Render draws the frame for the given session state into frame. Every LED
// in frame is overwritten.
func (e *Engine) Render(frame led.LEDs, active bool, elapsed touch.Millis) Phase {
	switch {
	case !active:
		frame.Clear()
		e.lastValid = false
		return PhaseOff

	case elapsed < e.cfg.FillTime:
		e.renderFill(frame, elapsed)
		e.lastValid = false
		return PhaseFill

	default:
		if !e.lastValid || e.last != elapsed {
			e.offset += e.cfg.RainbowStep
		}
		e.last = elapsed
		e.lastValid = true
		e.renderCycle(frame)
		return PhaseCycle
	}
}

func (e *Engine) renderFill(frame led.LEDs, elapsed touch.Millis) {
	n := len(frame)
	fill := uint64(e.cfg.FillTime)
	scaled := uint64(elapsed) * uint64(n) // progress * n, in units of 1/fill
	lit := int(scaled / fill)

	for i := range frame {
		switch {
		case i < lit:
			frame.Set(i, e.color(hueAt(i, n), e.cfg.Brightness))
		case i == lit:
			partial := mathx.ScaleU8(e.cfg.Brightness, scaled%fill, fill)
			frame.Set(i, e.color(hueAt(i, n), partial))
		default:
			frame.Set(i, led.Off)
		}
	}
}

func (e *Engine) renderCycle(frame led.LEDs) {
	n := len(frame)
	for i := range frame {
		frame.Set(i, e.color(e.offset+hueAt(i, n), e.cfg.Brightness))
	}
}

func (e *Engine) color(hue, value uint8) led.RGBColor {
	return led.HSV{H: hue, S: 255, V: value}.RGB()
}

// hueAt spreads the color wheel over a strip of n LEDs.
func hueAt(i, n int) uint8 {
	return uint8(i * 255 / n)
}
