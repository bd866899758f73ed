// Package controller runs the touch feedback loop: every tick it samples the
// pad, updates the touch session, and redraws both the status display and
// the LED strip.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libdb.so/tapglow/anim"
	"libdb.so/tapglow/feedback"
	"libdb.so/tapglow/led"
	"libdb.so/tapglow/touch"
)

// ErrDisplayUnavailable is returned by Init when the display cannot be
// reached. The caller is expected to halt.
var ErrDisplayUnavailable = errors.New("display unavailable")

// Sensor reads the raw value of the touch pad.
type Sensor interface {
	// Read returns the latest raw reading. It never fails.
	Read() uint16
}

// Display is a text display.
type Display interface {
	feedback.Display
	// Configure brings up the display. It returns an error if the display
	// does not respond.
	Configure() error
}

// Strip is an addressable LED strip.
type Strip interface {
	// SetFrame replaces the strip's pending frame. The strip must copy what
	// it needs; the frame is reused on the next tick.
	SetFrame(frame led.LEDs)
	// Show transmits the pending frame.
	Show() error
}

// Peripherals are the collaborators a controller talks to.
type Peripherals struct {
	Sensor  Sensor
	Display Display
	Strip   Strip
	Clock   touch.Clock
}

func (p Peripherals) validate() error {
	switch {
	case p.Sensor == nil:
		return errors.New("missing sensor")
	case p.Display == nil:
		return errors.New("missing display")
	case p.Strip == nil:
		return errors.New("missing strip")
	case p.Clock == nil:
		return errors.New("missing clock")
	}
	return nil
}

// Snapshot describes what happened during one tick.
type Snapshot struct {
	Now     touch.Millis
	Raw     uint16
	Contact bool
	Elapsed touch.Millis
	Tier    touch.Tier
	Phase   anim.Phase
	Lit     int
	Offset  uint8
}

// Controller owns the touch session, the animation state and the LED frame.
// It is not safe for concurrent use.
type Controller struct {
	cfg     Config
	periph  Peripherals
	sampler touch.Sampler
	session touch.Session
	engine  *anim.Engine
	frame   led.LEDs

	// Trace, if set, is called with the snapshot of every tick.
	Trace func(Snapshot)
}

// New creates a new controller.
func New(cfg Config, periph Peripherals) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := periph.validate(); err != nil {
		return nil, err
	}

	engine, err := anim.NewEngine(cfg.Animation)
	if err != nil {
		return nil, err
	}

	return &Controller{
		cfg:     cfg,
		periph:  periph,
		sampler: touch.Sampler{Threshold: cfg.Threshold},
		engine:  engine,
		frame:   led.NewLEDs(cfg.NumLEDs),
	}, nil
}

// Config returns the controller's configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Init configures the display, shows the splash screen and turns the strip
// off. An error wrapping ErrDisplayUnavailable means the display could not be
// brought up and no ticks should be run.
func (c *Controller) Init() error {
	if err := c.periph.Display.Configure(); err != nil {
		return fmt.Errorf("%w: %v", ErrDisplayUnavailable, err)
	}
	if err := feedback.Splash(c.periph.Display, c.cfg.Subtitle); err != nil {
		return fmt.Errorf("%w: %v", ErrDisplayUnavailable, err)
	}

	c.frame.Clear()
	c.periph.Strip.SetFrame(c.frame)
	c.periph.Strip.Show()
	return nil
}

// Tick runs one iteration of the feedback loop. Output failures are ignored;
// the next tick redraws everything anyway.
func (c *Controller) Tick() Snapshot {
	now := c.periph.Clock.Now()
	raw := c.periph.Sensor.Read()
	contact := c.sampler.Contact(raw)

	c.session.Update(contact, now)
	active := c.session.Active()
	elapsed := c.session.Elapsed(now)
	tier := c.cfg.Tiers.Classify(active, elapsed)

	phase := c.engine.Render(c.frame, active, elapsed)
	c.periph.Strip.SetFrame(c.frame)
	c.periph.Strip.Show()

	feedback.Present(c.periph.Display, tier)

	lit := 0
	if active {
		lit = c.engine.LitCount(elapsed, len(c.frame))
	}

	s := Snapshot{
		Now:     now,
		Raw:     raw,
		Contact: contact,
		Elapsed: elapsed,
		Tier:    tier,
		Phase:   phase,
		Lit:     lit,
		Offset:  c.engine.Offset(),
	}
	if c.Trace != nil {
		c.Trace(s)
	}
	return s
}

// Run calls Tick once for every value received from ticks until ctx is
// canceled or ticks is closed.
func (c *Controller) Run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			c.Tick()
		}
	}
}

// Frame returns the frame rendered by the last tick. It must not be
// modified.
func (c *Controller) Frame() led.LEDs {
	return c.frame
}
