package tapglow

import (
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"libdb.so/tapglow/led"
	"libdb.so/tapglow/touch"
)

func TestParseConfigDefaults(t *testing.T) {
	c := qt.New(t)

	cfg, err := ParseConfig(strings.NewReader(`device = "/dev/ttyUSB0"`))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Validate(), qt.IsNil)

	want := DefaultConfig()
	want.Device = "/dev/ttyUSB0"
	c.Assert(*cfg, qt.DeepEquals, want)

	ctrl := cfg.Controller()
	c.Assert(ctrl.Threshold, qt.Equals, uint16(1800))
	c.Assert(ctrl.TickPeriod, qt.Equals, 20*time.Millisecond)
	c.Assert(ctrl.Tiers, qt.Equals, touch.DefaultThresholds())
	c.Assert(ctrl.Animation.FillTime, qt.Equals, touch.Millis(5000))
	c.Assert(ctrl.NumLEDs, qt.Equals, 45)
}

func TestParseConfig(t *testing.T) {
	c := qt.New(t)

	cfg, err := ParseConfig(strings.NewReader(`
device = "/dev/ttyACM1"
baud = 921600
init_timeout = "2s"

[touch]
threshold = 1500
tick = "50ms"
holding = "400ms"
still_holding = "2s"
long_hold = "6s"

[strip]
leds = 60
brightness = 200
rainbow_step = 3
fill = "3s"
color_order = "rgb"
`))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Validate(), qt.IsNil)
	c.Assert(cfg.Baud, qt.Equals, 921600)
	c.Assert(cfg.InitTimeout, qt.Equals, TOMLDuration(2*time.Second))
	c.Assert(cfg.Strip.ColorOrder, qt.Equals, led.OrderRGB)

	ctrl := cfg.Controller()
	c.Assert(ctrl.Threshold, qt.Equals, uint16(1500))
	c.Assert(ctrl.TickPeriod, qt.Equals, 50*time.Millisecond)
	c.Assert(ctrl.Tiers, qt.Equals, touch.Thresholds{Holding: 400, StillHolding: 2000, LongHold: 6000})
	c.Assert(ctrl.Animation.FillTime, qt.Equals, touch.Millis(3000))
	c.Assert(ctrl.Animation.Brightness, qt.Equals, uint8(200))
	c.Assert(ctrl.Animation.RainbowStep, qt.Equals, uint8(3))
	c.Assert(ctrl.NumLEDs, qt.Equals, 60)
}

func TestConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(*Config)
		err    string
	}{
		{"brightness", func(c *Config) { c.Strip.Brightness = 256 }, `brightness 256 out of range \[0, 255\]`},
		{"leds", func(c *Config) { c.Strip.LEDs = -1 }, `invalid number of LEDs: -1`},
		{"threshold", func(c *Config) { c.Touch.Threshold = 70000 }, `threshold 70000 out of range`},
		{"tiers", func(c *Config) { c.Touch.LongHold = c.Touch.Holding }, `invalid tiers: long-hold threshold 500 must be above still-holding threshold 3000`},
		{"device", func(c *Config) { c.Device = "" }, `no device configured`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			qt.Assert(t, cfg.Validate(), qt.ErrorMatches, tc.err)
		})
	}
}

func TestParseConfigBadDuration(t *testing.T) {
	_, err := ParseConfig(strings.NewReader("[touch]\ntick = \"soon\"\n"))
	qt.Assert(t, err, qt.Not(qt.IsNil))
}

func TestParseConfigExplicitZeros(t *testing.T) {
	c := qt.New(t)

	cfg, err := ParseConfig(strings.NewReader(`
[touch]
threshold = 0

[strip]
brightness = 0
rainbow_step = 0
`))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Validate(), qt.IsNil)
	c.Check(cfg.Touch.Threshold, qt.Equals, 0)
	c.Check(cfg.Strip.Brightness, qt.Equals, 0)
	c.Check(cfg.Strip.RainbowStep, qt.Equals, 0)

	// Keys that were left out still get their defaults.
	def := DefaultConfig()
	c.Check(cfg.Device, qt.Equals, def.Device)
	c.Check(cfg.Strip.LEDs, qt.Equals, def.Strip.LEDs)
	c.Check(cfg.Touch.Tick, qt.Equals, def.Touch.Tick)

	ctrl := cfg.Controller()
	c.Check(ctrl.Threshold, qt.Equals, uint16(0))
	c.Check(ctrl.Animation.Brightness, qt.Equals, uint8(0))
	c.Check(ctrl.Animation.RainbowStep, qt.Equals, uint8(0))
}
