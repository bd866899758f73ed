package tapglow

import (
	"encoding"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"libdb.so/tapglow/anim"
	"libdb.so/tapglow/controller"
	"libdb.so/tapglow/led"
	"libdb.so/tapglow/touch"
)

// Config is the configuration for the tapglow daemon.
type Config struct {
	// Device is the path to the device file of the microcontroller.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
	// InitTimeout is how long to wait for the device to bring up its
	// display before giving up.
	InitTimeout TOMLDuration `toml:"init_timeout"`
	// Touch configures the touch pad and the tiers.
	Touch TouchConfig `toml:"touch"`
	// Strip configures the LED strip and its animation.
	Strip StripConfig `toml:"strip"`
}

// TouchConfig is the configuration for the touch pad.
type TouchConfig struct {
	// Threshold is the raw 12-bit reading above which the pad is touched.
	Threshold int `toml:"threshold"`
	// Tick is the period of the feedback loop.
	Tick TOMLDuration `toml:"tick"`
	// Holding, StillHolding and LongHold are the hold times at which each
	// tier begins.
	Holding      TOMLDuration `toml:"holding"`
	StillHolding TOMLDuration `toml:"still_holding"`
	LongHold     TOMLDuration `toml:"long_hold"`
}

// StripConfig is the configuration for the LED strip.
type StripConfig struct {
	// LEDs is the number of LEDs in the strip.
	LEDs int `toml:"leds"`
	// Brightness is the brightness of a fully lit LED, 0 to 255.
	Brightness int `toml:"brightness"`
	// RainbowStep is how far the rainbow rotates per tick.
	RainbowStep int `toml:"rainbow_step"`
	// Fill is how long it takes to fill the strip.
	Fill TOMLDuration `toml:"fill"`
	// ColorOrder is the byte order the strip expects, "grb" or "rgb".
	ColorOrder led.ColorOrder `toml:"color_order"`
}

// DefaultConfig returns the configuration used for keys missing from the
// configuration file.
func DefaultConfig() Config {
	ctrl := controller.DefaultConfig()
	return Config{
		Device:      "/dev/ttyACM0",
		Baud:        115200,
		InitTimeout: TOMLDuration(5 * time.Second),
		Touch: TouchConfig{
			Threshold:    int(ctrl.Threshold),
			Tick:         TOMLDuration(ctrl.TickPeriod),
			Holding:      TOMLDuration(ctrl.Tiers.Holding.Duration()),
			StillHolding: TOMLDuration(ctrl.Tiers.StillHolding.Duration()),
			LongHold:     TOMLDuration(ctrl.Tiers.LongHold.Duration()),
		},
		Strip: StripConfig{
			LEDs:        ctrl.NumLEDs,
			Brightness:  int(ctrl.Animation.Brightness),
			RainbowStep: int(ctrl.Animation.RainbowStep),
			Fill:        TOMLDuration(ctrl.Animation.FillTime.Duration()),
			ColorOrder:  led.OrderGRB,
		},
	}
}

// applyDefaults fills in every key missing from tree with its value from
// DefaultConfig.
func (c *Config) applyDefaults(tree *toml.Tree) {
	def := DefaultConfig()
	setDefault(tree, "device", &c.Device, def.Device)
	setDefault(tree, "baud", &c.Baud, def.Baud)
	setDefault(tree, "init_timeout", &c.InitTimeout, def.InitTimeout)
	setDefault(tree, "touch.threshold", &c.Touch.Threshold, def.Touch.Threshold)
	setDefault(tree, "touch.tick", &c.Touch.Tick, def.Touch.Tick)
	setDefault(tree, "touch.holding", &c.Touch.Holding, def.Touch.Holding)
	setDefault(tree, "touch.still_holding", &c.Touch.StillHolding, def.Touch.StillHolding)
	setDefault(tree, "touch.long_hold", &c.Touch.LongHold, def.Touch.LongHold)
	setDefault(tree, "strip.leds", &c.Strip.LEDs, def.Strip.LEDs)
	setDefault(tree, "strip.brightness", &c.Strip.Brightness, def.Strip.Brightness)
	setDefault(tree, "strip.rainbow_step", &c.Strip.RainbowStep, def.Strip.RainbowStep)
	setDefault(tree, "strip.fill", &c.Strip.Fill, def.Strip.Fill)
	setDefault(tree, "strip.color_order", &c.Strip.ColorOrder, def.Strip.ColorOrder)
}

func setDefault[T any](tree *toml.Tree, key string, v *T, def T) {
	if !tree.Has(key) {
		*v = def
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("no device configured")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if c.Touch.Threshold < 0 || c.Touch.Threshold > 0xFFFF {
		return fmt.Errorf("threshold %d out of range", c.Touch.Threshold)
	}
	if c.Strip.LEDs < 1 || c.Strip.LEDs > 0xFFFF {
		return fmt.Errorf("invalid number of LEDs: %d", c.Strip.LEDs)
	}
	if c.Strip.Brightness < 0 || c.Strip.Brightness > 255 {
		return fmt.Errorf("brightness %d out of range [0, 255]", c.Strip.Brightness)
	}
	if c.Strip.RainbowStep < 0 || c.Strip.RainbowStep > 255 {
		return fmt.Errorf("rainbow step %d out of range [0, 255]", c.Strip.RainbowStep)
	}
	if c.InitTimeout <= 0 {
		return errors.New("init timeout must be positive")
	}
	if err := c.Controller().Validate(); err != nil {
		return err
	}
	return nil
}

// Controller returns the controller configuration described by c.
func (c *Config) Controller() controller.Config {
	ctrl := controller.DefaultConfig()
	ctrl.Threshold = uint16(c.Touch.Threshold)
	ctrl.TickPeriod = time.Duration(c.Touch.Tick)
	ctrl.Tiers = touch.Thresholds{
		Holding:      touch.MillisOf(time.Duration(c.Touch.Holding)),
		StillHolding: touch.MillisOf(time.Duration(c.Touch.StillHolding)),
		LongHold:     touch.MillisOf(time.Duration(c.Touch.LongHold)),
	}
	ctrl.Animation = anim.Config{
		FillTime:    touch.MillisOf(time.Duration(c.Strip.Fill)),
		Brightness:  uint8(c.Strip.Brightness),
		RainbowStep: uint8(c.Strip.RainbowStep),
	}
	ctrl.NumLEDs = c.Strip.LEDs
	ctrl.Subtitle = "tethered"
	return ctrl
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ParseConfig parses a configuration from a reader. Missing keys take their
// values from DefaultConfig; keys that are present keep their values, zero
// included.
func ParseConfig(r io.Reader) (*Config, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := tree.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.applyDefaults(tree)
	return &config, nil
}
