package controller

import (
	"fmt"
	"time"

	"libdb.so/tapglow/anim"
	"libdb.so/tapglow/touch"
)

// Config is the configuration for the controller. It is fixed once the
// controller is created.
type Config struct {
	// Threshold is the raw sensor reading above which the pad is touched.
	Threshold uint16
	// TickPeriod is the time between two ticks. The animation moves once
	// per tick, so this sets how smooth it looks.
	TickPeriod time.Duration
	// Tiers are the hold times at which each tier begins.
	Tiers touch.Thresholds
	// Animation configures the LED strip animation.
	Animation anim.Config
	// NumLEDs is the length of the strip.
	NumLEDs int
	// Subtitle is shown under the splash greeting during Init.
	Subtitle string
}

// DefaultConfig returns the stock configuration for a 45 LED strip.
func DefaultConfig() Config {
	return Config{
		Threshold:  touch.DefaultThreshold,
		TickPeriod: 20 * time.Millisecond,
		Tiers:      touch.DefaultThresholds(),
		Animation:  anim.DefaultConfig(),
		NumLEDs:    45,
		Subtitle:   "ESP32-C3 OLED",
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.NumLEDs < 1 {
		return fmt.Errorf("invalid number of LEDs: %d", c.NumLEDs)
	}
	if c.TickPeriod <= 0 {
		return fmt.Errorf("tick period must be positive")
	}
	if err := c.Tiers.Validate(); err != nil {
		return fmt.Errorf("invalid tiers: %w", err)
	}
	if err := c.Animation.Validate(); err != nil {
		return fmt.Errorf("invalid animation: %w", err)
	}
	return nil
}
