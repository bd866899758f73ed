// Package led describes LED strip frames and the colors that go into them.
package led

import (
	"fmt"
	"strings"
)

// RGBColor is a single 8-bit-per-channel color.
type RGBColor [3]uint8

// Off is the color of an LED that is turned off.
var Off = RGBColor{}

// RGB returns an RGBColor from its three components.
func RGB(r, g, b uint8) RGBColor {
	return RGBColor{r, g, b}
}

// IsOff returns true if all channels are zero.
func (c RGBColor) IsOff() bool {
	return c == Off
}

// ColorOrder is the order in which the color channels are sent over the wire.
type ColorOrder uint8

const (
	// OrderGRB sends green, red then blue. Most WS2812B strips want this.
	OrderGRB ColorOrder = iota
	// OrderRGB sends red, green then blue.
	OrderRGB
)

// String returns the lowercase name of the color order.
func (o ColorOrder) String() string {
	switch o {
	case OrderRGB:
		return "rgb"
	case OrderGRB:
		return "grb"
	default:
		return fmt.Sprintf("ColorOrder(%d)", o)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *ColorOrder) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "rgb":
		*o = OrderRGB
	case "grb":
		*o = OrderGRB
	default:
		return fmt.Errorf("unknown color order %q", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (o ColorOrder) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// LEDs describes a strip of LEDs. It is a preallocated slice of RGBColor.
type LEDs []RGBColor

// NewLEDs creates a new strip of LEDs. Colors are initialized to black
// (off).
func NewLEDs(numLEDs int) LEDs {
	return make(LEDs, numLEDs)
}

// AppendPixels appends the LED strip to dst as raw bytes in the given color
// order. Each LED is represented by three bytes.
func (l LEDs) AppendPixels(dst []uint8, order ColorOrder) []uint8 {
	for _, c := range l {
		switch order {
		case OrderRGB:
			dst = append(dst, c[0], c[1], c[2])
		default:
			dst = append(dst, c[1], c[0], c[2])
		}
	}
	return dst
}

// Set sets the color of the LED at the given index.
func (l LEDs) Set(i int, c RGBColor) {
	l[i] = c
}

// SetRange sets the color of the LEDs in the given range.
func (l LEDs) SetRange(start, end int, c RGBColor) {
	for i := start; i < end; i++ {
		l[i] = c
	}
}

// Clear turns off every LED in the strip.
func (l LEDs) Clear() {
	l.SetRange(0, len(l), Off)
}

// AllOff returns true if every LED in the strip is off.
func (l LEDs) AllOff() bool {
	for _, c := range l {
		if !c.IsOff() {
			return false
		}
	}
	return true
}
