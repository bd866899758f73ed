// Package esp32c3 wires the tapglow controller to the hardware of the
// handbag board: an ESP32-C3 with a velostat pad on an ADC pin, an SSD1306
// OLED on I2C and a WS2812B strip.
package esp32c3

import (
	"image/color"
	"machine"
	"runtime/interrupt"

	"tinygo.org/x/drivers/ws2812"

	"libdb.so/tapglow/controller"
	"libdb.so/tapglow/led"
)

var (
	NumLEDs   = 45
	SensorPin = machine.GPIO1
	LEDPin    = machine.GPIO3
	I2CSDA    = machine.GPIO5
	I2CSCL    = machine.GPIO4

	// OLEDAddress is the I2C address of the display. Some modules use 0x3D.
	OLEDAddress uint16 = 0x3C
)

// Config returns the controller configuration for this board.
func Config() controller.Config {
	cfg := controller.DefaultConfig()
	cfg.NumLEDs = NumLEDs
	cfg.Subtitle = "ESP32-C3 OLED"
	return cfg
}

// ADCSensor reads the touch pad. The pin is pulled down so an untouched pad
// reads close to zero.
type ADCSensor struct {
	adc machine.ADC
}

var _ controller.Sensor = (*ADCSensor)(nil)

// NewADCSensor configures pin as an analog input.
func NewADCSensor(pin machine.Pin) *ADCSensor {
	machine.InitADC()
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	adc := machine.ADC{Pin: pin}
	adc.Configure(machine.ADCConfig{})
	return &ADCSensor{adc: adc}
}

// Read implements controller.Sensor. TinyGo scales every ADC to 16 bits; the
// threshold is calibrated against the chip's native 12 bits, so scale back.
func (s *ADCSensor) Read() uint16 {
	return s.adc.Get() >> 4
}

// Strip is a WS2812B strip.
type Strip struct {
	dev    ws2812.Device
	colors []color.RGBA
}

var _ controller.Strip = (*Strip)(nil)

// NewStrip configures pin as the strip's data line.
func NewStrip(pin machine.Pin, numLEDs int) *Strip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Strip{
		dev:    ws2812.New(pin),
		colors: make([]color.RGBA, numLEDs),
	}
}

// SetFrame implements controller.Strip.
func (s *Strip) SetFrame(frame led.LEDs) {
	for i := range s.colors {
		var c led.RGBColor
		if i < len(frame) {
			c = frame[i]
		}
		s.colors[i] = color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
	}
}

// Show implements controller.Strip. The driver reorders the channels for the
// strip itself.
func (s *Strip) Show() error {
	var err error
	critical(func() { err = s.dev.WriteColors(s.colors) })
	return err
}

// WriteRaw writes bytes that are already in the strip's channel order.
func (s *Strip) WriteRaw(pix []byte) {
	critical(func() {
		for _, b := range pix {
			s.dev.WriteByte(b)
		}
	})
}

func critical(f func()) {
	state := interrupt.Disable()
	f()
	interrupt.Restore(state)
}
