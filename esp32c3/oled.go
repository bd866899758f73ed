package esp32c3

import (
	"errors"
	"fmt"
	"image/color"
	"machine"
	"strings"
	"time"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
	"tinygo.org/x/tinyfont/proggy"

	"libdb.so/tapglow/controller"
)

var white = color.RGBA{255, 255, 255, 255}

// OLED is a 128x64 SSD1306 display on I2C.
type OLED struct {
	bus  *machine.I2C
	addr uint16
	dev  ssd1306.Device
}

var _ controller.Display = (*OLED)(nil)

// NewOLED creates a display on the given bus. Nothing is sent to the display
// until Configure is called.
func NewOLED(bus *machine.I2C, addr uint16) *OLED {
	return &OLED{
		bus:  bus,
		addr: addr,
		dev:  ssd1306.NewI2C(bus),
	}
}

// Configure implements controller.Display. The driver cannot tell whether
// the display is there, so the address is probed with a display-off command
// first.
func (d *OLED) Configure() error {
	if err := d.bus.Configure(machine.I2CConfig{
		SDA:       I2CSDA,
		SCL:       I2CSCL,
		Frequency: 400 * machine.KHz,
	}); err != nil {
		return fmt.Errorf("failed to configure I2C: %w", err)
	}

	// The display needs a moment after a cold boot.
	time.Sleep(100 * time.Millisecond)

	if err := d.bus.Tx(d.addr, []byte{0x00, ssd1306.DISPLAYOFF}, nil); err != nil {
		return errors.New("SSD1306 allocation failed")
	}

	d.dev.Configure(ssd1306.Config{
		Address:  d.addr,
		Width:    128,
		Height:   64,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	d.dev.ClearDisplay()
	return nil
}

// Clear implements controller.Display.
func (d *OLED) Clear() {
	d.dev.ClearBuffer()
}

// DrawText implements controller.Display. Size 1 uses a small pixel font,
// anything larger a sans font.
func (d *OLED) DrawText(text string, x, y int16, size uint8) {
	var font tinyfont.Fonter = &proggy.TinySZ8pt7b
	if size > 1 {
		font = &freesans.Regular9pt7b
	}

	height := int16(font.GetYAdvance())
	// tinyfont draws from the baseline, the caller means the top edge.
	baseline := y + height*3/4
	for _, line := range strings.Split(text, "\n") {
		tinyfont.WriteLine(&d.dev, font, x, baseline, line, white)
		baseline += height
	}
}

// Display implements controller.Display.
func (d *OLED) Display() error {
	return d.dev.Display()
}
