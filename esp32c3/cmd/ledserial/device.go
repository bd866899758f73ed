package main

import (
	"fmt"
	"machine"
	"sync"
	"time"

	"libdb.so/tapglow/esp32c3"
	"libdb.so/tapglow/ledserial"
)

// Device stores the current state of the device.
type Device struct {
	serial SerialReadWriter
	sendMu sync.Mutex

	sensor *esp32c3.ADCSensor
	oled   *esp32c3.OLED
	ledPin machine.Pin
	strip  *esp32c3.Strip

	ledBuffer []byte
	sampling  bool
}

// NewDevice creates a new device.
func NewDevice(serial machine.Serialer, sensor *esp32c3.ADCSensor, oled *esp32c3.OLED, ledPin machine.Pin) *Device {
	return &Device{
		serial: WrapSerial(serial),
		sensor: sensor,
		oled:   oled,
		ledPin: ledPin,
	}
}

// Run runs the device loop forever.
func (d *Device) Run() {
	for {
		p, err := d.readPacket()
		if err != nil {
			d.logError(err)
			continue
		}

		if err := d.handlePacket(p); err != nil {
			d.logError(err)
		}
	}
}

// halt tells the host that the device gave up and stops for good.
func (d *Device) halt(err error) {
	d.logError(err)
	d.sendPacket(ledserial.PanicPacket{Message: "halted"})
	select {}
}

func (d *Device) logError(err error) {
	d.sendPacket(ledserial.ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p ledserial.OutgoingPacket) {
	d.sendMu.Lock()
	defer d.sendMu.Unlock()
	ledserial.WriteOutgoingPacket(d.serial, p)
}

func (d *Device) readPacket() (ledserial.IncomingPacket, error) {
	return ledserial.ReadIncomingPacket(d.serial, ledserial.ReadContext{
		NumLEDs:   uint16(len(d.ledBuffer) / 3),
		LEDBuffer: d.ledBuffer,
	})
}

func (d *Device) handlePacket(p ledserial.IncomingPacket) error {
	switch p := p.(type) {
	case ledserial.InitializePacket:
		if p.NumLEDs < 1 {
			return fmt.Errorf("invalid number of LEDs: %d", p.NumLEDs)
		}
		if err := d.oled.Configure(); err != nil {
			d.halt(err)
		}
		d.sendPacket(ledserial.LogPacket{Message: "display ready"})
		d.ledBuffer = make([]byte, 3*int(p.NumLEDs))
		d.strip = esp32c3.NewStrip(d.ledPin, int(p.NumLEDs))
		d.clearLEDs()
		d.startSampling(time.Duration(p.SamplePeriodMs) * time.Millisecond)

	case ledserial.ClearPacket:
		if d.strip == nil {
			return fmt.Errorf("not initialized")
		}
		d.clearLEDs()

	case ledserial.SetPacket:
		if d.strip == nil {
			return fmt.Errorf("not initialized")
		}
		d.strip.WriteRaw(p.Pix)

	case ledserial.DrawPacket:
		d.oled.Clear()
		for _, line := range p.Lines {
			d.oled.DrawText(line.Text, line.X, line.Y, line.Size)
		}
		if err := d.oled.Display(); err != nil {
			return fmt.Errorf("failed to update display: %w", err)
		}

	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	d.sendPacket(ledserial.AckPacket{
		IncomingPacketType: p.Type(),
	})
	return nil
}

func (d *Device) clearLEDs() {
	for i := range d.ledBuffer {
		d.ledBuffer[i] = 0
	}
	d.strip.WriteRaw(d.ledBuffer)
}

// startSampling streams sensor readings to the host. Only the first
// initialization starts the stream.
func (d *Device) startSampling(period time.Duration) {
	if d.sampling {
		return
	}
	if period <= 0 {
		period = 20 * time.Millisecond
	}
	d.sampling = true

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for range ticker.C {
			d.sendPacket(ledserial.SamplePacket{Raw: d.sensor.Read()})
		}
	}()
}
