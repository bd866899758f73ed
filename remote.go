package tapglow

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"libdb.so/tapglow/controller"
	"libdb.so/tapglow/led"
	"libdb.so/tapglow/ledserial"
)

// remoteDevice is the microcontroller at the other end of the serial link,
// seen as the controller's sensor, display and strip.
type remoteDevice struct {
	ctx    context.Context
	cfg    *Config
	logger *slog.Logger
	w      io.Writer

	raw    atomic.Uint32
	acks   chan ledserial.IncomingPacketType
	faults chan ledserial.OutgoingPacket

	lines    []ledserial.TextLine
	sent     []ledserial.TextLine // last lines written to the device
	sentOnce bool
	pix      []uint8
}

var (
	_ controller.Sensor  = (*remoteDevice)(nil)
	_ controller.Display = (*remoteDevice)(nil)
	_ controller.Strip   = (*remoteDevice)(nil)
)

func newRemoteDevice(ctx context.Context, cfg *Config, logger *slog.Logger, w io.Writer) *remoteDevice {
	return &remoteDevice{
		ctx:    ctx,
		cfg:    cfg,
		logger: logger,
		w:      w,
		acks:   make(chan ledserial.IncomingPacketType, 16),
		faults: make(chan ledserial.OutgoingPacket, 4),
	}
}

// Read implements controller.Sensor. It returns the latest sample sent by the
// device, or 0 if there has been none yet.
func (d *remoteDevice) Read() uint16 {
	return uint16(d.raw.Load())
}

// Configure implements controller.Display. It initializes the device and
// waits until it reports that its display is up.
func (d *remoteDevice) Configure() error {
	samplePeriod := time.Duration(d.cfg.Touch.Tick) / time.Millisecond
	if samplePeriod < 1 {
		samplePeriod = 1
	}

	if !d.writePacket(ledserial.InitializePacket{
		NumLEDs:        uint16(d.cfg.Strip.LEDs),
		SamplePeriodMs: uint16(samplePeriod),
	}) {
		return errors.New("failed to send initialize packet")
	}

	timeout := time.NewTimer(time.Duration(d.cfg.InitTimeout))
	defer timeout.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return d.ctx.Err()
		case <-timeout.C:
			return errors.New("timed out waiting for the device")
		case t := <-d.acks:
			if t == ledserial.TypeInitializePacket {
				return nil
			}
		case p := <-d.faults:
			switch p := p.(type) {
			case ledserial.ErrorPacket:
				return errors.New(p.Message)
			case ledserial.PanicPacket:
				return errors.Errorf("device panicked: %s", p.Message)
			}
		}
	}
}

// Clear implements controller.Display.
func (d *remoteDevice) Clear() {
	d.lines = d.lines[:0]
}

// DrawText implements controller.Display.
func (d *remoteDevice) DrawText(text string, x, y int16, size uint8) {
	d.lines = append(d.lines, ledserial.TextLine{X: x, Y: y, Size: size, Text: text})
}

// Display implements controller.Display. The link is slow, so the screen is
// only sent when it differs from what the device already shows.
func (d *remoteDevice) Display() error {
	if d.sentOnce && slices.Equal(d.lines, d.sent) {
		return nil
	}
	if !d.writePacket(ledserial.DrawPacket{Lines: d.lines}) {
		return errors.New("failed to send draw packet")
	}
	d.sent = append(d.sent[:0], d.lines...)
	d.sentOnce = true
	return nil
}

// SetFrame implements controller.Strip.
func (d *remoteDevice) SetFrame(frame led.LEDs) {
	d.pix = frame.AppendPixels(d.pix[:0], d.cfg.Strip.ColorOrder)
}

// Show implements controller.Strip.
func (d *remoteDevice) Show() error {
	if !d.writePacket(ledserial.SetPacket{Pix: d.pix}) {
		return errors.New("failed to send set packet")
	}
	return nil
}

// blank turns the strip off.
func (d *remoteDevice) blank() {
	d.writePacket(ledserial.ClearPacket{})
}

// handlePacket stores what the device reported. Faults are handed to
// whoever is waiting on d.faults.
func (d *remoteDevice) handlePacket(ctx context.Context, p ledserial.OutgoingPacket) error {
	switch p := p.(type) {
	case ledserial.SamplePacket:
		d.raw.Store(uint32(p.Raw))

	case ledserial.AckPacket:
		select {
		case d.acks <- p.IncomingPacketType:
		default:
			// Nobody is waiting for frame acks.
		}

	case ledserial.LogPacket:
		d.logger.Info(
			"received log packet from controller",
			"message", p.Message)

	case ledserial.ErrorPacket, ledserial.PanicPacket:
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d.faults <- p:
		}

	default:
		return errors.Errorf("received unknown packet from controller: %s", p.Type())
	}
	return nil
}

func (d *remoteDevice) writePacket(p ledserial.IncomingPacket) bool {
	if err := ledserial.WriteIncomingPacket(d.w, p); err != nil {
		d.logger.Debug(
			"failed to write packet",
			"packet", p.Type(),
			"error", err)
		return false
	}
	return true
}
