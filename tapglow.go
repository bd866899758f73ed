// Package tapglow is the host side of a tethered tapglow device. The device
// streams raw touch pad readings over USB serial; the daemon runs the
// feedback loop and sends back LED frames and status text.
package tapglow

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"

	"libdb.so/tapglow/controller"
	"libdb.so/tapglow/ledserial"
	"libdb.so/tapglow/touch"
)

// Daemon is the main tapglow daemon.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger

	// WaitForDevice makes Run wait for the device file to appear instead of
	// failing when it is missing.
	WaitForDevice bool
}

// NewDaemon creates a new tapglow daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run starts the daemon. It blocks until the given context is canceled or
// the device fails. A device whose display cannot be brought up makes Run
// return an error wrapping controller.ErrDisplayUnavailable.
func (d *Daemon) Run(ctx context.Context) error {
	if d.WaitForDevice {
		if err := waitForDevice(ctx, d.cfg.Device, d.logger); err != nil {
			return err
		}
	}

	port, err := serial.Open(d.cfg.Device, &serial.Mode{
		BaudRate: d.cfg.Baud,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open serial port")
	}
	defer port.Close()

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		return errors.Wrap(err, "failed to reset read timeout")
	}

	return (&internalDaemon{Daemon: d, link: port}).Run(ctx)
}

// shutdownGrace bounds how long closing the port waits for the strip to be
// turned off.
const shutdownGrace = time.Second

type internalDaemon struct {
	*Daemon
	link io.ReadWriteCloser
}

func (d *internalDaemon) Run(ctx context.Context) error {
	errg, ctx := errgroup.WithContext(ctx)

	// The port stays open until the main loop has blanked the strip, or
	// until shutdownGrace runs out if the link is stuck.
	mainDone := make(chan struct{})

	errg.Go(func() error {
		<-ctx.Done()
		select {
		case <-mainDone:
		case <-time.After(shutdownGrace):
		}
		d.logger.Debug("closing serial port")
		if err := d.link.Close(); err != nil {
			return errors.Wrap(err, "failed to close serial port")
		}
		return ctx.Err()
	})

	device := newRemoteDevice(ctx, d.cfg, d.logger, d.link)
	errg.Go(func() error {
		defer close(mainDone)
		return d.mainLoop(ctx, device)
	})
	errg.Go(func() error {
		return d.readPackets(ctx, device)
	})

	return errg.Wait()
}

func (d *internalDaemon) mainLoop(ctx context.Context, device *remoteDevice) error {
	ctrl, err := controller.New(d.cfg.Controller(), controller.Peripherals{
		Sensor:  device,
		Display: device,
		Strip:   device,
		Clock:   touch.NewMonotonicClock(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create controller")
	}

	d.logger.Debug("initializing device")
	if err := ctrl.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize device")
	}
	d.logger.Info("device ready", "leds", d.cfg.Strip.LEDs)

	ctrl.Trace = d.tracer()

	ticker := time.NewTicker(ctrl.Config().TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("turning the strip off")
			device.blank()
			return ctx.Err()

		case p := <-device.faults:
			switch p := p.(type) {
			case ledserial.ErrorPacket:
				d.logger.Warn(
					"received error packet from controller",
					"message", p.Message)
			case ledserial.PanicPacket:
				d.logger.Error(
					"controller unrecoverably panicked",
					"message", p.Message)
				return errors.New("controller panicked")
			}

		case <-ticker.C:
			ctrl.Tick()
		}
	}
}

// tracer logs every tick at debug level and tier changes at info level.
func (d *internalDaemon) tracer() func(controller.Snapshot) {
	last := touch.Released
	return func(s controller.Snapshot) {
		d.logger.Debug(
			"tick",
			"raw", s.Raw,
			"tier", s.Tier,
			"elapsed", s.Elapsed.Duration(),
			"phase", s.Phase,
			"lit", s.Lit)

		if s.Tier != last {
			d.logger.Info(
				"tier changed",
				"from", last,
				"to", s.Tier,
				"elapsed", s.Elapsed.Duration())
			last = s.Tier
		}
	}
}

func (d *internalDaemon) readPackets(ctx context.Context, device *remoteDevice) error {
	for ctx.Err() == nil {
		p, err := ledserial.ReadOutgoingPacket(d.link, ledserial.ReadContext{})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return errors.New("device disconnected")
			}
			return errors.Wrap(err, "failed to read packet")
		}

		if p.Type() != ledserial.TypeSamplePacket {
			d.logger.Debug(
				"received packet from controller",
				"type", p.Type())
		}

		if err := device.handlePacket(ctx, p); err != nil {
			return err
		}
	}

	return ctx.Err()
}
