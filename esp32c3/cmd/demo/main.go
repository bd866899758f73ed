// Command demo runs the feedback loop without a touch pad. It pretends the
// pad is held for a while and then released, over and over, so the strip
// and the display can be checked on the bench.
package main

import (
	"machine"
	"time"

	"libdb.so/tapglow/controller"
	"libdb.so/tapglow/esp32c3"
	"libdb.so/tapglow/touch"
)

const (
	holdFor    = 10 * time.Second
	releaseFor = 2 * time.Second
)

// scriptedSensor reads as touched for holdFor, then untouched for releaseFor.
type scriptedSensor struct {
	clock touch.Clock
}

func (s scriptedSensor) Read() uint16 {
	period := touch.MillisOf(holdFor + releaseFor)
	if s.clock.Now()%period < touch.MillisOf(holdFor) {
		return 4095
	}
	return 0
}

func main() {
	clock := touch.NewMonotonicClock()
	cfg := esp32c3.Config()
	ctrl, err := controller.New(cfg, controller.Peripherals{
		Sensor:  scriptedSensor{clock: clock},
		Display: esp32c3.NewOLED(machine.I2C0, esp32c3.OLEDAddress),
		Strip:   esp32c3.NewStrip(esp32c3.LEDPin, cfg.NumLEDs),
		Clock:   clock,
	})
	if err != nil {
		halt(err)
	}
	if err := ctrl.Init(); err != nil {
		halt(err)
	}

	ticker := time.NewTicker(cfg.TickPeriod)
	defer ticker.Stop()

	last := touch.Released
	for range ticker.C {
		s := ctrl.Tick()
		if s.Tier != last {
			println("tier:", s.Tier.String(), "lit:", s.Lit)
			last = s.Tier
		}
	}
}

// halt reports a fatal error and stops for good.
func halt(err error) {
	println("fatal:", err.Error())
	select {}
}
