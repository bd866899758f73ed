// Command tapglow is the standalone firmware: it samples the touch pad and
// drives the OLED and the LED strip on its own.
package main

import (
	"machine"
	"time"

	"libdb.so/tapglow/controller"
	"libdb.so/tapglow/esp32c3"
	"libdb.so/tapglow/touch"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(time.Second)

	cfg := esp32c3.Config()
	ctrl, err := controller.New(cfg, controller.Peripherals{
		Sensor:  esp32c3.NewADCSensor(esp32c3.SensorPin),
		Display: esp32c3.NewOLED(machine.I2C0, esp32c3.OLEDAddress),
		Strip:   esp32c3.NewStrip(esp32c3.LEDPin, cfg.NumLEDs),
		Clock:   touch.NewMonotonicClock(),
	})
	if err != nil {
		halt(err)
	}

	if err := ctrl.Init(); err != nil {
		halt(err)
	}
	println("display ready")

	ctrl.Trace = func(s controller.Snapshot) {
		println(s.Raw, "-", s.Tier.String())
	}

	ticker := time.NewTicker(cfg.TickPeriod)
	defer ticker.Stop()

	for range ticker.C {
		ctrl.Tick()
	}
}

// halt reports a fatal error and stops for good.
func halt(err error) {
	println("fatal:", err.Error())
	select {}
}
