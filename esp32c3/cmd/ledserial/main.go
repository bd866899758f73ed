// Command ledserial is the firmware for tethered mode. It streams touch pad
// readings to the host and shows whatever the host sends back.
package main

import (
	"machine"

	"libdb.so/tapglow/esp32c3"
)

func main() {
	device := NewDevice(
		machine.Serial,
		esp32c3.NewADCSensor(esp32c3.SensorPin),
		esp32c3.NewOLED(machine.I2C0, esp32c3.OLEDAddress),
		esp32c3.LEDPin,
	)
	device.Run()
}
