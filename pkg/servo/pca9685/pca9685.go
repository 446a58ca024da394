// Package pca9685 drives servos from a PCA9685 16-channel PWM board.
package pca9685

import (
	"fmt"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/pca9685"
	"periph.io/x/host/v3"

	"github.com/robotalks/toyctl/pkg/servo"
)

const (
	// DefaultAddr is the I2C address of an unmodified board.
	DefaultAddr uint16 = 0x40
	// Channels on the board.
	Channels = 16
	// Frequency is the servo refresh rate.
	Frequency = 50 * physic.Hertz

	periodMicros = 20000
	maxTicks     = 4095
)

type pwmSetter interface {
	SetPwm(channel int, on, off gpio.Duty) error
}

// Driver implements servo.Actuator.
type Driver struct {
	dev pwmSetter
	bus i2c.BusCloser
}

// Open initializes the host, opens the I2C bus (empty name for the
// first one) and configures the board at addr for servo output.
func Open(busName string, addr uint16) (*Driver, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open I2C bus %q: %w", busName, err)
	}
	dev, err := pca9685.NewI2C(bus, addr)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("pca9685 at %#x: %w", addr, err)
	}
	if err := dev.SetPwmFreq(Frequency); err != nil {
		bus.Close()
		return nil, fmt.Errorf("pca9685 set frequency: %w", err)
	}
	glog.Infof("pca9685 ready on %s at %#x", bus, addr)
	return &Driver{dev: dev, bus: bus}, nil
}

// Close releases the bus.
func (d *Driver) Close() error {
	if d.bus != nil {
		return d.bus.Close()
	}
	return nil
}

// Attach implements servo.Actuator.
func (d *Driver) Attach(pin servo.Pin) error {
	if pin < 0 || pin >= Channels {
		return fmt.Errorf("channel %d out of range [0, %d)", pin, Channels)
	}
	return nil
}

// WriteDegrees implements servo.Actuator.
func (d *Driver) WriteDegrees(pin servo.Pin, angle int) error {
	return d.WriteMicroseconds(pin, servo.DegreesToMicroseconds(angle))
}

// WriteMicroseconds implements servo.Actuator.
func (d *Driver) WriteMicroseconds(pin servo.Pin, us int) error {
	return d.dev.SetPwm(int(pin), 0, Ticks(us))
}

// Ticks converts a pulse width to the 12-bit off count of a 50Hz cycle.
func Ticks(us int) gpio.Duty {
	ticks := us * (maxTicks + 1) / periodMicros
	if ticks < 0 {
		return 0
	}
	if ticks > maxTicks {
		return maxTicks
	}
	return gpio.Duty(ticks)
}
