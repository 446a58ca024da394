package gamepad

import (
	"flag"
	"fmt"
	"math"

	"github.com/robotalks/toyctl/pkg/client"
)

// Config defines the configurations for the gamepad.
type Config struct {
	DeviceIndex int
	Toy         int
	DeadZone    int
	Verbose     bool
}

var defaultConfig = Config{
	DeviceIndex: -1,
	Toy:         1,
	DeadZone:    16384,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.DeviceIndex, "device", defaultConfig.DeviceIndex, "Device index, -1 for auto detection.")
	flag.IntVar(&defaultConfig.Toy, "toy", defaultConfig.Toy, "Toy to drive, starting from 1.")
	flag.IntVar(&defaultConfig.DeadZone, "dead-zone", defaultConfig.DeadZone, "Axis values within the dead zone are centered.")
	flag.BoolVar(&defaultConfig.Verbose, "verbose", defaultConfig.Verbose, "Print joystick events.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Toy < 1 || c.Toy > math.MaxUint8+1 {
		return fmt.Errorf("invalid toy %d", c.Toy)
	}
	if c.DeadZone < 0 || c.DeadZone > math.MaxInt16 {
		return fmt.Errorf("invalid dead zone %d, expect 0-%d", c.DeadZone, math.MaxInt16)
	}
	return nil
}

// NewPad creates a Pad driving the configured toy through setter.
func (c *Config) NewPad(setter client.ServoSetter) (*Pad, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	pad := NewPad(client.NewFighter(setter, uint8(c.Toy-1)))
	pad.DeviceIndex = c.DeviceIndex
	pad.Mapper.DeadZone = c.DeadZone
	pad.Verbose = c.Verbose
	return pad, nil
}
