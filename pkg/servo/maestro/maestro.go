// Package maestro drives servos through a Pololu Maestro USB servo
// controller using its serial protocol.
package maestro

import (
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"
	"github.com/tarm/serial"

	"github.com/robotalks/toyctl/pkg/servo"
)

const (
	cmdSetTarget = 0x84

	// DefaultDevice is the factory device number.
	DefaultDevice uint8 = 12
	// MaxChannels is the channel count of the largest model.
	MaxChannels = 24
)

// Controller implements servo.Actuator.
type Controller struct {
	w       io.Writer
	device  uint8
	compact bool

	lock sync.Mutex
}

// New creates a Controller writing to w. Compact protocol is only
// valid when the Maestro is the single device on the line.
func New(w io.Writer, device uint8, compact bool) *Controller {
	return &Controller{w: w, device: device, compact: compact}
}

// Open opens the serial port of the Maestro command channel.
func Open(name string, baud int, device uint8) (*Controller, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open maestro %s: %w", name, err)
	}
	glog.Infof("maestro #%d on %s", device, name)
	return New(port, device, false), nil
}

// Close closes the underlying port if it's closable.
func (c *Controller) Close() error {
	if closer, ok := c.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func lo(x uint16) byte { return byte(x & 0x7f) }
func hi(x uint16) byte { return byte((x >> 7) & 0x7f) }

// SetTarget sets the target of channel in quarter-microseconds.
func (c *Controller) SetTarget(channel uint8, target uint16) error {
	var cmd []byte
	if c.compact {
		cmd = []byte{cmdSetTarget, channel}
	} else {
		cmd = []byte{0xaa, c.device, cmdSetTarget & 0x7f, channel}
	}
	cmd = append(cmd, lo(target), hi(target))
	c.lock.Lock()
	defer c.lock.Unlock()
	_, err := c.w.Write(cmd)
	return err
}

// Attach implements servo.Actuator.
func (c *Controller) Attach(pin servo.Pin) error {
	if pin < 0 || pin >= MaxChannels {
		return fmt.Errorf("channel %d out of range [0, %d)", pin, MaxChannels)
	}
	return nil
}

// WriteDegrees implements servo.Actuator.
func (c *Controller) WriteDegrees(pin servo.Pin, angle int) error {
	return c.WriteMicroseconds(pin, servo.DegreesToMicroseconds(angle))
}

// WriteMicroseconds implements servo.Actuator.
func (c *Controller) WriteMicroseconds(pin servo.Pin, us int) error {
	if us < 0 || us*4 > 0x3fff {
		return fmt.Errorf("pulse %dus out of range", us)
	}
	return c.SetTarget(uint8(pin), uint16(us*4))
}
