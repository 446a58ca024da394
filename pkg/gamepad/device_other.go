//go:build !linux

package gamepad

import "errors"

// ErrUnsupported is returned on platforms without joystick support.
var ErrUnsupported = errors.New("joystick not supported on this platform")

// Device is a joystick device.
type Device struct {
	Index   int
	Name    string
	Axes    int
	Buttons int
}

// Open is not supported.
func Open(int) (*Device, error) { return nil, ErrUnsupported }

// Detect is not supported.
func Detect(int) (*Device, error) { return nil, ErrUnsupported }

// Close implements io.Closer.
func (d *Device) Close() error { return nil }

// ReadEvent is not supported.
func (d *Device) ReadEvent() (Event, error) { return Event{}, ErrUnsupported }
