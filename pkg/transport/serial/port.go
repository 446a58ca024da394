// Package serial receives text commands over a serial line.
package serial

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// DefaultBaud is the baud rate of the command line.
const DefaultBaud = 921600

// Port is a serial port.
type Port interface {
	io.ReadWriteCloser

	// Flush discards buffered data.
	Flush() error
}

// Config holds serial port configuration.
type Config struct {
	// Device path, e.g. /dev/ttyUSB0.
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
	// ReadTimeout of zero blocks reads.
	ReadTimeout time.Duration `yaml:"readTimeout"`
}

type nativePort struct {
	*serial.Port
}

// Open opens the serial port.
func Open(cfg Config) (Port, error) {
	baud := cfg.Baud
	if baud == 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}
	return &nativePort{Port: port}, nil
}
