// Package client sends binary commands to a controller over TCP.
package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/robotalks/toyctl/pkg/command"
	"github.com/robotalks/toyctl/pkg/servo"
)

// ErrRejected is returned when the controller didn't execute a command.
var ErrRejected = errors.New("command rejected")

// DefaultTimeout bounds dialing and every command round trip.
const DefaultTimeout = 2 * time.Second

// ServoSetter moves a servo.
type ServoSetter interface {
	SetServo(toy uint8, role servo.Role, angle int) error
}

// Client is a connection to the command port.
type Client struct {
	Timeout time.Duration

	conn net.Conn
	lock sync.Mutex
}

// Dial connects to the controller at addr (host:port).
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, DefaultTimeout)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// New wraps an established connection.
func New(conn net.Conn) *Client {
	return &Client{Timeout: DefaultTimeout, conn: conn}
}

// RemoteAddr is the controller address.
func (c *Client) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Do sends cmd and waits for the ack.
func (c *Client) Do(cmd command.Command) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.Timeout > 0 {
		c.conn.SetDeadline(time.Now().Add(c.Timeout))
	}
	if _, err := c.conn.Write(cmd.Frame()); err != nil {
		return err
	}
	ack := make([]byte, command.AckSize)
	if _, err := io.ReadFull(c.conn, ack); err != nil {
		return err
	}
	switch {
	case bytes.Equal(ack, command.AckOK):
		return nil
	case bytes.Equal(ack, command.AckFailed):
		return fmt.Errorf("%s: %w", cmd, ErrRejected)
	}
	return fmt.Errorf("unexpected reply %q", ack)
}

// SetServo implements ServoSetter.
func (c *Client) SetServo(toy uint8, role servo.Role, angle int) error {
	return c.Do(command.Command{ToyID: toy, Role: role, Angle: angle})
}
