// Package command decodes servo commands and executes them on a servo bank.
package command

import (
	"errors"
	"fmt"

	"github.com/robotalks/toyctl/pkg/servo"
)

// FrameSize is the length of a binary command frame.
const FrameSize = 3

var (
	// ErrMalformed indicates the input can't be decoded.
	ErrMalformed = errors.New("malformed command")
	// ErrFrameSize indicates a binary frame of the wrong length.
	ErrFrameSize = fmt.Errorf("%w: frame must be %d bytes", ErrMalformed, FrameSize)

	// ErrOutOfDomain indicates a decoded command addressing no servo.
	ErrOutOfDomain = errors.New("invalid servo parameters")
	// ErrUnknownToy indicates the toy id is beyond the layout.
	ErrUnknownToy = fmt.Errorf("%w: unknown toy", ErrOutOfDomain)
	// ErrUnknownRole indicates the role is not one of the servo roles.
	ErrUnknownRole = fmt.Errorf("%w: unknown role", ErrOutOfDomain)
)

// Command asks a servo of a toy to move to an angle.
type Command struct {
	ToyID uint8
	Role  servo.Role
	// Angle in degrees as received. It may be out of range and is
	// clamped when executed.
	Angle int
}

// String implements fmt.Stringer.
func (c Command) String() string {
	return fmt.Sprintf("toy%d_%s:%d", int(c.ToyID)+1, c.suffix(), c.Angle)
}

func (c Command) suffix() string {
	if s := c.Role.Suffix(); s != "" {
		return s
	}
	return fmt.Sprintf("r%d", uint8(c.Role))
}

// Text encodes the command as a line of the serial text protocol,
// without the newline.
func (c Command) Text() string {
	return c.String()
}

// Frame encodes the command as a binary frame. The angle is clamped
// to fit in a byte.
func (c Command) Frame() []byte {
	return []byte{c.ToyID, byte(c.Role), byte(servo.Clamp(c.Angle))}
}

// DecodeFrame decodes a binary frame: toy id, role, angle.
func DecodeFrame(frame []byte) (Command, error) {
	if len(frame) != FrameSize {
		return Command{}, ErrFrameSize
	}
	return Command{
		ToyID: frame[0],
		Role:  servo.Role(frame[1]),
		Angle: int(frame[2]),
	}, nil
}
