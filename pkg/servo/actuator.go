package servo

import "fmt"

// Actuator drives servo outputs.
type Actuator interface {
	// Attach prepares the pin for servo output.
	Attach(Pin) error
	// WriteDegrees positions the servo using the actuator's own
	// degree to pulse mapping.
	WriteDegrees(pin Pin, angle int) error
	// WriteMicroseconds sets the pulse width directly.
	WriteMicroseconds(pin Pin, us int) error
}

// Write sends sig to pin.
func Write(act Actuator, pin Pin, sig Signal) error {
	if sig.Kind == Microseconds {
		return act.WriteMicroseconds(pin, sig.Value)
	}
	return act.WriteDegrees(pin, sig.Value)
}

// WriteError is returned when the actuator rejects a write.
type WriteError struct {
	Index  int
	Pin    Pin
	Signal Signal
	Err    error
}

// Error implements error.
func (e *WriteError) Error() string {
	return fmt.Sprintf("servo %d (pin %d) write %d%s: %v", e.Index, e.Pin, e.Signal.Value, e.Signal.Kind, e.Err)
}

// Unwrap returns the actuator error.
func (e *WriteError) Unwrap() error {
	return e.Err
}
