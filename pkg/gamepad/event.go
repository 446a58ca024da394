// Package gamepad drives a fighter from a Linux joystick device.
package gamepad

import "encoding/binary"

// EventType is the kind of input changed.
type EventType uint8

// Event types.
const (
	Button EventType = 0x01
	Axis   EventType = 0x02

	evInit uint8 = 0x80
)

// EventSize is the size of a js_event read from the device.
const EventSize = 8

// Event is an input change.
type Event struct {
	Type EventType
	// Index of the button or axis.
	Index int
	// Value is the axis position in [-32767, 32767] or 1 when a
	// button is pressed.
	Value int
	// Init marks the synthetic events reporting initial state.
	Init bool
}

// Pressed tells if a button event is a press.
func (e Event) Pressed() bool {
	return e.Type == Button && e.Value != 0
}

// DecodeEvent parses a js_event: u32 time, s16 value, u8 type, u8 number.
func DecodeEvent(buf []byte) Event {
	typ := buf[6]
	return Event{
		Type:  EventType(typ &^ evInit),
		Index: int(buf[7]),
		Value: int(int16(binary.LittleEndian.Uint16(buf[4:6]))),
		Init:  typ&evInit != 0,
	}
}
