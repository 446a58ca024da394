package gamepad

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/toyctl/pkg/client"
	"github.com/robotalks/toyctl/pkg/servo"
)

type move struct {
	toy   uint8
	role  servo.Role
	angle int
}

type recorder struct {
	moves []move
}

func (r *recorder) SetServo(toy uint8, role servo.Role, angle int) error {
	r.moves = append(r.moves, move{toy, role, angle})
	return nil
}

func encodeEvent(typ uint8, number uint8, value int16) []byte {
	buf := make([]byte, EventSize)
	binary.LittleEndian.PutUint32(buf, 1234)
	binary.LittleEndian.PutUint16(buf[4:], uint16(value))
	buf[6], buf[7] = typ, number
	return buf
}

func TestDecodeEvent(t *testing.T) {
	ev := DecodeEvent(encodeEvent(0x02, 1, -32767))
	require.Equal(t, Event{Type: Axis, Index: 1, Value: -32767}, ev)

	ev = DecodeEvent(encodeEvent(0x81, 3, 1))
	require.Equal(t, Event{Type: Button, Index: 3, Value: 1, Init: true}, ev)
	require.True(t, ev.Pressed())
}

func TestMapper(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		expect []move
	}{
		{
			name: "punch toggles",
			events: []Event{
				{Type: Button, Index: ButtonPunch1, Value: 1},
				{Type: Button, Index: ButtonPunch1, Value: 0},
				{Type: Button, Index: ButtonPunch1, Value: 1},
			},
			expect: []move{{0, servo.Trigger1, 90}, {0, servo.Trigger1, 150}},
		},
		{
			name: "second trigger",
			events: []Event{
				{Type: Button, Index: ButtonPunch2, Value: 1},
			},
			expect: []move{{0, servo.Trigger2, 80}},
		},
		{
			name: "guard",
			events: []Event{
				{Type: Button, Index: ButtonGuard, Value: 1},
			},
			expect: []move{{0, servo.Trigger1, 150}, {0, servo.Trigger2, 30}, {0, servo.Weave, 90}},
		},
		{
			name: "weave with dead zone",
			events: []Event{
				{Type: Axis, Index: AxisWeave, Value: -100},
				{Type: Axis, Index: AxisWeave, Value: -20000},
				{Type: Axis, Index: AxisWeave, Value: -32767},
				{Type: Axis, Index: AxisWeave, Value: 32767},
				{Type: Axis, Index: AxisWeave, Value: 0},
			},
			expect: []move{{0, servo.Weave, 135}, {0, servo.Weave, 45}, {0, servo.Weave, 90}},
		},
		{
			name: "ignored",
			events: []Event{
				{Type: Button, Index: ButtonPunch1, Value: 1, Init: true},
				{Type: Button, Index: 7, Value: 1},
				{Type: Axis, Index: 1, Value: 32767},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := &recorder{}
			m := &Mapper{Fighter: client.NewFighter(rec, 0), DeadZone: 16384}
			for _, ev := range test.events {
				require.NoError(t, m.Handle(ev))
			}
			require.Equal(t, test.expect, rec.moves)
		})
	}
}

type fakeReader struct {
	events []Event
	closed bool
}

func (r *fakeReader) ReadEvent() (Event, error) {
	if len(r.events) == 0 {
		return Event{}, io.EOF
	}
	ev := r.events[0]
	r.events = r.events[1:]
	return ev, nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func TestPadServe(t *testing.T) {
	rec := &recorder{}
	p := NewPad(client.NewFighter(rec, 1))
	r := &fakeReader{events: []Event{
		{Type: Button, Index: ButtonPunch2, Value: 1},
		{Type: Axis, Index: AxisWeave, Value: 32767},
	}}
	err := p.Serve(context.Background(), r)
	require.True(t, errors.Is(err, io.EOF))
	require.True(t, r.closed)
	require.Equal(t, []move{{1, servo.Trigger2, 70}, {1, servo.Weave, 65}}, rec.moves)
}

func TestConfigNewPad(t *testing.T) {
	testCases := []struct {
		name     string
		toy      int
		deadZone int
		valid    bool
	}{
		{name: "first toy", toy: 1, deadZone: 100, valid: true},
		{name: "last toy id", toy: 256, valid: true},
		{name: "zero toy", toy: 0},
		{name: "toy overflows id", toy: 257},
		{name: "negative dead zone", toy: 1, deadZone: -1},
		{name: "dead zone beyond axis", toy: 1, deadZone: 40000},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conf := Config{DeviceIndex: -1, Toy: tc.toy, DeadZone: tc.deadZone}
			pad, err := conf.NewPad(&recorder{})
			if !tc.valid {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, uint8(tc.toy-1), pad.Mapper.Fighter.Toy)
			require.Equal(t, tc.deadZone, pad.Mapper.DeadZone)
		})
	}
}
