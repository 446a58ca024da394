package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/toyctl/pkg/command"
	fx "github.com/robotalks/toyctl/pkg/framework"
	"github.com/robotalks/toyctl/pkg/servo"
	"github.com/robotalks/toyctl/pkg/servo/dryrun"
)

func newTestController(t *testing.T) (*Controller, *dryrun.Actuator) {
	act := dryrun.New()
	bank, err := servo.NewBank(servo.DefaultLayout(), act)
	require.NoError(t, err)
	require.NoError(t, bank.Init())
	return New(bank), act
}

func TestHandle(t *testing.T) {
	c, _ := newTestController(t)
	testCases := []struct {
		name    string
		in      *Input
		decoded bool
		ok      bool
	}{
		{name: "text", in: NewTextInput("test", "toy1_t1:150"), decoded: true, ok: true},
		{name: "frame", in: NewFrameInput("test", []byte{1, 2, 65}), decoded: true, ok: true},
		{name: "malformed text", in: NewTextInput("test", "hello"), decoded: false},
		{name: "short frame", in: NewFrameInput("test", []byte{1}), decoded: false},
		{name: "unknown toy", in: NewFrameInput("test", []byte{2, 0, 90}), decoded: true},
		{name: "unknown role", in: NewFrameInput("test", []byte{0, 3, 90}), decoded: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := c.Handle(tc.in)
			require.Equal(t, tc.decoded, res.Decoded)
			require.Equal(t, tc.ok, res.OK())
		})
	}
	require.Equal(t, 150, c.Executor.Bank.Angle(0))
	require.Equal(t, 65, c.Executor.Bank.Angle(5))
}

func TestHandleWeaveFrame(t *testing.T) {
	c, act := newTestController(t)
	act.Reset()
	res := c.Handle(NewFrameInput("tcp", []byte{0x01, 0x02, 0x32}))
	require.True(t, res.Decoded)
	require.True(t, res.OK())
	require.Equal(t, command.Command{ToyID: 1, Role: servo.Weave, Angle: 50}, res.Command)
	require.Equal(t, 50, c.Executor.Bank.Angle(5))
	w, ok := act.Last()
	require.True(t, ok)
	require.Equal(t, dryrun.Write{Pin: 25, Signal: servo.Signal{Kind: servo.Degrees, Value: 50}}, w)
}

func TestHandleMalformedErrors(t *testing.T) {
	c, _ := newTestController(t)
	res := c.Handle(NewTextInput("test", ":90"))
	require.True(t, errors.Is(res.Err, command.ErrMalformed))
	res = c.Handle(NewFrameInput("test", []byte{9, 0, 0}))
	require.True(t, errors.Is(res.Err, command.ErrOutOfDomain))
}

func TestControllerInLoop(t *testing.T) {
	c, act := newTestController(t)
	act.Reset()

	states := make(chan []servo.Record, 16)
	c.AddListener(StateListenerFunc(func(cc fx.ControlContext, records []servo.Record) {
		states <- records
	}))

	inputs := []*Input{
		NewTextInput("serial", "toy2_w:110"),
		NewFrameInput("tcp", []byte{0, 1, 30}),
		NewFrameInput("tcp", []byte{0, 1}),
		NewTextInput("serial", "toy1_t1:200"),
	}
	results := make(chan Result, len(inputs))

	loop := fx.NewLoop()
	loop.Interval = 0
	loop.Add(c)
	loop.AddRunnable(fx.RunFunc(func(ctx context.Context) error {
		for _, in := range inputs {
			results <- Submit(ctx, in)
		}
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var oks []bool
	for range inputs {
		select {
		case res := <-results:
			oks = append(oks, res.OK())
		case <-time.After(time.Second):
			t.Fatal("timeout waiting results")
		}
	}
	require.Equal(t, []bool{true, true, false, true}, oks)

	writes := act.Writes()
	require.Len(t, writes, 3)
	require.Equal(t, dryrun.Write{Pin: 25, Signal: servo.Signal{Kind: servo.Degrees, Value: 110}}, writes[0])
	require.Equal(t, dryrun.Write{Pin: 19, Signal: servo.Signal{Kind: servo.Microseconds, Value: 816}}, writes[1])
	require.Equal(t, dryrun.Write{Pin: 18, Signal: servo.Signal{Kind: servo.Microseconds, Value: 2400}}, writes[2])

	deadline := time.After(time.Second)
	for {
		select {
		case records := <-states:
			if records[0].Angle == 180 {
				require.Equal(t, 110, records[5].Angle)
				require.Equal(t, 30, records[1].Angle)
				return
			}
		case <-deadline:
			t.Fatal("final state not published")
		}
	}
}

func TestDroppedInput(t *testing.T) {
	in := NewTextInput("test", "toy1_t1:1")
	in.Drop()
	in.Complete(Result{Decoded: true})
	res := <-in.ResultChan()
	require.True(t, errors.Is(res.Err, ErrDropped))
}
