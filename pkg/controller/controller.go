// Package controller runs command execution inside the control loop.
package controller

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/toyctl/pkg/command"
	fx "github.com/robotalks/toyctl/pkg/framework"
	"github.com/robotalks/toyctl/pkg/servo"
)

// StateListener is notified after servo angles changed. It's called
// from the loop and must not block.
type StateListener interface {
	StateChanged(cc fx.ControlContext, records []servo.Record)
}

// StateListenerFunc is the func form of StateListener.
type StateListenerFunc func(fx.ControlContext, []servo.Record)

// StateChanged implements StateListener.
func (f StateListenerFunc) StateChanged(cc fx.ControlContext, records []servo.Record) {
	f(cc, records)
}

// Controller decodes posted inputs and executes them on the bank.
type Controller struct {
	Executor  *command.Executor
	Decoder   command.TextDecoder
	Listeners []StateListener

	changes int
}

// New creates a Controller. The text decoder follows the bank layout.
func New(bank *servo.Bank) *Controller {
	return &Controller{
		Executor: command.NewExecutor(bank),
		Decoder:  command.TextDecoder{Toys: bank.Layout().Toys},
		changes:  1, // publish the initial state.
	}
}

// AddListener registers a StateListener.
func (c *Controller) AddListener(l StateListener) *Controller {
	c.Listeners = append(c.Listeners, l)
	return c
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvControl, fx.ControlFunc(c.HandleInputs))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(c.NotifyChanges))
}

// HandleInputs executes all posted inputs in order.
func (c *Controller) HandleInputs(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		in, ok := mc.CurrentMessage().(*Input)
		if !ok {
			return
		}
		mc.MessageTaken()
		res := c.Handle(in)
		if res.OK() {
			c.changes++
		}
		in.Complete(res)
	}))
	return nil
}

// Handle decodes and executes a single input.
func (c *Controller) Handle(in *Input) (res Result) {
	var err error
	switch in.Encoding {
	case Text:
		res.Command, err = c.Decoder.Decode(in.Line)
	case Frame:
		res.Command, err = command.DecodeFrame(in.Frame)
	default:
		err = fmt.Errorf("%w: unknown encoding %d", command.ErrMalformed, in.Encoding)
	}
	if err != nil {
		glog.Warningf("%s: %v", in.Source, err)
		res.Err = err
		return
	}
	res.Decoded = true
	res.Err = c.Executor.Do(res.Command)
	return
}

// NotifyChanges notifies listeners when any angle changed.
func (c *Controller) NotifyChanges(cc fx.ControlContext) error {
	changes := c.changes
	c.changes = 0
	if changes > 0 && len(c.Listeners) > 0 {
		records := c.Executor.Bank.Records()
		for _, l := range c.Listeners {
			l.StateChanged(cc, records)
		}
	}
	return nil
}
