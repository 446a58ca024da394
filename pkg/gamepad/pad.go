package gamepad

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/toyctl/pkg/client"
	fx "github.com/robotalks/toyctl/pkg/framework"
	"github.com/robotalks/toyctl/pkg/servo"
)

// Buttons and axes used by the Mapper.
const (
	ButtonPunch1 = 0
	ButtonPunch2 = 1
	ButtonGuard  = 2
	AxisWeave    = 0
)

// Mapper turns events into fighter moves.
type Mapper struct {
	Fighter  *client.Fighter
	DeadZone int

	weave client.Direction
}

// Handle applies the move bound to the event, if any.
func (m *Mapper) Handle(ev Event) error {
	if ev.Init {
		return nil
	}
	switch ev.Type {
	case Button:
		if !ev.Pressed() {
			return nil
		}
		switch ev.Index {
		case ButtonPunch1:
			return m.Fighter.Punch(servo.Trigger1)
		case ButtonPunch2:
			return m.Fighter.Punch(servo.Trigger2)
		case ButtonGuard:
			m.weave = client.Middle
			return m.Fighter.Guard()
		}
	case Axis:
		if ev.Index != AxisWeave {
			return nil
		}
		dir := client.Middle
		switch {
		case ev.Value < -m.DeadZone:
			dir = client.Left
		case ev.Value > m.DeadZone:
			dir = client.Right
		}
		if dir == m.weave {
			return nil
		}
		if err := m.Fighter.Weave(dir); err != nil {
			return err
		}
		m.weave = dir
	}
	return nil
}

// EventReader is the source of events.
type EventReader interface {
	io.Closer
	ReadEvent() (Event, error)
}

// Pad reads a joystick and drives one toy.
type Pad struct {
	Mapper      Mapper
	DeviceIndex int
	Verbose     bool
	// RetryInterval between attempts to open the device.
	RetryInterval time.Duration
}

// NewPad creates a Pad.
func NewPad(fighter *client.Fighter) *Pad {
	return &Pad{
		Mapper:        Mapper{Fighter: fighter, DeadZone: defaultConfig.DeadZone},
		DeviceIndex:   -1,
		RetryInterval: time.Second,
	}
}

// Run implements Runnable. The device is reopened when it's unplugged.
func (p *Pad) Run(ctx context.Context) error {
	for {
		if dev := p.open(); dev != nil {
			glog.Infof("Joystick %d %q opened", dev.Index, dev.Name)
			err := p.Serve(ctx, dev)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			glog.Warningf("Joystick %d lost: %v", dev.Index, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.RetryInterval):
		}
	}
}

func (p *Pad) open() *Device {
	if p.DeviceIndex >= 0 {
		dev, err := Open(p.DeviceIndex)
		if err != nil {
			glog.Errorf("Open joystick %d error: %v", p.DeviceIndex, err)
			return nil
		}
		return dev
	}
	dev, err := Detect(0)
	if err != nil {
		glog.Errorf("Detect joystick error: %v", err)
	} else if dev == nil {
		glog.V(1).Info("No joystick detected")
	}
	return dev
}

// Serve reads events from r until it fails or ctx is done. r is closed
// on return. Failed moves are logged and don't stop serving.
func (p *Pad) Serve(ctx context.Context, r EventReader) error {
	return fx.RunWithContextCloser(ctx, r, func() error {
		for {
			ev, err := r.ReadEvent()
			if err != nil {
				return err
			}
			if p.Verbose {
				glog.Infof("Event %+v", ev)
			}
			if err := p.Mapper.Handle(ev); err != nil {
				glog.Errorf("Move error: %v", err)
			}
		}
	})
}
