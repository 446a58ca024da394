package servo

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
)

// Record is the state of one servo slot.
type Record struct {
	Index int
	Toy   uint8
	Role  Role
	Pin   Pin
	// Angle is the last commanded angle, after clamping.
	Angle int
}

// Bank owns the servo records and the actuator driving them.
// It's not safe for concurrent use: a single goroutine (the control
// loop) must own it.
type Bank struct {
	layout   Layout
	actuator Actuator
	records  []Record
}

// NewBank creates a Bank with every record centered.
func NewBank(layout Layout, actuator Actuator) (*Bank, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	b := &Bank{
		layout:   layout,
		actuator: actuator,
		records:  make([]Record, layout.Len()),
	}
	for n := range b.records {
		toy, role := layout.Slot(n)
		b.records[n] = Record{
			Index: n,
			Toy:   toy,
			Role:  role,
			Pin:   layout.Pins[n],
			Angle: Center,
		}
	}
	return b, nil
}

// Init attaches all pins and centers the servos.
func (b *Bank) Init() error {
	for _, rec := range b.records {
		if err := b.actuator.Attach(rec.Pin); err != nil {
			return fmt.Errorf("attach servo %d (pin %d): %w", rec.Index, rec.Pin, err)
		}
	}
	return b.Center()
}

// Center drives every servo to Center degrees.
func (b *Bank) Center() error {
	var errs []error
	for n := range b.records {
		if err := b.Write(n, Signal{Kind: Degrees, Value: Center}); err != nil {
			errs = append(errs, err)
			continue
		}
		b.Record(n, Center)
	}
	if len(errs) == 0 {
		glog.Infof("%d servos centered", len(b.records))
	}
	return errors.Join(errs...)
}

// Write sends sig to the servo at index. It doesn't touch the record.
func (b *Bank) Write(index int, sig Signal) error {
	pin := b.records[index].Pin
	if err := Write(b.actuator, pin, sig); err != nil {
		return &WriteError{Index: index, Pin: pin, Signal: sig, Err: err}
	}
	return nil
}

// Record stores the last commanded angle of the servo at index.
func (b *Bank) Record(index, angle int) {
	b.records[index].Angle = angle
}

// Angle is the last commanded angle of the servo at index.
func (b *Bank) Angle(index int) int {
	return b.records[index].Angle
}

// Records returns a copy of all records.
func (b *Bank) Records() []Record {
	return append([]Record(nil), b.records...)
}

// Len is the number of servos.
func (b *Bank) Len() int {
	return len(b.records)
}

// Layout returns the layout the bank was created with.
func (b *Bank) Layout() Layout {
	return b.layout
}
