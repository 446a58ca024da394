// Package dryrun provides an Actuator which only logs and remembers
// what would have been written.
package dryrun

import (
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/toyctl/pkg/servo"
)

// Write is a recorded write.
type Write struct {
	Pin    servo.Pin
	Signal servo.Signal
}

// Actuator implements servo.Actuator without hardware.
type Actuator struct {
	// FailPins makes writes to these pins fail.
	FailPins map[servo.Pin]bool

	lock     sync.Mutex
	attached map[servo.Pin]bool
	writes   []Write
}

// New creates an Actuator.
func New() *Actuator {
	return &Actuator{attached: make(map[servo.Pin]bool)}
}

// Attach implements servo.Actuator.
func (a *Actuator) Attach(pin servo.Pin) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.attached == nil {
		a.attached = make(map[servo.Pin]bool)
	}
	a.attached[pin] = true
	glog.V(1).Infof("dryrun: attach pin %d", pin)
	return nil
}

// WriteDegrees implements servo.Actuator.
func (a *Actuator) WriteDegrees(pin servo.Pin, angle int) error {
	return a.write(pin, servo.Signal{Kind: servo.Degrees, Value: angle})
}

// WriteMicroseconds implements servo.Actuator.
func (a *Actuator) WriteMicroseconds(pin servo.Pin, us int) error {
	return a.write(pin, servo.Signal{Kind: servo.Microseconds, Value: us})
}

func (a *Actuator) write(pin servo.Pin, sig servo.Signal) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.FailPins[pin] {
		return fmt.Errorf("pin %d failed", pin)
	}
	if !a.attached[pin] {
		return fmt.Errorf("pin %d not attached", pin)
	}
	a.writes = append(a.writes, Write{Pin: pin, Signal: sig})
	glog.V(1).Infof("dryrun: pin %d <- %d%s", pin, sig.Value, sig.Kind)
	return nil
}

// Writes returns the recorded writes.
func (a *Actuator) Writes() []Write {
	a.lock.Lock()
	defer a.lock.Unlock()
	return append([]Write(nil), a.writes...)
}

// Last returns the last write, false if nothing was written.
func (a *Actuator) Last() (Write, bool) {
	a.lock.Lock()
	defer a.lock.Unlock()
	if len(a.writes) == 0 {
		return Write{}, false
	}
	return a.writes[len(a.writes)-1], true
}

// Reset forgets recorded writes.
func (a *Actuator) Reset() {
	a.lock.Lock()
	a.writes = nil
	a.lock.Unlock()
}
