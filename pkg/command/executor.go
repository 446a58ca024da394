package command

import (
	"github.com/golang/glog"

	"github.com/robotalks/toyctl/pkg/servo"
)

// Executor applies commands to a servo bank.
type Executor struct {
	Bank *servo.Bank
}

// NewExecutor creates an Executor.
func NewExecutor(bank *servo.Bank) *Executor {
	return &Executor{Bank: bank}
}

// Apply validates cmd, drives the servo and records the angle.
// Nothing is recorded unless the actuator accepted the write.
func (e *Executor) Apply(cmd Command) error {
	layout := e.Bank.Layout()
	if int(cmd.ToyID) >= layout.Toys {
		return ErrUnknownToy
	}
	if !cmd.Role.IsValid() {
		return ErrUnknownRole
	}
	index := layout.Resolve(cmd.ToyID, cmd.Role)
	angle := servo.Clamp(cmd.Angle)
	if err := e.Bank.Write(index, servo.SignalFor(cmd.Role, angle)); err != nil {
		return err
	}
	e.Bank.Record(index, angle)
	return nil
}

// Do applies cmd and logs the outcome.
func (e *Executor) Do(cmd Command) error {
	if err := e.Apply(cmd); err != nil {
		glog.Warningf("%s rejected: %v", cmd, err)
		return err
	}
	if glog.V(1) {
		glog.Infof("Toy%d %s set to angle %d", int(cmd.ToyID)+1, cmd.Role, servo.Clamp(cmd.Angle))
	}
	return nil
}

// Execute applies cmd and reports whether it succeeded.
func (e *Executor) Execute(cmd Command) bool {
	return e.Do(cmd) == nil
}
