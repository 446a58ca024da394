package client

import (
	"fmt"

	"github.com/robotalks/toyctl/pkg/servo"
)

// Stance is a set of servo angles of one toy.
type Stance struct {
	// Trigger angles when the punch is out and when retracted.
	Trigger1Punch, Trigger1Rest int
	Trigger2Punch, Trigger2Rest int
	// Weave angles.
	WeaveGuard, WeaveLeft, WeaveRight int
}

// Stances tuned for the two toys of the board.
var (
	Player1Stance = Stance{
		Trigger1Punch: 90, Trigger1Rest: 150,
		Trigger2Punch: 80, Trigger2Rest: 30,
		WeaveGuard: 90, WeaveLeft: 135, WeaveRight: 45,
	}
	Player2Stance = Stance{
		Trigger1Punch: 130, Trigger1Rest: 180,
		Trigger2Punch: 70, Trigger2Rest: 20,
		WeaveGuard: 110, WeaveLeft: 135, WeaveRight: 65,
	}
)

// DefaultStance returns the stance of a toy, toys beyond the second
// use the first toy's.
func DefaultStance(toy uint8) Stance {
	if toy == 1 {
		return Player2Stance
	}
	return Player1Stance
}

// Direction of a weave.
type Direction int

// Directions.
const (
	Middle Direction = iota
	Left
	Right
)

// ParseDirection parses "left"/"l", "right"/"r" or "middle"/"m".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	case "middle", "m":
		return Middle, nil
	}
	return Middle, fmt.Errorf("unknown direction %q", s)
}

// Fighter issues moves of one toy and tracks which triggers are out.
type Fighter struct {
	Toy    uint8
	Stance Stance
	Setter ServoSetter

	punched [2]bool
}

// NewFighter creates a Fighter with the default stance of toy.
func NewFighter(setter ServoSetter, toy uint8) *Fighter {
	return &Fighter{Toy: toy, Stance: DefaultStance(toy), Setter: setter}
}

// Guard retracts both triggers and centers the weave.
func (f *Fighter) Guard() error {
	if err := f.Setter.SetServo(f.Toy, servo.Trigger1, f.Stance.Trigger1Rest); err != nil {
		return err
	}
	if err := f.Setter.SetServo(f.Toy, servo.Trigger2, f.Stance.Trigger2Rest); err != nil {
		return err
	}
	f.punched = [2]bool{}
	return f.Setter.SetServo(f.Toy, servo.Weave, f.Stance.WeaveGuard)
}

// Weave leans left or right, or back to the guard position.
func (f *Fighter) Weave(dir Direction) error {
	angle := f.Stance.WeaveGuard
	switch dir {
	case Left:
		angle = f.Stance.WeaveLeft
	case Right:
		angle = f.Stance.WeaveRight
	}
	return f.Setter.SetServo(f.Toy, servo.Weave, angle)
}

// Punch toggles a trigger between punch and rest.
func (f *Fighter) Punch(role servo.Role) error {
	if !role.IsTrigger() {
		return fmt.Errorf("%s is not a trigger", role)
	}
	angle := f.Stance.Trigger1Punch
	if f.punched[role] {
		angle = f.Stance.Trigger1Rest
	}
	if role == servo.Trigger2 {
		angle = f.Stance.Trigger2Punch
		if f.punched[role] {
			angle = f.Stance.Trigger2Rest
		}
	}
	if err := f.Setter.SetServo(f.Toy, role, angle); err != nil {
		return err
	}
	f.punched[role] = !f.punched[role]
	return nil
}
