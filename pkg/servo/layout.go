package servo

import "fmt"

// Pin identifies the output a servo is wired to. Depending on the
// actuator it's a GPIO number or a PWM channel.
type Pin int

// Layout describes how servos are wired: how many toys there are and
// which pin drives each slot. Slot i belongs to toy i/RolesPerToy
// with role i%RolesPerToy.
type Layout struct {
	Toys int   `yaml:"toys" json:"toys"`
	Pins []Pin `yaml:"pins" json:"pins"`
}

// DefaultLayout is the wiring of the two-toy board.
func DefaultLayout() Layout {
	return Layout{
		Toys: 2,
		Pins: []Pin{
			18, 19, 22, // toy1 trigger1, trigger2, weave
			27, 26, 25, // toy2
		},
	}
}

// Resolve maps a (toy, role) pair to its slot index.
func Resolve(toy uint8, role Role) int {
	return int(toy)*RolesPerToy + int(role)
}

// Len is the number of servo slots.
func (l Layout) Len() int {
	return l.Toys * RolesPerToy
}

// Contains tells if (toy, role) addresses a slot of the layout.
func (l Layout) Contains(toy uint8, role Role) bool {
	return int(toy) < l.Toys && role.IsValid()
}

// Resolve maps a (toy, role) pair to its slot index. The caller must
// check Contains first for the index to be in range.
func (l Layout) Resolve(toy uint8, role Role) int {
	return Resolve(toy, role)
}

// Slot is the inverse of Resolve.
func (l Layout) Slot(index int) (toy uint8, role Role) {
	return uint8(index / RolesPerToy), Role(index % RolesPerToy)
}

// Validate checks the pin table matches the toy count.
func (l Layout) Validate() error {
	if l.Toys < 1 || l.Toys > 256 {
		return fmt.Errorf("toys must be within [1, 256], got %d", l.Toys)
	}
	if len(l.Pins) != l.Len() {
		return fmt.Errorf("%d toys need %d pins, got %d", l.Toys, l.Len(), len(l.Pins))
	}
	seen := make(map[Pin]int, len(l.Pins))
	for n, pin := range l.Pins {
		if pin < 0 {
			return fmt.Errorf("pin %d of slot %d is negative", pin, n)
		}
		if prev, ok := seen[pin]; ok {
			return fmt.Errorf("pin %d used by slot %d and %d", pin, prev, n)
		}
		seen[pin] = n
	}
	return nil
}
