package servo

// Angle limits in degrees.
const (
	MinAngle = 0
	MaxAngle = 180
	Center   = 90
)

// Pulse widths in microseconds.
const (
	// TriggerMinPulse and TriggerMaxPulse bound the range used by
	// the trigger servos, written as explicit pulse widths.
	TriggerMinPulse = 500
	TriggerMaxPulse = 2400

	// DefaultMinPulse and DefaultMaxPulse are the range of a degree
	// write on a generic hobby servo.
	DefaultMinPulse = 544
	DefaultMaxPulse = 2400
)

// Clamp limits angle to [MinAngle, MaxAngle].
func Clamp(angle int) int {
	if angle < MinAngle {
		return MinAngle
	}
	if angle > MaxAngle {
		return MaxAngle
	}
	return angle
}

// PulseWidth maps a clamped angle onto the trigger pulse range,
// rounding down.
func PulseWidth(angle int) int {
	return TriggerMinPulse + angle*(TriggerMaxPulse-TriggerMinPulse)/MaxAngle
}

// DegreesToMicroseconds maps an angle onto the default pulse range.
// Actuators without a native degree write use it.
func DegreesToMicroseconds(angle int) int {
	angle = Clamp(angle)
	return DefaultMinPulse + angle*(DefaultMaxPulse-DefaultMinPulse)/MaxAngle
}

// SignalKind tells how a Signal is written.
type SignalKind int

// Signal kinds.
const (
	// Degrees lets the actuator convert the angle.
	Degrees SignalKind = iota
	// Microseconds is a raw pulse width.
	Microseconds
)

func (k SignalKind) String() string {
	if k == Microseconds {
		return "us"
	}
	return "deg"
}

// Signal is a value written to a servo.
type Signal struct {
	Kind  SignalKind
	Value int
}

// SignalFor selects the signal for a clamped angle: trigger servos
// take an explicit pulse width, the weave servo takes degrees.
func SignalFor(role Role, angle int) Signal {
	if role.IsTrigger() {
		return Signal{Kind: Microseconds, Value: PulseWidth(angle)}
	}
	return Signal{Kind: Degrees, Value: angle}
}
