package cadstick

// NumAxes is the number of analog channels: two sticks with a horizontal and
// vertical axis each.
const NumAxes = 4

// Stick identifies one of the two thumbsticks.
type Stick int

const (
	StickPan Stick = iota
	StickOrbit
)

func (s Stick) String() string {
	switch s {
	case StickPan:
		return "pan"
	case StickOrbit:
		return "orbit"
	default:
		return "unknown"
	}
}

// Axes returns the indices of the stick's horizontal and vertical axis
// channels.
func (s Stick) Axes() (h, v int) {
	if s == StickOrbit {
		return 2, 3
	}
	return 0, 1
}
