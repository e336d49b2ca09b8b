// Package gesture implements the stick-to-motion state machine: dead-zone
// arbitration between the two sticks, gesture start/stop with settle delays,
// velocity-to-displacement mapping, and the bounded unwind that returns the
// pointer to its origin when a gesture ends.
package gesture

import (
	"errors"
	"math"
	"time"

	"github.com/calvinmclean/cadstick"
)

// Buttons is the absolute state of the three mouse button lines.
type Buttons struct {
	Left   bool
	Middle bool
	Right  bool
}

// Modifier is the key held during a gesture. Sink adapters translate it to
// their platform's key codes.
type Modifier int

const (
	ModifierNone Modifier = iota
	ModifierShift
	ModifierCtrl
	ModifierAlt
)

func (m Modifier) String() string {
	switch m {
	case ModifierShift:
		return "Shift"
	case ModifierCtrl:
		return "Ctrl"
	case ModifierAlt:
		return "Alt"
	default:
		return "None"
	}
}

// MouseSink receives relative pointer motion and absolute button state.
type MouseSink interface {
	Move(dx, dy int)
	SetButtons(b Buttons)
}

// KeySink receives modifier press and release events. It is never called with
// ModifierNone.
type KeySink interface {
	Press(m Modifier)
	Release(m Modifier)
}

// JoystickSink receives absolute axis reports in the 0..1023 range.
type JoystickSink interface {
	SendAxes(values [cadstick.NumAxes]int)
}

// StickConfig is the static per-stick behavior: buttons held for the whole
// gesture, an optional modifier key, and the speed scalar applied to the
// normalized deflection each tick. Speed is signed; a negative value inverts
// the motion direction.
type StickConfig struct {
	Speed    float64
	Buttons  Buttons
	Modifier Modifier
}

// Config has the tuning values shared by both sticks plus each stick's
// behavior.
type Config struct {
	// Deadzone is the normalized deflection below which a stick counts as
	// at rest. Shared by both sticks.
	Deadzone float64

	// MaxUnwindStep caps the per-event displacement during unwind. The HID
	// transport limits how far a single relative report may move, so the
	// unwind is split into steps of at most this many units per axis.
	MaxUnwindStep int

	// SettleDelay is slept after a button or key state change so the host
	// application registers it before the next pointer motion arrives.
	SettleDelay time.Duration

	Pan   StickConfig
	Orbit StickConfig
}

// Active reports whether a stick deflection escapes the dead zone. A stick is
// at rest only while both of its axes sit within ±threshold.
func Active(h, v, threshold float64) bool {
	return math.Abs(h) >= threshold || math.Abs(v) >= threshold
}

// Machine owns the gesture state. One gesture may be active at a time and it
// belongs to the stick that started it; the other stick is ignored until the
// origin stick returns to its dead zone. All methods must be called from a
// single goroutine.
type Machine struct {
	cfg   Config
	mouse MouseSink
	keys  KeySink

	active bool
	origin cadstick.Stick
	accumX int
	accumY int

	sleep func(time.Duration)
}

// New validates the configuration and builds a Machine emitting through the
// provided sinks.
func New(cfg Config, mouse MouseSink, keys KeySink) (Machine, error) {
	if mouse == nil || keys == nil {
		return Machine{}, errors.New("mouse and key sinks are required")
	}
	if cfg.MaxUnwindStep <= 0 {
		return Machine{}, errors.New("max unwind step must be positive")
	}
	if cfg.Deadzone < 0 {
		return Machine{}, errors.New("dead zone must not be negative")
	}

	return Machine{
		cfg:   cfg,
		mouse: mouse,
		keys:  keys,
		sleep: time.Sleep,
	}, nil
}

// Tick advances the machine by one polling cycle. norm holds the current
// normalized value of every axis channel. A gesture that ends on this tick
// unwinds to completion before Tick returns; no new gesture starts on the same
// tick.
func (m *Machine) Tick(norm [cadstick.NumAxes]float64) {
	if m.active {
		h, v := m.origin.Axes()
		if !Active(norm[h], norm[v], m.cfg.Deadzone) {
			m.endGesture()
			return
		}
	} else if !m.beginGesture(norm) {
		return
	}

	cfg := m.stickConfig(m.origin)
	h, v := m.origin.Axes()
	dx := int(cfg.Speed * norm[h])
	dy := int(cfg.Speed * norm[v])
	m.mouse.Move(dx, dy)
	m.accumX += dx
	m.accumY += dy
}

// Reset ends any active gesture, releasing buttons and keys and unwinding the
// accumulated displacement, so the host is not left mid-drag.
func (m *Machine) Reset() {
	if m.active {
		m.endGesture()
	}
}

// Gesture reports whether a gesture is in progress and which stick owns it.
func (m *Machine) Gesture() (cadstick.Stick, bool) {
	return m.origin, m.active
}

// Accumulated returns the net displacement sent since the gesture started.
func (m *Machine) Accumulated() (x, y int) {
	return m.accumX, m.accumY
}

// Deadzone returns the current dead-zone threshold.
func (m *Machine) Deadzone() float64 {
	return m.cfg.Deadzone
}

// SetDeadzone adjusts the dead-zone threshold at runtime.
func (m *Machine) SetDeadzone(d float64) error {
	if d < 0 {
		return errors.New("dead zone must not be negative")
	}
	m.cfg.Deadzone = d
	return nil
}

// beginGesture checks the sticks in priority order. Pan wins when both sticks
// leave the dead zone on the same tick.
func (m *Machine) beginGesture(norm [cadstick.NumAxes]float64) bool {
	for _, s := range [...]cadstick.Stick{cadstick.StickPan, cadstick.StickOrbit} {
		h, v := s.Axes()
		if Active(norm[h], norm[v], m.cfg.Deadzone) {
			m.start(s)
			return true
		}
	}
	return false
}

func (m *Machine) start(s cadstick.Stick) {
	m.origin = s
	m.accumX = 0
	m.accumY = 0
	m.active = true

	cfg := m.stickConfig(s)
	if cfg.Modifier != ModifierNone {
		m.keys.Press(cfg.Modifier)
	}
	// the host must see the modifier before the buttons, and the buttons
	// before the first motion event
	m.sleep(m.cfg.SettleDelay)
	m.mouse.SetButtons(cfg.Buttons)
	m.sleep(m.cfg.SettleDelay)
}

func (m *Machine) endGesture() {
	cfg := m.stickConfig(m.origin)
	m.mouse.SetButtons(Buttons{})
	if cfg.Modifier != ModifierNone {
		m.keys.Release(cfg.Modifier)
	}
	// the release must register before the unwind motion starts
	m.sleep(m.cfg.SettleDelay)
	Unwind(m.mouse, m.accumX, m.accumY, m.cfg.MaxUnwindStep)
	m.accumX = 0
	m.accumY = 0
	m.active = false
}

func (m *Machine) stickConfig(s cadstick.Stick) StickConfig {
	if s == cadstick.StickOrbit {
		return m.cfg.Orbit
	}
	return m.cfg.Pan
}
