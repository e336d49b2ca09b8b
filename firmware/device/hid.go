package device

import (
	"machine/usb/hid/joystick"
	"machine/usb/hid/keyboard"
	"machine/usb/hid/mouse"

	"github.com/calvinmclean/cadstick"
	"github.com/calvinmclean/cadstick/gesture"
)

// joystickPort registers the 4-axis report alongside the default mouse and
// keyboard interfaces. UseSettings must run during init, before USB
// enumeration, so the report is always part of the descriptor; whether
// reports are sent is toggled at runtime. Report ID 4 avoids the IDs of the
// built-in mouse and keyboard reports. The two stick-press buttons are
// declared but never pressed.
var joystickPort = joystick.UseSettings(joystick.Definitions{
	ReportID:  4,
	ButtonCnt: 2,
	AxisDefs: []joystick.Constraint{
		{MinIn: 0, MaxIn: 1023, MinOut: 0, MaxOut: 1023},
		{MinIn: 0, MaxIn: 1023, MinOut: 0, MaxOut: 1023},
		{MinIn: 0, MaxIn: 1023, MinOut: 0, MaxOut: 1023},
		{MinIn: 0, MaxIn: 1023, MinOut: 0, MaxOut: 1023},
	},
}, nil, nil, nil)

// usbMouse drives the HID mouse endpoint. Button state is tracked so only
// changes produce reports, and large moves are split because one report
// carries at most ±127 per axis.
type usbMouse struct {
	buttons gesture.Buttons
}

func (m *usbMouse) Move(dx, dy int) {
	port := mouse.Port()
	for dx != 0 || dy != 0 {
		sx := clampReport(dx)
		sy := clampReport(dy)
		port.Move(sx, sy)
		dx -= sx
		dy -= sy
	}
}

func (m *usbMouse) SetButtons(b gesture.Buttons) {
	port := mouse.Port()

	if b.Left != m.buttons.Left {
		if b.Left {
			port.Press(mouse.Left)
		} else {
			port.Release(mouse.Left)
		}
	}
	if b.Middle != m.buttons.Middle {
		if b.Middle {
			port.Press(mouse.Middle)
		} else {
			port.Release(mouse.Middle)
		}
	}
	if b.Right != m.buttons.Right {
		if b.Right {
			port.Press(mouse.Right)
		} else {
			port.Release(mouse.Right)
		}
	}

	m.buttons = b
}

func clampReport(v int) int {
	if v > 127 {
		return 127
	}
	if v < -127 {
		return -127
	}
	return v
}

// usbKeyboard holds and releases the gesture modifier keys.
type usbKeyboard struct{}

func (usbKeyboard) Press(m gesture.Modifier) {
	if key, ok := modifierKeycode(m); ok {
		keyboard.Port().Down(key)
	}
}

func (usbKeyboard) Release(m gesture.Modifier) {
	if key, ok := modifierKeycode(m); ok {
		keyboard.Port().Up(key)
	}
}

func modifierKeycode(m gesture.Modifier) (keyboard.Keycode, bool) {
	switch m {
	case gesture.ModifierShift:
		return keyboard.KeyLeftShift, true
	case gesture.ModifierCtrl:
		return keyboard.KeyLeftCtrl, true
	case gesture.ModifierAlt:
		return keyboard.KeyLeftAlt, true
	}
	return 0, false
}

// usbJoystick mirrors the normalized axes as absolute 0..1023 values.
type usbJoystick struct{}

func (usbJoystick) SendAxes(values [cadstick.NumAxes]int) {
	for i, v := range values {
		joystickPort.SetAxis(i, v)
	}
	joystickPort.SendState()
}
