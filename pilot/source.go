package pilot

import (
	"fmt"
	"log"

	"github.com/0xcafed00d/joystick"

	"github.com/calvinmclean/cadstick"
)

// GamepadSource adapts a desktop game controller into stick axes. Driver
// values are ±32767 and get rescaled to the 0..1023 range the calibration
// tables expect.
type GamepadSource struct {
	js      joystick.Joystick
	mapping [cadstick.NumAxes]int
}

// OpenGamepad opens controller id and maps its axes onto the four channels,
// horizontal before vertical, pan stick before orbit stick.
func OpenGamepad(id int, mapping [cadstick.NumAxes]int) (*GamepadSource, error) {
	js, err := joystick.Open(id)
	if err != nil {
		return nil, fmt.Errorf("error opening joystick %d: %w", id, err)
	}

	for _, idx := range mapping {
		if idx < 0 || idx >= js.AxisCount() {
			js.Close()
			return nil, fmt.Errorf("%s has no axis %d (%d axes)", js.Name(), idx, js.AxisCount())
		}
	}

	log.Printf("opened %s: %d axes, %d buttons", js.Name(), js.AxisCount(), js.ButtonCount())

	return &GamepadSource{js: js, mapping: mapping}, nil
}

func (g *GamepadSource) ReadAxes() ([cadstick.NumAxes]int, error) {
	var out [cadstick.NumAxes]int

	state, err := g.js.Read()
	if err != nil {
		return out, fmt.Errorf("error reading joystick: %w", err)
	}

	for i, idx := range g.mapping {
		v := 0
		if idx < len(state.AxisData) {
			v = state.AxisData[idx]
		}
		out[i] = scaleGamepadAxis(v)
	}
	return out, nil
}

func (g *GamepadSource) Close() error {
	g.js.Close()
	return nil
}

// scaleGamepadAxis maps the driver's ±32767 range onto 0..1023.
func scaleGamepadAxis(v int) int {
	return (v + 32768) >> 6
}
