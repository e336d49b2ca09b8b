package device

import (
	"machine"
	"time"

	"github.com/calvinmclean/cadstick"
	"github.com/calvinmclean/cadstick/axis"
	"github.com/calvinmclean/cadstick/gesture"
)

// InputConfig has the ADC pins sampled for the stick axes, in channel order:
// pan horizontal, pan vertical, orbit horizontal, orbit vertical
type InputConfig struct {
	Pins [cadstick.NumAxes]machine.Pin
}

// LEDConfig has the pin of the ws2812 status LED. A zero config disables the
// LED.
type LEDConfig struct {
	Pin machine.Pin
}

// MotionConfig has the gesture tuning, the factory calibration and the loop
// timing
type MotionConfig struct {
	// TickInterval is the polling period of the main loop
	TickInterval time.Duration

	// CalibrateOnStart records the first samples as the axis centers
	CalibrateOnStart bool

	// JoystickReports enables the raw axis HID reports at startup. The J
	// console command toggles them at runtime.
	JoystickReports bool

	Gesture     gesture.Config
	Calibration axis.Bank
}
