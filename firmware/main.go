package main

import (
	"machine"
	"time"

	"cadstick/firmware/device"

	"github.com/calvinmclean/cadstick"
	"github.com/calvinmclean/cadstick/axis"
	"github.com/calvinmclean/cadstick/gesture"
)

func main() {
	inputCfg := device.InputConfig{
		// pan H, pan V, orbit H, orbit V
		Pins: [cadstick.NumAxes]machine.Pin{machine.ADC0, machine.ADC1, machine.ADC2, machine.ADC3},
	}

	ledCfg := device.LEDConfig{
		Pin: machine.WS2812,
	}

	motionCfg := device.MotionConfig{
		TickInterval:     10 * time.Millisecond,
		CalibrateOnStart: true,
		JoystickReports:  false,
		Gesture: gesture.Config{
			Deadzone:      0.02,
			MaxUnwindStep: 100,
			SettleDelay:   10 * time.Millisecond,
			Pan: gesture.StickConfig{
				Speed:   -25,
				Buttons: gesture.Buttons{Middle: true},
			},
			Orbit: gesture.StickConfig{
				Speed:    -10,
				Buttons:  gesture.Buttons{Middle: true},
				Modifier: gesture.ModifierShift,
			},
		},
		Calibration: axis.Bank{
			{Low: 3, Center: 520, High: 1021},
			{Low: 6, Center: 498, High: 1019},
			{Low: 3, Center: 530, High: 1021},
			{Low: 2, Center: 513, High: 1022},
		},
	}

	d, err := device.New(inputCfg, ledCfg, motionCfg)
	if err != nil {
		panic(err)
	}

	d.Loop()
}
