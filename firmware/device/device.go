package device

import (
	"errors"
	"image/color"
	"machine"
	"strconv"
	"time"

	"cadstick/firmware/commands"

	"github.com/calvinmclean/cadstick"
	"github.com/calvinmclean/cadstick/axis"
	"github.com/calvinmclean/cadstick/gesture"

	"tinygo.org/x/drivers/ws2812"
)

// Status LED colors: dim white while idle, green during pan, blue during
// orbit.
var (
	ledIdle  = color.RGBA{R: 4, G: 4, B: 4}
	ledPan   = color.RGBA{G: 40}
	ledOrbit = color.RGBA{B: 40}
)

// Device reads the analog sticks and drives the USB HID outputs. It owns the
// calibration, the gesture machine, the status LED and the serial console
// state.
type Device struct {
	adcs   [cadstick.NumAxes]machine.ADC
	bank   axis.Bank
	engine gesture.Machine

	joystick usbJoystick
	led      ws2812.Device
	hasLED   bool

	cfg MotionConfig

	verbose    bool
	joystickOn bool
	lastRaw    [cadstick.NumAxes]int
	prevActive bool
	ledColor   color.RGBA
}

// New initializes the ADC inputs, the USB HID endpoints and the status LED
// with the provided configs
func New(inputCfg InputConfig, ledCfg LEDConfig, motionCfg MotionConfig) (Device, error) {
	if motionCfg.TickInterval <= 0 {
		return Device{}, errors.New("tick interval must be positive")
	}

	machine.InitADC()

	var adcs [cadstick.NumAxes]machine.ADC
	for i, pin := range inputCfg.Pins {
		adcs[i] = machine.ADC{Pin: pin}
		adcs[i].Configure(machine.ADCConfig{})
	}

	engine, err := gesture.New(motionCfg.Gesture, &usbMouse{}, usbKeyboard{})
	if err != nil {
		return Device{}, errors.New("error creating gesture machine: " + err.Error())
	}

	d := Device{
		adcs:       adcs,
		bank:       motionCfg.Calibration,
		engine:     engine,
		cfg:        motionCfg,
		joystickOn: motionCfg.JoystickReports,
	}

	if ledCfg != (LEDConfig{}) {
		ledCfg.Pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		d.led = ws2812.New(ledCfg.Pin)
		d.hasLED = true
	}

	return d, nil
}

// Loop runs the device forever: poll the console, sample the sticks,
// normalize and tick the gesture machine
func (d *Device) Loop() {
	if d.cfg.CalibrateOnStart {
		d.bank.Recenter(d.readAxes())
	}

	for {
		commands.Poll(d)

		raw := d.readAxes()
		d.lastRaw = raw
		norm := d.bank.Normalize(raw)

		if d.joystickOn {
			d.joystick.SendAxes(axis.JoystickValues(norm))
		}

		d.engine.Tick(norm)
		d.reportTransitions()
		d.updateLED()

		if d.verbose {
			printAxesLine(raw)
		}

		time.Sleep(d.cfg.TickInterval)
	}
}

func (d *Device) readAxes() [cadstick.NumAxes]int {
	var raw [cadstick.NumAxes]int
	for i := range d.adcs {
		// scale the 16 bit ADC reading down to the 10 bit range the
		// calibrations use
		raw[i] = int(d.adcs[i].Get() >> 6)
	}
	return raw
}

// reportTransitions prints one line per gesture start and end so the host
// monitor can follow the state.
func (d *Device) reportTransitions() {
	s, active := d.engine.Gesture()
	if active == d.prevActive {
		return
	}

	if active {
		println(s.String() + " start")
	} else {
		println(s.String() + " end")
	}
	d.prevActive = active
}

func (d *Device) updateLED() {
	if !d.hasLED {
		return
	}

	c := ledIdle
	if s, active := d.engine.Gesture(); active {
		c = ledPan
		if s == cadstick.StickOrbit {
			c = ledOrbit
		}
	}

	if c == d.ledColor {
		return
	}
	d.ledColor = c
	d.led.WriteColors([]color.RGBA{c})
}

// Recenter replaces every axis center with the current stick position
func (d *Device) Recenter() {
	d.bank.Recenter(d.readAxes())
	println("recentered")
}

// ToggleVerbose switches the raw axes stream on or off
func (d *Device) ToggleVerbose() {
	d.verbose = !d.verbose
	if d.verbose {
		println("verbose on")
	} else {
		println("verbose off")
	}
}

// ToggleJoystick switches the joystick HID reports on or off
func (d *Device) ToggleJoystick() {
	d.joystickOn = !d.joystickOn
	if d.joystickOn {
		println("joystick on")
	} else {
		println("joystick off")
	}
}

// PrintAxes prints a single line of raw axis values
func (d *Device) PrintAxes() {
	printAxesLine(d.lastRaw)
}

// Debug prints details of the Device's state
func (d *Device) Debug() {
	s, active := d.engine.Gesture()
	state := "idle"
	if active {
		state = s.String()
	}

	x, y := d.engine.Accumulated()
	println("state="+state, "accum:", x, y, "deadzone/1000:", thousandths(d.engine.Deadzone()),
		"joystick:", d.joystickOn, "verbose:", d.verbose)
}

// DumpCalibration prints the calibration triple for every axis
func (d *Device) DumpCalibration() {
	for i, c := range d.bank {
		println("axis", i, "low", c.Low, "center", c.Center, "high", c.High)
	}
}

// SetDeadzone adjusts the dead zone at runtime
func (d *Device) SetDeadzone(v float64) error {
	err := d.engine.SetDeadzone(v)
	if err != nil {
		return err
	}

	println("deadzone/1000:", thousandths(v))
	return nil
}

func thousandths(v float64) int {
	return int(v*1000 + 0.5)
}

func (d *Device) ReadByte() (byte, error) {
	return machine.Serial.ReadByte()
}

func (d *Device) WriteByte(b byte) error {
	return machine.Serial.WriteByte(b)
}

func printAxesLine(raw [cadstick.NumAxes]int) {
	line := "axes "
	for i, v := range raw {
		if i > 0 {
			line += ","
		}
		line += strconv.Itoa(v)
	}
	println(line)
}
