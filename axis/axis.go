// Package axis converts raw analog samples into signed unit-range values
// using per-axis calibration points.
package axis

import (
	"github.com/calvinmclean/cadstick"
)

// Calibration holds the reference points for one axis channel. Low and High
// are the physical extremes of the stick travel, Center is the resting
// position. Requires Low < Center < High for meaningful output.
type Calibration struct {
	Low    int
	Center int
	High   int
}

// Normalize maps a raw sample onto roughly [-1, 1]. Each side of center is
// scaled independently so the calibrated center maps to exactly 0 even when
// it sits off-middle between the physical extremes. The result is negated to
// match on-screen motion direction. Samples beyond Low or High produce values
// beyond ±1 and are passed through unclamped; a zero-width segment yields 0.
func (c Calibration) Normalize(raw int) float64 {
	span := c.High - c.Center
	if raw < c.Center {
		span = c.Center - c.Low
	}
	if span == 0 {
		return 0
	}
	return -float64(raw-c.Center) / float64(span)
}

// Bank is the calibration set for all four axis channels.
type Bank [cadstick.NumAxes]Calibration

// Normalize converts one raw sample per channel into normalized values.
func (b *Bank) Normalize(raw [cadstick.NumAxes]int) [cadstick.NumAxes]float64 {
	var out [cadstick.NumAxes]float64
	for i, c := range b {
		out[i] = c.Normalize(raw[i])
	}
	return out
}

// Recenter replaces each channel's center with the given raw sample, leaving
// the ends untouched. Used at startup with the sticks at rest.
func (b *Bank) Recenter(raw [cadstick.NumAxes]int) {
	for i := range b {
		b[i].Center = raw[i]
	}
}

// JoystickValue remaps a normalized value onto the 10-bit absolute range used
// for joystick reports: -1 maps to 0 and +1 maps to 1023.
func JoystickValue(n float64) int {
	return int((n + 1) / 2 * 1023)
}

// JoystickValues remaps a full set of normalized values for one report.
func JoystickValues(norm [cadstick.NumAxes]float64) [cadstick.NumAxes]int {
	var out [cadstick.NumAxes]int
	for i, n := range norm {
		out[i] = JoystickValue(n)
	}
	return out
}
