package ui

import (
	"fmt"
	"io"
)

// consoleWrapper turns button presses into the single-character commands the
// firmware console understands.
type consoleWrapper struct {
	writer io.Writer
}

func (c *consoleWrapper) Recenter() {
	fmt.Fprintf(c.writer, "z\n")
}

func (c *consoleWrapper) ToggleVerbose() {
	fmt.Fprintf(c.writer, "V\n")
}

func (c *consoleWrapper) ToggleJoystick() {
	fmt.Fprintf(c.writer, "J\n")
}

func (c *consoleWrapper) Debug() {
	fmt.Fprintf(c.writer, "D\n")
}

func (c *consoleWrapper) DumpCalibration() {
	fmt.Fprintf(c.writer, "C\n")
}

func (c *consoleWrapper) SetDeadzone(value float64) {
	fmt.Fprintf(c.writer, "d%03.0f\n", value*1000)
}
