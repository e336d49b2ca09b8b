package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.bug.st/serial/enumerator"

	"github.com/calvinmclean/cadstick"
)

// ErrNoUSBSerial means no connected serial port looks like a USB device.
var ErrNoUSBSerial = errors.New("no USB serial ports found")

// SerialPortNone is the UI's placeholder entry for running without a device.
const SerialPortNone = "none"

// GetSerialPorts lists the names of connected USB serial ports.
func GetSerialPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var names []string
	for _, port := range ports {
		if port.IsUSB {
			names = append(names, port.Name)
		}
	}
	if len(names) == 0 {
		return nil, ErrNoUSBSerial
	}

	return names, nil
}

// ParseAxesLine parses one line of the device's verbose axis dump, in the
// form "axes 512,499,531,512". The second return is false for any other
// line.
func ParseAxesLine(line string) ([cadstick.NumAxes]int, bool) {
	var values [cadstick.NumAxes]int

	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "axes ")
	if !ok {
		return values, false
	}

	parts := strings.Split(rest, ",")
	if len(parts) != cadstick.NumAxes {
		return values, false
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return values, false
		}
		values[i] = v
	}

	return values, true
}
