package pilot

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"

	"github.com/calvinmclean/cadstick"
)

// ADS1015Source reads the sticks through an ADS1015 I2C converter, for
// wiring analog thumbsticks straight to a single-board computer.
type ADS1015Source struct {
	bus  i2c.BusCloser
	pins [cadstick.NumAxes]ads1x15.AnalogPin
}

// OpenADS1015 opens the named I2C bus (empty string for the first available)
// and configures all four single-ended channels.
func OpenADS1015(busName string) (*ADS1015Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("error opening I2C bus %q: %w", busName, err)
	}

	adc, err := ads1x15.NewADS1015(bus, &ads1x15.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("error creating ADS1015: %w", err)
	}

	channels := [cadstick.NumAxes]ads1x15.Channel{
		ads1x15.Channel0, ads1x15.Channel1, ads1x15.Channel2, ads1x15.Channel3,
	}

	src := &ADS1015Source{bus: bus}
	for i, ch := range channels {
		pin, err := adc.PinForChannel(ch, 3300*physic.MilliVolt, 100*physic.Hertz, ads1x15.SaveEnergy)
		if err != nil {
			bus.Close()
			return nil, fmt.Errorf("error configuring channel %d: %w", i, err)
		}
		src.pins[i] = pin
	}

	return src, nil
}

func (s *ADS1015Source) ReadAxes() ([cadstick.NumAxes]int, error) {
	var out [cadstick.NumAxes]int

	for i, pin := range s.pins {
		sample, err := pin.Read()
		if err != nil {
			return out, fmt.Errorf("error reading channel %d: %w", i, err)
		}
		out[i] = scaleADS1015(sample.Raw)
	}
	return out, nil
}

func (s *ADS1015Source) Close() error {
	for _, pin := range s.pins {
		_ = pin.Halt()
	}
	return s.bus.Close()
}

// scaleADS1015 halves the converter's signed 12-bit reading to land in
// 0..1023. The exact scale does not matter since calibration measures the
// real travel, but readings must stay inside the 10-bit window.
func scaleADS1015(raw int32) int {
	v := int(raw) >> 1
	if v < 0 {
		return 0
	}
	if v > 1023 {
		return 1023
	}
	return v
}
