// Package pilot runs the stick-to-motion pipeline on a desktop machine,
// reading axes from a local source instead of the microcontroller's ADC and
// emitting through virtual input devices.
package pilot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/calvinmclean/cadstick"
	"github.com/calvinmclean/cadstick/axis"
	"github.com/calvinmclean/cadstick/config"
	"github.com/calvinmclean/cadstick/gesture"
)

// AxisSource produces raw axis samples in the 0..1023 range the calibration
// tables expect.
type AxisSource interface {
	ReadAxes() ([cadstick.NumAxes]int, error)
	Close() error
}

// Pilot polls an axis source at a fixed rate and drives the gesture machine
// with the normalized values.
type Pilot struct {
	cfg      config.Config
	source   AxisSource
	bank     axis.Bank
	machine  gesture.Machine
	joystick gesture.JoystickSink
}

// New builds a Pilot from a validated config and the source and sinks to run
// against.
func New(cfg config.Config, source AxisSource, mouse gesture.MouseSink, keys gesture.KeySink) (*Pilot, error) {
	if source == nil {
		return nil, errors.New("axis source is required")
	}

	gestureCfg, err := cfg.Gesture()
	if err != nil {
		return nil, err
	}
	machine, err := gesture.New(gestureCfg, mouse, keys)
	if err != nil {
		return nil, err
	}

	return &Pilot{
		cfg:     cfg,
		source:  source,
		bank:    cfg.Bank(),
		machine: machine,
	}, nil
}

// EnableJoystick mirrors the normalized axes to sink as 0..1023 reports each
// tick.
func (p *Pilot) EnableJoystick(sink gesture.JoystickSink) {
	p.joystick = sink
}

// Run polls the source until ctx is canceled or a read fails. Any gesture
// still active on the way out is ended and unwound so the desktop is not
// left mid-drag.
func (p *Pilot) Run(ctx context.Context) error {
	if p.cfg.CalibrateOnStart {
		raw, err := p.source.ReadAxes()
		if err != nil {
			return fmt.Errorf("error reading axes for recentering: %w", err)
		}
		p.bank.Recenter(raw)
		log.Printf("recentered axes at %v", raw)
	}

	ticker := time.NewTicker(p.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.machine.Reset()
			return nil
		case <-ticker.C:
		}

		raw, err := p.source.ReadAxes()
		if err != nil {
			p.machine.Reset()
			return fmt.Errorf("error reading axes: %w", err)
		}

		norm := p.bank.Normalize(raw)
		if p.joystick != nil {
			p.joystick.SendAxes(axis.JoystickValues(norm))
		}
		p.machine.Tick(norm)
	}
}
