// Package config loads and saves the host-side configuration: stick tuning,
// axis calibration and the behavior of both gestures. The firmware carries
// its own compile-time copy of these values; this package exists so the
// desktop pilot and the calibration tool can manage them as a file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/calvinmclean/cadstick"
	"github.com/calvinmclean/cadstick/axis"
	"github.com/calvinmclean/cadstick/gesture"
)

// Config mirrors the tuning constants baked into the firmware.
type Config struct {
	// Deadzone is the normalized deflection below which a stick is at rest
	Deadzone float64 `yaml:"deadzone"`

	// MaxUnwindStep caps the per-event displacement while unwinding
	MaxUnwindStep int `yaml:"maxUnwindStep"`

	// SettleDelayMs is slept after button and key changes
	SettleDelayMs int `yaml:"settleDelayMs"`

	// TickIntervalMs is the polling period
	TickIntervalMs int `yaml:"tickIntervalMs"`

	// CalibrateOnStart re-centers all axes from the first samples read
	CalibrateOnStart bool `yaml:"calibrateOnStart"`

	// JoystickReports enables the raw axis HID reports alongside the mouse
	JoystickReports bool `yaml:"joystickReports"`

	Pan   StickConfig `yaml:"pan"`
	Orbit StickConfig `yaml:"orbit"`

	// Calibration holds one entry per axis channel, horizontal before
	// vertical, pan stick before orbit stick
	Calibration []AxisCalibration `yaml:"calibration"`
}

// StickConfig is the per-stick behavior.
type StickConfig struct {
	Speed    float64 `yaml:"speed"`
	Buttons  Buttons `yaml:"buttons"`
	Modifier string  `yaml:"modifier"`
}

// Buttons selects which mouse buttons are held during a gesture.
type Buttons struct {
	Left   bool `yaml:"left"`
	Middle bool `yaml:"middle"`
	Right  bool `yaml:"right"`
}

// AxisCalibration is the measured range of one axis channel.
type AxisCalibration struct {
	Low    int `yaml:"low"`
	Center int `yaml:"center"`
	High   int `yaml:"high"`
}

// Default returns the configuration matching the firmware's built-in values.
func Default() Config {
	return Config{
		Deadzone:         0.02,
		MaxUnwindStep:    100,
		SettleDelayMs:    10,
		TickIntervalMs:   10,
		CalibrateOnStart: true,
		Pan:              StickConfig{Speed: -25, Buttons: Buttons{Middle: true}, Modifier: "none"},
		Orbit:            StickConfig{Speed: -10, Buttons: Buttons{Middle: true}, Modifier: "shift"},
		Calibration: []AxisCalibration{
			{Low: 3, Center: 520, High: 1021},
			{Low: 6, Center: 498, High: 1019},
			{Low: 3, Center: 530, High: 1021},
			{Low: 2, Center: 513, High: 1022},
		},
	}
}

// Load reads a configuration file and validates the result. Settings absent
// from the file keep their default values, so a file only needs the fields
// it changes.
func Load(path string) (Config, error) {
	cfg := Default()

	r, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("error opening config: %w", err)
	}
	defer r.Close()

	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("error reading config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path.
func (c Config) Save(path string) error {
	text, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := os.WriteFile(path, text, 0644); err != nil {
		return fmt.Errorf("error writing config %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration can drive the gesture machine.
func (c Config) Validate() error {
	if c.Deadzone < 0 {
		return fmt.Errorf("deadzone must not be negative, got %v", c.Deadzone)
	}
	if c.MaxUnwindStep <= 0 {
		return fmt.Errorf("maxUnwindStep must be positive, got %d", c.MaxUnwindStep)
	}
	if c.SettleDelayMs < 0 {
		return fmt.Errorf("settleDelayMs must not be negative, got %d", c.SettleDelayMs)
	}
	if c.TickIntervalMs <= 0 {
		return fmt.Errorf("tickIntervalMs must be positive, got %d", c.TickIntervalMs)
	}
	if len(c.Calibration) != cadstick.NumAxes {
		return fmt.Errorf("expected %d axis calibrations, got %d", cadstick.NumAxes, len(c.Calibration))
	}
	for i, a := range c.Calibration {
		if a.Low > a.Center || a.Center > a.High {
			return fmt.Errorf("axis %d calibration is not ordered: low=%d center=%d high=%d",
				i, a.Low, a.Center, a.High)
		}
	}
	if _, err := ParseModifier(c.Pan.Modifier); err != nil {
		return fmt.Errorf("pan: %w", err)
	}
	if _, err := ParseModifier(c.Orbit.Modifier); err != nil {
		return fmt.Errorf("orbit: %w", err)
	}
	return nil
}

// SettleDelay returns the settle delay as a duration.
func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// TickInterval returns the polling period as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// Gesture converts the file representation into the gesture machine's config.
func (c Config) Gesture() (gesture.Config, error) {
	pan, err := c.Pan.gestureStick()
	if err != nil {
		return gesture.Config{}, fmt.Errorf("pan: %w", err)
	}
	orbit, err := c.Orbit.gestureStick()
	if err != nil {
		return gesture.Config{}, fmt.Errorf("orbit: %w", err)
	}

	return gesture.Config{
		Deadzone:      c.Deadzone,
		MaxUnwindStep: c.MaxUnwindStep,
		SettleDelay:   c.SettleDelay(),
		Pan:           pan,
		Orbit:         orbit,
	}, nil
}

// Bank converts the calibration entries into an axis bank.
func (c Config) Bank() axis.Bank {
	var b axis.Bank
	for i, a := range c.Calibration {
		if i >= len(b) {
			break
		}
		b[i] = axis.Calibration{Low: a.Low, Center: a.Center, High: a.High}
	}
	return b
}

func (s StickConfig) gestureStick() (gesture.StickConfig, error) {
	mod, err := ParseModifier(s.Modifier)
	if err != nil {
		return gesture.StickConfig{}, err
	}

	return gesture.StickConfig{
		Speed: s.Speed,
		Buttons: gesture.Buttons{
			Left:   s.Buttons.Left,
			Middle: s.Buttons.Middle,
			Right:  s.Buttons.Right,
		},
		Modifier: mod,
	}, nil
}

// ParseModifier maps the file representation of a modifier key onto the
// gesture type. The empty string means no modifier.
func ParseModifier(s string) (gesture.Modifier, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return gesture.ModifierNone, nil
	case "shift":
		return gesture.ModifierShift, nil
	case "ctrl":
		return gesture.ModifierCtrl, nil
	case "alt":
		return gesture.ModifierAlt, nil
	}
	return gesture.ModifierNone, fmt.Errorf("unknown modifier %q", s)
}
