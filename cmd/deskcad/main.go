// deskcad runs the stick-to-motion engine on a desktop machine, reading a
// gamepad or an ADS1015 ADC and emitting through Linux uinput devices. It
// is the way to try the CAD stick behavior without flashing the firmware.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/calvinmclean/cadstick"
	"github.com/calvinmclean/cadstick/config"
	"github.com/calvinmclean/cadstick/pilot"
	"github.com/calvinmclean/cadstick/profiles"
)

func main() {
	var (
		configPath = flag.String("config", "", "configuration YAML; built-in defaults when empty")
		profileID  = flag.String("profile", "", "profile ID to fetch from the profile server instead of a local file")
		serverAddr = flag.String("server", os.Getenv("CADSTICK_SERVER"), "profile server address")
		sourceName = flag.String("source", "gamepad", `axis source: "gamepad" or "ads1015"`)
		gamepadID  = flag.Int("gamepad", 0, "gamepad device number")
		axesFlag   = flag.String("axes", "0,1,2,3", "gamepad axis numbers for pan H, pan V, orbit H, orbit V")
		i2cBus     = flag.String("i2c", "", "I2C bus for the ADS1015; empty for the first available")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, *configPath, *profileID, *serverAddr)
	if err != nil {
		log.Fatal(err)
	}

	source, err := openSource(*sourceName, *gamepadID, *axesFlag, *i2cBus)
	if err != nil {
		log.Fatal(err)
	}
	defer source.Close()

	mouse, err := pilot.NewMouse()
	if err != nil {
		log.Fatal(err)
	}
	defer mouse.Close()

	keyboard, err := pilot.NewKeyboard()
	if err != nil {
		log.Fatal(err)
	}
	defer keyboard.Close()

	p, err := pilot.New(cfg, source, mouse, keyboard)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("running at %v per tick, press Ctrl-C to stop", cfg.TickInterval())
	if err := p.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(ctx context.Context, path, profileID, serverAddr string) (config.Config, error) {
	switch {
	case profileID != "":
		if serverAddr == "" {
			return config.Config{}, errors.New("-profile requires a server address (-server or CADSTICK_SERVER)")
		}
		cfg, err := profiles.NewClient(serverAddr).Fetch(ctx, profileID)
		if err != nil {
			return config.Config{}, fmt.Errorf("error fetching profile %q: %w", profileID, err)
		}
		log.Printf("using profile %q from %s", profileID, serverAddr)
		return cfg, nil
	case path != "":
		return config.Load(path)
	}
	return config.Default(), nil
}

func openSource(name string, gamepadID int, axesFlag, i2cBus string) (pilot.AxisSource, error) {
	switch name {
	case "gamepad":
		mapping, err := parseAxesMapping(axesFlag)
		if err != nil {
			return nil, err
		}
		return pilot.OpenGamepad(gamepadID, mapping)
	case "ads1015":
		return pilot.OpenADS1015(i2cBus)
	}
	return nil, fmt.Errorf("unknown axis source %q", name)
}

func parseAxesMapping(s string) ([cadstick.NumAxes]int, error) {
	var mapping [cadstick.NumAxes]int

	parts := strings.Split(s, ",")
	if len(parts) != cadstick.NumAxes {
		return mapping, fmt.Errorf("expected %d axis numbers, got %q", cadstick.NumAxes, s)
	}
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return mapping, fmt.Errorf("invalid axis number %q: %w", part, err)
		}
		mapping[i] = n
	}
	return mapping, nil
}
