// Package controller attaches to the stick controller's USB serial console.
// It bridges a local reader/writer pair to the device so the command
// characters understood by the firmware can be typed or scripted from the
// host.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"
)

// Config selects the serial connection to the device.
type Config struct {
	SerialPort string
	BaudRate   string
}

// Controller is an open console session with the device.
type Controller struct {
	cfg  Config
	port io.ReadWriteCloser
}

// New opens the configured serial port.
func New(cfg Config) (*Controller, error) {
	if cfg.SerialPort == "" || cfg.SerialPort == SerialPortNone {
		return nil, errors.New("no serial port configured")
	}

	baud, err := strconv.Atoi(cfg.BaudRate)
	if err != nil {
		return nil, fmt.Errorf("invalid baud rate %q: %w", cfg.BaudRate, err)
	}

	port, err := serial.Open(cfg.SerialPort, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", cfg.SerialPort, err)
	}

	return &Controller{cfg: cfg, port: port}, nil
}

// NewFromEnv builds the config from CADSTICK_PORT and CADSTICK_BAUD. When
// CADSTICK_PORT is unset, the first USB serial port found is used.
func NewFromEnv() (*Controller, error) {
	cfg := Config{
		SerialPort: os.Getenv("CADSTICK_PORT"),
		BaudRate:   os.Getenv("CADSTICK_BAUD"),
	}
	if cfg.BaudRate == "" {
		cfg.BaudRate = "115200"
	}
	if cfg.SerialPort == "" {
		ports, err := GetSerialPorts()
		if err != nil {
			return nil, err
		}
		cfg.SerialPort = ports[0]
	}

	return New(cfg)
}

// Run pumps r to the device and the device's output to w until ctx is
// canceled or the connection drops.
func (c *Controller) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	group, ctx := errgroup.WithContext(ctx)

	// commands toward the device. Reads from r cannot be unblocked on
	// shutdown, so this pump is not part of the group.
	go func() {
		_, _ = io.Copy(c.port, r)
	}()

	group.Go(func() error {
		_, err := io.Copy(w, c.port)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading from device: %w", err)
		}
		return errors.New("device closed the connection")
	})

	group.Go(func() error {
		<-ctx.Done()
		// unblocks the device read above
		c.port.Close()
		return nil
	})

	return group.Wait()
}

// Close closes the serial port.
func (c *Controller) Close() error {
	return c.port.Close()
}
