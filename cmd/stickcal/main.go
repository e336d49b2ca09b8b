// stickcal measures the stick calibration over the device's serial console
// and writes the result into the configuration YAML. It asks for the sticks
// at rest to find the centers, then for full sweeps to find the extremes.
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/calvinmclean/cadstick"
	"github.com/calvinmclean/cadstick/config"
	"github.com/calvinmclean/cadstick/controller"
	"github.com/calvinmclean/cadstick/profiles"
)

func main() {
	var (
		configPath = flag.String("config", "cadstick.yaml", "configuration YAML to update")
		port       = flag.String("port", "", "serial port; CADSTICK_PORT or the first USB port when empty")
		baud       = flag.String("baud", "115200", "serial baud rate")
		samples    = flag.Int("samples", 50, "number of samples averaged for each center")
		margin     = flag.Int("margin", 2, "counts trimmed from the measured extremes")
		uploadName = flag.String("upload", "", "upload the result to the profile server under this name")
		serverAddr = flag.String("server", os.Getenv("CADSTICK_SERVER"), "profile server address")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := connect(*port, *baud)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := &axesStream{frames: make(chan [cadstick.NumAxes]int, 64)}
	commands, commandW := io.Pipe()

	go func() {
		err := c.Run(ctx, commands, stream)
		if err != nil && ctx.Err() == nil {
			log.Fatal(err)
		}
	}()

	// V toggles the device's raw axes stream on
	fmt.Fprint(commandW, "V\n")

	console := bufio.NewReader(os.Stdin)

	fmt.Println("Leave both sticks at rest and press Enter to measure the centers.")
	if _, err := console.ReadString('\n'); err != nil {
		log.Fatal(err)
	}

	stream.drain()
	centers, err := averageFrames(ctx, stream.frames, *samples)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("centers: %v\n", centers)

	fmt.Println("Now sweep both sticks to their extremes a few times, then press Enter.")
	lows, highs, err := sweepExtremes(ctx, stream.frames, console)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Fprint(commandW, "V\n")

	cfg := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	for i := range cfg.Calibration {
		cfg.Calibration[i] = config.AxisCalibration{
			Low:    lows[i] + *margin,
			Center: centers[i],
			High:   highs[i] - *margin,
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("measured calibration is unusable (were both sticks swept fully?): %v", err)
	}

	if err := cfg.Save(*configPath); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("wrote %s:\n", *configPath)
	for i, a := range cfg.Calibration {
		fmt.Printf("  axis %d: low=%d center=%d high=%d\n", i, a.Low, a.Center, a.High)
	}

	if *uploadName != "" {
		if *serverAddr == "" {
			log.Fatal("-upload requires a server address (-server or CADSTICK_SERVER)")
		}
		id, err := profiles.NewClient(*serverAddr).Upload(ctx, *uploadName, cfg)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("uploaded profile %q as %s\n", *uploadName, id)
	}
}

func connect(port, baud string) (*controller.Controller, error) {
	if port == "" {
		return controller.NewFromEnv()
	}
	return controller.New(controller.Config{SerialPort: port, BaudRate: baud})
}

// axesStream picks the device's axes lines out of the console output and
// queues them for the wizard. Other lines are echoed so device messages stay
// visible.
type axesStream struct {
	frames  chan [cadstick.NumAxes]int
	pending bytes.Buffer
}

func (s *axesStream) Write(p []byte) (int, error) {
	s.pending.Write(p)
	for {
		line, err := s.pending.ReadString('\n')
		if err != nil {
			s.pending.WriteString(line)
			break
		}

		line = strings.TrimRight(line, "\r\n")
		values, ok := controller.ParseAxesLine(line)
		if !ok {
			if line != "" {
				fmt.Println(line)
			}
			continue
		}

		select {
		case s.frames <- values:
		default:
		}
	}
	return len(p), nil
}

func (s *axesStream) drain() {
	for {
		select {
		case <-s.frames:
		default:
			return
		}
	}
}

func averageFrames(ctx context.Context, frames chan [cadstick.NumAxes]int, n int) ([cadstick.NumAxes]int, error) {
	var sums [cadstick.NumAxes]int

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return sums, ctx.Err()
		case frame := <-frames:
			for i, v := range frame {
				sums[i] += v
			}
		}
	}

	for i := range sums {
		sums[i] /= n
	}
	return sums, nil
}

// sweepExtremes records per-axis minimum and maximum until the user presses
// Enter.
func sweepExtremes(ctx context.Context, frames chan [cadstick.NumAxes]int, console *bufio.Reader) (lows, highs [cadstick.NumAxes]int, err error) {
	done := make(chan struct{})
	go func() {
		console.ReadString('\n')
		close(done)
	}()

	sampled := false
	for {
		select {
		case <-ctx.Done():
			return lows, highs, ctx.Err()
		case <-done:
			if !sampled {
				return lows, highs, errors.New("no axes samples received; is the device connected?")
			}
			return lows, highs, nil
		case frame := <-frames:
			for i, v := range frame {
				if !sampled || v < lows[i] {
					lows[i] = v
				}
				if !sampled || v > highs[i] {
					highs[i] = v
				}
			}
			sampled = true
		}
	}
}
