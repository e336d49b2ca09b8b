package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/calvinmclean/cadstick/controller"
	"github.com/calvinmclean/cadstick/ui"
)

func main() {
	var port, baud string
	flag.StringVar(&port, "port", "", "serial port; CADSTICK_PORT or the first USB port when empty")
	flag.StringVar(&baud, "baud", "115200", "serial baud rate")
	flag.Parse()

	if os.Getenv("ENABLE_UI") == "true" {
		runUI()
		return
	}

	runCLI(port, baud)
}

func runUI() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stickUI := ui.NewStickUI()
	configWindow := ui.NewConfigWindow(stickUI.App())

	var cfg controller.Config
	configWindow.OnSubmit = func() {
		c, err := controller.New(cfg)
		if err != nil {
			panic(err)
		}

		r, w := io.Pipe()

		// read from Stdin also
		go func() {
			defer w.Close()
			io.Copy(w, os.Stdin)
		}()

		go func() {
			defer cancel()
			defer c.Close()

			err := c.Run(ctx, r, io.MultiWriter(os.Stdout, stickUI))
			if err != nil {
				panic(err)
			}
		}()

		stickUI.ShowMonitor(ctx, w)
	}

	configWindow.Show(&cfg)
	stickUI.Run(ctx)
}

func runCLI(port, baud string) {
	c, err := connect(port, baud)
	if err != nil {
		panic(err)
	}
	defer c.Close()

	err = c.Run(context.Background(), os.Stdin, os.Stdout)
	if err != nil {
		panic(err)
	}
}

func connect(port, baud string) (*controller.Controller, error) {
	if port == "" {
		return controller.NewFromEnv()
	}
	return controller.New(controller.Config{SerialPort: port, BaudRate: baud})
}
