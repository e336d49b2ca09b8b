package commands

import (
	"errors"
)

type Command struct {
	Flag        byte
	InputSize   uint
	Run         func(Controller, []byte) error
	Description string
}

// Controller is used to control a device
type Controller interface {
	Recenter()
	ToggleVerbose()
	ToggleJoystick()
	PrintAxes()
	Debug()
	DumpCalibration()
	SetDeadzone(float64) error

	// I/O
	ReadByte() (byte, error)
}

var (
	RecenterCommand = &Command{
		Flag:      'z',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.Recenter()
			return nil
		},
		Description: "Re-center all axes from the current stick position.",
	}
	VerboseCommand = &Command{
		Flag:      'V',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.ToggleVerbose()
			return nil
		},
		Description: "Toggle the raw axes stream.",
	}
	AxesCommand = &Command{
		Flag:      'A',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.PrintAxes()
			return nil
		},
		Description: "Print one line of raw axis values.",
	}
	JoystickCommand = &Command{
		Flag:      'J',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.ToggleJoystick()
			return nil
		},
		Description: "Toggle joystick HID reports.",
	}
	DebugCommand = &Command{
		Flag:      'D',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.Debug()
			return nil
		},
		Description: "Print the current state.",
	}
	CalibrationCommand = &Command{
		Flag:      'C',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.DumpCalibration()
			return nil
		},
		Description: "Print the calibration triple for every axis.",
	}
	DeadzoneCommand = &Command{
		Flag:      'd',
		InputSize: 3,
		Run: func(c Controller, input []byte) error {
			n, err := atoi(input)
			if err != nil {
				return err
			}
			return c.SetDeadzone(float64(n) / 1000)
		},
		Description: "Set the dead zone in thousandths. Input: three digits, 'd020' is 0.020.",
	}
	HelpCommand = &Command{
		Flag:        'H',
		InputSize:   0,
		Description: "Show all available commands and their descriptions.",
		Run: func(c Controller, b []byte) error {
			println("Available Commands:")
			for _, cmd := range commands {
				println(string(cmd.Flag) + ": " + cmd.Description)
			}
			return nil
		},
	}
)

func atoi(input []byte) (int, error) {
	n := 0
	for _, b := range input {
		if b < '0' || b > '9' {
			return 0, errors.New("invalid input: " + string(input))
		}
		n = n*10 + int(b-'0')
	}
	return n, nil
}

var commands = []*Command{
	RecenterCommand,
	VerboseCommand,
	AxesCommand,
	JoystickCommand,
	DebugCommand,
	CalibrationCommand,
	DeadzoneCommand,
}

var cmdMap = map[byte]*Command{}

func init() {
	cmdMap[HelpCommand.Flag] = HelpCommand
	for _, cmd := range commands {
		cmdMap[cmd.Flag] = cmd
	}
}

// Poll handles at most one pending command. It returns immediately when no
// input is waiting so the device loop keeps its tick rate. Unknown bytes,
// including the line endings terminals send, are dropped.
func Poll(c Controller) {
	cmdIn, err := c.ReadByte()
	if err != nil {
		return
	}

	cmd, ok := cmdMap[cmdIn]
	if !ok {
		return
	}

	in := make([]byte, cmd.InputSize)
	for i := 0; i < int(cmd.InputSize); {
		b, err := c.ReadByte()
		if err != nil {
			continue
		}

		in[i] = b
		i++
	}

	err = cmd.Run(c, in)
	if err != nil {
		println("error:", err.Error())
	}
}
