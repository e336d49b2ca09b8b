package ui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/cadstick"
	"github.com/calvinmclean/cadstick/controller"
)

const maxLogLines = 200

// StickUI is the live monitor for the stick controller. It implements
// io.Writer so it can be attached to the device console output alongside
// os.Stdout, picking axis dumps and gesture transitions out of the stream.
type StickUI struct {
	app fyne.App

	mu      sync.Mutex
	pending bytes.Buffer

	axes    chan [cadstick.NumAxes]int
	gesture chan string
	lines   chan string
}

func NewStickUI() *StickUI {
	return &StickUI{
		app:     app.NewWithID("com.calvinmclean.cadstick"),
		axes:    make(chan [cadstick.NumAxes]int, 64),
		gesture: make(chan string, 8),
		lines:   make(chan string, 64),
	}
}

// App exposes the fyne application so other windows can attach to it.
func (ui *StickUI) App() fyne.App {
	return ui.app
}

// Write consumes device console output one line at a time. Partial lines are
// kept until the rest arrives.
func (ui *StickUI) Write(p []byte) (int, error) {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	ui.pending.Write(p)
	for {
		line, err := ui.pending.ReadString('\n')
		if err != nil {
			ui.pending.WriteString(line)
			break
		}
		ui.dispatch(strings.TrimRight(line, "\r\n"))
	}

	return len(p), nil
}

func (ui *StickUI) dispatch(line string) {
	if line == "" {
		return
	}

	if values, ok := controller.ParseAxesLine(line); ok {
		select {
		case ui.axes <- values:
		default:
		}
		return
	}

	if s, ok := parseGestureLine(line); ok {
		select {
		case ui.gesture <- s:
		default:
		}
	}

	select {
	case ui.lines <- line:
	default:
	}
}

// parseGestureLine recognizes the device's gesture transition lines, like
// "pan start" or "orbit end".
func parseGestureLine(line string) (string, bool) {
	stick, event, ok := strings.Cut(line, " ")
	if !ok {
		return "", false
	}
	if stick != "pan" && stick != "orbit" {
		return "", false
	}

	switch event {
	case "start":
		return stick, true
	case "end":
		return "idle", true
	}
	return "", false
}

// ShowMonitor opens the monitor window. Command buttons write to w, which
// should reach the device console.
func (ui *StickUI) ShowMonitor(ctx context.Context, w io.Writer) {
	window := ui.app.NewWindow("CAD Stick Monitor")

	sessionTimer := newTimer(false)
	gestureTimer := newTimer(true)

	stateText := canvas.NewText("idle", nil)
	stateText.TextStyle = fyne.TextStyle{Bold: true}

	names := [cadstick.NumAxes]string{"Pan H", "Pan V", "Orbit H", "Orbit V"}
	bars := make([]*widget.ProgressBar, cadstick.NumAxes)
	rawValues := make([]*widget.Label, cadstick.NumAxes)

	gaugeRows := container.NewVBox()
	for i := 0; i < cadstick.NumAxes; i++ {
		bar := widget.NewProgressBar()
		bar.Min = 0
		bar.Max = 1023
		label := widget.NewLabel("-")

		bars[i] = bar
		rawValues[i] = label
		gaugeRows.Add(container.NewBorder(nil, nil, widget.NewLabel(names[i]), label, bar))
	}

	console := &consoleWrapper{writer: w}

	buttonRow := container.NewHBox(
		widget.NewButton("Recenter", console.Recenter),
		widget.NewButton("Axes", console.ToggleVerbose),
		widget.NewButton("Joystick", console.ToggleJoystick),
		widget.NewButton("Debug", console.Debug),
		widget.NewButton("Calibration", console.DumpCalibration),
	)

	logContent := widget.NewLabel("")
	logScroll := container.NewVScroll(logContent)
	logScroll.SetMinSize(fyne.NewSize(400, 120))
	logAccordion := widget.NewAccordion(
		widget.NewAccordionItem("Console", logScroll),
	)

	var logLines []string
	appendLog := func(line string) {
		logLines = append(logLines, line)
		if len(logLines) > maxLogLines {
			logLines = logLines[len(logLines)-maxLogLines:]
		}
		logContent.SetText(strings.Join(logLines, "\n"))
		logScroll.ScrollToBottom()
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case values := <-ui.axes:
				fyne.Do(func() {
					for i, v := range values {
						bars[i].SetValue(float64(v))
						rawValues[i].SetText(strconv.Itoa(v))
					}
				})
			case s := <-ui.gesture:
				if s != "idle" {
					gestureTimer.Set(time.Now())
				}
				fyne.Do(func() {
					stateText.Text = s
					stateText.Refresh()
				})
			case line := <-ui.lines:
				fyne.Do(func() {
					appendLog(line)
				})
			}
		}
	}()

	window.SetContent(container.NewVBox(
		container.NewHBox(
			container.NewPadded(sessionTimer.text),
			container.NewPadded(gestureTimer.text),
			layout.NewSpacer(),
			container.NewPadded(stateText),
		),
		gaugeRows,
		createDeadzoneSlider(console),
		buttonRow,
		logAccordion,
	))
	window.Resize(fyne.NewSize(440, 480))
	window.Show()

	sessionTimer.Set(time.Now())
	sessionTimer.Go()
	gestureTimer.Set(time.Now())
	gestureTimer.Go()
}

// Run starts the UI event loop and blocks until the application quits.
func (ui *StickUI) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			ui.app.Quit()
		})
	}()

	ui.app.Run()
}

func createDeadzoneSlider(console *consoleWrapper) *fyne.Container {
	valueLabel := widget.NewLabel("0.020")

	slider := widget.NewSlider(0, 0.1)
	slider.Step = 0.005
	slider.SetValue(0.02)
	slider.OnChanged = func(value float64) {
		valueLabel.SetText(fmt.Sprintf("%.3f", value))
	}
	slider.OnChangeEnded = console.SetDeadzone

	return container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewLabel("Dead zone"),
			valueLabel,
		),
		slider,
	)
}
