package ui

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// timer renders an elapsed-time readout that refreshes itself until stopped.
type timer struct {
	showMillis bool

	mtx       sync.Mutex
	startTime time.Time

	text *canvas.Text
	stop chan struct{}
}

func newTimer(showMillis bool) *timer {
	initText := "00:00"
	if showMillis {
		initText = "00:00.000"
	}
	return &timer{
		showMillis: showMillis,
		text:       canvas.NewText(initText, nil),
		stop:       make(chan struct{}),
	}
}

// Set restarts the readout from the given time.
func (t *timer) Set(start time.Time) {
	t.mtx.Lock()
	t.startTime = start
	t.mtx.Unlock()
}

func (t *timer) Stop() {
	close(t.stop)
}

// Go refreshes the readout in the background until Stop is called.
func (t *timer) Go() {
	interval := time.Second
	if t.showMillis {
		interval = 64 * time.Millisecond
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
			}
			fyne.Do(func() {
				t.text.Text = t.format()
				t.text.Refresh()
			})
		}
	}()
}

func (t *timer) format() string {
	t.mtx.Lock()
	elapsed := time.Since(t.startTime)
	t.mtx.Unlock()

	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60
	if t.showMillis {
		return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, elapsed.Milliseconds()%1000)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
