package ui

import (
	"testing"

	"github.com/calvinmclean/cadstick"
)

func testStickUI() *StickUI {
	return &StickUI{
		axes:    make(chan [cadstick.NumAxes]int, 4),
		gesture: make(chan string, 4),
		lines:   make(chan string, 4),
	}
}

func TestWriteSplitsLines(t *testing.T) {
	ui := testStickUI()

	// an axis dump split across two writes, then a transition and a plain line
	ui.Write([]byte("axes 512,"))
	ui.Write([]byte("499,531,512\npan start\nhello\n"))

	select {
	case got := <-ui.axes:
		want := [cadstick.NumAxes]int{512, 499, 531, 512}
		if got != want {
			t.Errorf("axes = %v, want %v", got, want)
		}
	default:
		t.Error("no axis values dispatched")
	}

	select {
	case got := <-ui.gesture:
		if got != "pan" {
			t.Errorf("gesture = %q, want pan", got)
		}
	default:
		t.Error("no gesture state dispatched")
	}

	if got := <-ui.lines; got != "pan start" {
		t.Errorf("first log line = %q, want %q", got, "pan start")
	}
	if got := <-ui.lines; got != "hello" {
		t.Errorf("second log line = %q, want %q", got, "hello")
	}
}

func TestWriteKeepsPartialLine(t *testing.T) {
	ui := testStickUI()

	ui.Write([]byte("orbit en"))
	select {
	case s := <-ui.gesture:
		t.Fatalf("dispatched %q before the line was complete", s)
	default:
	}

	ui.Write([]byte("d\n"))
	if got := <-ui.gesture; got != "idle" {
		t.Errorf("gesture = %q, want idle", got)
	}
}

func TestParseGestureLine(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"pan start", "pan", true},
		{"orbit start", "orbit", true},
		{"pan end", "idle", true},
		{"orbit end", "idle", true},
		{"pan", "", false},
		{"roll start", "", false},
		{"pan started", "", false},
		{"axes 1,2,3,4", "", false},
	}

	for _, tt := range tests {
		got, ok := parseGestureLine(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseGestureLine(%q) = (%q, %t), want (%q, %t)", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}
