package controller

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/calvinmclean/cadstick"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for empty serial port")
	}
	if _, err := New(Config{SerialPort: SerialPortNone, BaudRate: "115200"}); err == nil {
		t.Error("expected error for placeholder serial port")
	}
	if _, err := New(Config{SerialPort: "/dev/ttyACM0", BaudRate: "fast"}); err == nil {
		t.Error("expected error for invalid baud rate")
	}
}

func TestNewFromEnvPlaceholderPort(t *testing.T) {
	t.Setenv("CADSTICK_PORT", SerialPortNone)

	if _, err := NewFromEnv(); err == nil {
		t.Error("expected error when CADSTICK_PORT is the placeholder")
	}
}

type fakePort struct {
	mu        sync.Mutex
	wrote     bytes.Buffer
	in        chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakePort() *fakePort {
	return &fakePort{
		in:     make(chan []byte, 8),
		closed: make(chan struct{}),
	}
}

func (f *fakePort) Read(p []byte) (int, error) {
	select {
	case b := <-f.in:
		return copy(p, b), nil
	case <-f.closed:
		return 0, errors.New("port closed")
	}
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wrote.Write(p)
}

func (f *fakePort) Close() error {
	f.closeOnce.Do(func() {
		close(f.closed)
	})
	return nil
}

func (f *fakePort) written() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wrote.String()
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	for i := 0; i < 200; i++ {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestRun(t *testing.T) {
	port := newFakePort()
	c := &Controller{port: port}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	defer pw.Close()
	var out syncBuffer

	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx, pr, &out)
	}()

	fmt.Fprintln(pw, "V")
	waitFor(t, "command to reach the device", func() bool {
		return port.written() == "V\n"
	})

	port.in <- []byte("axes 512,499,531,512\n")
	waitFor(t, "device output to reach the console", func() bool {
		return out.String() == "axes 512,499,531,512\n"
	})

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned error: %v", err)
	}
}

func TestRunDeviceDisconnect(t *testing.T) {
	port := newFakePort()
	c := &Controller{port: port}

	pr, pw := io.Pipe()
	defer pw.Close()

	done := make(chan error, 1)
	go func() {
		done <- c.Run(context.Background(), pr, io.Discard)
	}()

	port.Close()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected error after device disconnect")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after device disconnect")
	}
}

func TestParseAxesLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want [cadstick.NumAxes]int
		ok   bool
	}{
		{"plain", "axes 512,499,531,512", [cadstick.NumAxes]int{512, 499, 531, 512}, true},
		{"trailing newline", "axes 3,520,1021,2\n", [cadstick.NumAxes]int{3, 520, 1021, 2}, true},
		{"spaces after commas", "axes 1, 2, 3, 4", [cadstick.NumAxes]int{1, 2, 3, 4}, true},
		{"wrong prefix", "temps 1,2,3,4", [cadstick.NumAxes]int{}, false},
		{"too few values", "axes 1,2,3", [cadstick.NumAxes]int{}, false},
		{"too many values", "axes 1,2,3,4,5", [cadstick.NumAxes]int{}, false},
		{"not a number", "axes 1,2,x,4", [cadstick.NumAxes]int{}, false},
		{"empty", "", [cadstick.NumAxes]int{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAxesLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("ParseAxesLine(%q) ok = %t, want %t", tt.line, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseAxesLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
