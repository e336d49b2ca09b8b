//go:build !linux

package pilot

import (
	"errors"

	"github.com/calvinmclean/cadstick/gesture"
)

// Mouse is only available on Linux, where it is backed by uinput.
type Mouse struct{}

func NewMouse() (*Mouse, error) {
	return nil, errors.New("virtual mouse requires Linux uinput")
}

func (*Mouse) Move(dx, dy int)              {}
func (*Mouse) SetButtons(b gesture.Buttons) {}
func (*Mouse) Close() error                 { return nil }

// Keyboard is only available on Linux, where it is backed by uinput.
type Keyboard struct{}

func NewKeyboard() (*Keyboard, error) {
	return nil, errors.New("virtual keyboard requires Linux uinput")
}

func (*Keyboard) Press(m gesture.Modifier)   {}
func (*Keyboard) Release(m gesture.Modifier) {}
func (*Keyboard) Close() error               { return nil }
