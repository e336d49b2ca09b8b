//go:build linux

package pilot

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/calvinmclean/cadstick/gesture"
)

const uinputPath = "/dev/uinput"

// uinput ioctls and constants from uinput.h
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566

	busUSB      = 0x03
	maxNameSize = 80
	absSize     = 64
)

// input event types and codes from input-event-codes.h
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	synReport = 0x00
	relX      = 0x00
	relY      = 0x01

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112

	keyLeftCtrl  = 29
	keyLeftShift = 42
	keyLeftAlt   = 56
)

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type userDev struct {
	Name       [maxNameSize]byte
	ID         inputID
	EffectsMax uint32
	Absmax     [absSize]int32
	Absmin     [absSize]int32
	Absfuzz    [absSize]int32
	Absflat    [absSize]int32
}

// inputEvent matches the kernel's struct input_event. unix.Timeval has the
// platform's timeval layout, so the struct size comes out right on 32 and
// 64 bit systems.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

func ioctl(fd int, req, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, arg)
	if errno != 0 {
		return errno
	}
	return nil
}

// uinputDevice is one registered virtual input device.
type uinputDevice struct {
	fd int
}

func createUinputDevice(name string, setup func(fd int) error) (*uinputDevice, error) {
	fd, err := unix.Open(uinputPath, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("error opening %s (is the uinput module loaded and writable?): %w", uinputPath, err)
	}

	if err := setup(fd); err != nil {
		unix.Close(fd)
		return nil, err
	}

	var dev userDev
	copy(dev.Name[:], name)
	dev.ID = inputID{Bustype: busUSB, Vendor: 0x1209, Product: 0xc4d5, Version: 1}

	buf := (*(*[unsafe.Sizeof(dev)]byte)(unsafe.Pointer(&dev)))[:]
	if _, err := unix.Write(fd, buf); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("error writing device description: %w", err)
	}
	if err := ioctl(fd, uiDevCreate, 0); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("error creating %s: %w", name, err)
	}

	return &uinputDevice{fd: fd}, nil
}

func (d *uinputDevice) emit(typ, code uint16, value int32) {
	ev := inputEvent{Type: typ, Code: code, Value: value}
	buf := (*(*[unsafe.Sizeof(ev)]byte)(unsafe.Pointer(&ev)))[:]
	_, _ = unix.Write(d.fd, buf)
}

func (d *uinputDevice) syn() {
	d.emit(evSyn, synReport, 0)
}

func (d *uinputDevice) close() error {
	if err := ioctl(d.fd, uiDevDestroy, 0); err != nil {
		unix.Close(d.fd)
		return fmt.Errorf("error destroying device: %w", err)
	}
	return unix.Close(d.fd)
}

// Mouse is a virtual relative pointer backed by uinput.
type Mouse struct {
	dev     *uinputDevice
	buttons gesture.Buttons
}

// NewMouse registers the virtual pointer device.
func NewMouse() (*Mouse, error) {
	dev, err := createUinputDevice("cadstick virtual mouse", func(fd int) error {
		for _, ev := range []uintptr{evKey, evRel} {
			if err := ioctl(fd, uiSetEvBit, ev); err != nil {
				return fmt.Errorf("error enabling event type %#x: %w", ev, err)
			}
		}
		for _, btn := range []uintptr{btnLeft, btnMiddle, btnRight} {
			if err := ioctl(fd, uiSetKeyBit, btn); err != nil {
				return fmt.Errorf("error enabling button %#x: %w", btn, err)
			}
		}
		for _, rel := range []uintptr{relX, relY} {
			if err := ioctl(fd, uiSetRelBit, rel); err != nil {
				return fmt.Errorf("error enabling relative axis %#x: %w", rel, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Mouse{dev: dev}, nil
}

func (m *Mouse) Move(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	if dx != 0 {
		m.dev.emit(evRel, relX, int32(dx))
	}
	if dy != 0 {
		m.dev.emit(evRel, relY, int32(dy))
	}
	m.dev.syn()
}

func (m *Mouse) SetButtons(b gesture.Buttons) {
	changed := false
	for _, btn := range []struct {
		code      uint16
		now, prev bool
	}{
		{btnLeft, b.Left, m.buttons.Left},
		{btnMiddle, b.Middle, m.buttons.Middle},
		{btnRight, b.Right, m.buttons.Right},
	} {
		if btn.now == btn.prev {
			continue
		}
		m.dev.emit(evKey, btn.code, pressValue(btn.now))
		changed = true
	}
	if changed {
		m.dev.syn()
	}
	m.buttons = b
}

func (m *Mouse) Close() error {
	return m.dev.close()
}

// Keyboard is a virtual keyboard carrying only the gesture modifier keys.
type Keyboard struct {
	dev *uinputDevice
}

// NewKeyboard registers the virtual keyboard device.
func NewKeyboard() (*Keyboard, error) {
	dev, err := createUinputDevice("cadstick virtual keyboard", func(fd int) error {
		if err := ioctl(fd, uiSetEvBit, evKey); err != nil {
			return fmt.Errorf("error enabling key events: %w", err)
		}
		for _, key := range []uintptr{keyLeftShift, keyLeftCtrl, keyLeftAlt} {
			if err := ioctl(fd, uiSetKeyBit, key); err != nil {
				return fmt.Errorf("error enabling key %d: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Keyboard{dev: dev}, nil
}

func (k *Keyboard) Press(m gesture.Modifier) {
	k.set(m, 1)
}

func (k *Keyboard) Release(m gesture.Modifier) {
	k.set(m, 0)
}

func (k *Keyboard) set(m gesture.Modifier, value int32) {
	code, ok := modifierKey(m)
	if !ok {
		return
	}
	k.dev.emit(evKey, code, value)
	k.dev.syn()
}

func (k *Keyboard) Close() error {
	return k.dev.close()
}

func modifierKey(m gesture.Modifier) (uint16, bool) {
	switch m {
	case gesture.ModifierShift:
		return keyLeftShift, true
	case gesture.ModifierCtrl:
		return keyLeftCtrl, true
	case gesture.ModifierAlt:
		return keyLeftAlt, true
	}
	return 0, false
}

func pressValue(pressed bool) int32 {
	if pressed {
		return 1
	}
	return 0
}
