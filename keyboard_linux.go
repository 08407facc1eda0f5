//go:build linux

package main

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux input subsystem constants (uinput.h, input-event-codes.h). These
// are stable kernel ABI numbers.
const (
	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0

	uiSetEvBit   = 0x40045564 // _IOW('U', 100, int)
	uiSetKeyBit  = 0x40045565 // _IOW('U', 101, int)
	uiDevCreate  = 0x5501     // _IO('U', 1)
	uiDevDestroy = 0x5502     // _IO('U', 2)

	busUSB       = 0x03
	keyLeftShift = 42
)

// keyCodes maps the dictionary's key symbols to Linux input key codes.
var keyCodes = map[string]uint16{
	"a": 30, "b": 48, "c": 46, "d": 32, "e": 18, "f": 33, "g": 34,
	"h": 35, "i": 23, "j": 36, "k": 37, "l": 38, "m": 50, "n": 49,
	"o": 24, "p": 25, "q": 16, "r": 19, "s": 31, "t": 20, "u": 22,
	"v": 47, "w": 17, "x": 45, "y": 21, "z": 44,
	"1": 2, "2": 3, "3": 4, "4": 5, "5": 6, "6": 7, "7": 8, "8": 9,
	"9": 10, "0": 11,
	"space":     57,
	"enter":     28,
	"backspace": 14,
	"period":    52,
	"comma":     51,
	"semicolon": 39,
}

// uinputUserDev is the legacy struct uinput_user_dev written to
// /dev/uinput before UI_DEV_CREATE.
type uinputUserDev struct {
	Name                              [80]byte
	BusType, Vendor, Product, Version uint16
	EffectsMax                        uint32
	AbsMax, AbsMin, AbsFuzz, AbsFlat  [64]int32
}

// inputEvent is struct input_event on 64-bit linux.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// UinputKeyboard emits output actions as synthetic key events through a
// virtual /dev/uinput keyboard. Each action is one press immediately
// followed by one release, with shift held around the pair when the
// action asks for it.
type UinputKeyboard struct {
	f *os.File
}

// OpenUinputKeyboard registers the virtual keyboard device. Fails loudly
// if /dev/uinput is missing or not writable, so a broken output channel
// is caught before the engine starts consuming events.
func OpenUinputKeyboard() (ActionSink, error) {
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open /dev/uinput: %w", err)
	}
	fd := int(f.Fd())

	if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput UI_SET_EVBIT: %w", err)
	}
	for _, code := range keyCodes {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
			f.Close()
			return nil, fmt.Errorf("uinput UI_SET_KEYBIT %d: %w", code, err)
		}
	}
	if err := unix.IoctlSetInt(fd, uiSetKeyBit, keyLeftShift); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput UI_SET_KEYBIT shift: %w", err)
	}

	var dev uinputUserDev
	copy(dev.Name[:], "mididrumkeyboard")
	dev.BusType = busUSB
	dev.Vendor = 0x1209
	dev.Product = 0xd7a1
	dev.Version = 1
	buf := (*(*[unsafe.Sizeof(dev)]byte)(unsafe.Pointer(&dev)))[:]
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput device setup: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput UI_DEV_CREATE: %w", err)
	}

	// Give the input stack a moment to register the new device before
	// the first key event.
	time.Sleep(200 * time.Millisecond)

	logger.Info("uinput: virtual keyboard created")
	return &UinputKeyboard{f: f}, nil
}

func (k *UinputKeyboard) writeEvent(typ, code uint16, value int32) error {
	ev := inputEvent{Type: typ, Code: code, Value: value}
	buf := (*(*[unsafe.Sizeof(ev)]byte)(unsafe.Pointer(&ev)))[:]
	if _, err := k.f.Write(buf); err != nil {
		return fmt.Errorf("uinput write: %w", err)
	}
	return nil
}

func (k *UinputKeyboard) key(code uint16, press bool) error {
	var value int32
	if press {
		value = 1
	}
	if err := k.writeEvent(evKey, code, value); err != nil {
		return err
	}
	return k.writeEvent(evSyn, synReport, 0)
}

// Emit synthesizes one press+release for the action's key.
func (k *UinputKeyboard) Emit(a OutputAction) error {
	code, ok := keyCodes[a.Key]
	if !ok {
		return fmt.Errorf("no key code for symbol %q", a.Key)
	}
	shift := a.Mods&ModShift != 0
	if shift {
		if err := k.key(keyLeftShift, true); err != nil {
			return err
		}
	}
	if err := k.key(code, true); err != nil {
		return err
	}
	if err := k.key(code, false); err != nil {
		return err
	}
	if shift {
		if err := k.key(keyLeftShift, false); err != nil {
			return err
		}
	}
	return nil
}

// Close destroys the virtual device.
func (k *UinputKeyboard) Close() error {
	_ = unix.IoctlSetInt(int(k.f.Fd()), uiDevDestroy, 0)
	return k.f.Close()
}
