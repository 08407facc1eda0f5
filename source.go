package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"
)

// EventKind discriminates the two event kinds a byte-event source
// produces.
type EventKind uint8

const (
	// TickEvent is one periodic clock tick (no payload).
	TickEvent EventKind = iota
	// HitEvent is one pad strike: a MIDI note number plus raw velocity.
	HitEvent
)

// Event is one input to the engine.
type Event struct {
	Kind     EventKind
	Note     uint8
	Velocity uint8
}

// MIDI wire constants for the raw byte-stream sources.
const (
	statusNoteOn   = 0x90
	statusNoteOff  = 0x80
	rtTimingClock  = 0xf8
	statusMask     = 0xf0
	firstRealtime  = 0xf8
	firstSysCommon = 0xf0
)

// dataLen is the number of data bytes following a channel status byte.
func dataLen(status byte) int {
	switch status & statusMask {
	case 0xc0, 0xd0: // program change, channel pressure
		return 1
	default:
		return 2
	}
}

// DecodeStream reads a raw MIDI byte stream (the /dev/midi* framing) and
// delivers Tick and PadHit events until the reader is exhausted or fails.
// Timing-clock bytes are realtime and may interleave mid-message, so they
// are routed immediately regardless of decoder state. Running status is
// honored. Note-ons with velocity zero are note-offs in disguise and are
// dropped, as is every message kind the engine has no use for.
func DecodeStream(r io.Reader, deliver func(Event)) error {
	br := bufio.NewReader(r)

	var status byte
	var data [2]byte
	var have int

	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read byte stream: %w", err)
		}

		switch {
		case b >= firstRealtime:
			if b == rtTimingClock {
				deliver(Event{Kind: TickEvent})
			}
		case b >= firstSysCommon:
			// System common cancels running status.
			status = 0
			have = 0
		case b >= statusNoteOff:
			status = b
			have = 0
		default:
			if status == 0 {
				continue // stray data byte
			}
			data[have] = b
			have++
			if have < dataLen(status) {
				continue
			}
			have = 0
			if status&statusMask == statusNoteOn && data[1] > 0 {
				deliver(Event{Kind: HitEvent, Note: data[0], Velocity: data[1]})
			}
		}
	}
}

// OpenSerialSource opens a serial port carrying a raw MIDI byte stream
// (e.g. a drum brain bridged over a UART adapter).
func OpenSerialSource(device string, baud int) (io.ReadCloser, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	logger.Info("serial: port opened", "device", device, "baud", baud)
	return port, nil
}
