package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAll(t *testing.T, data []byte) []Event {
	t.Helper()
	var events []Event
	err := DecodeStream(bytes.NewReader(data), func(ev Event) {
		events = append(events, ev)
	})
	require.NoError(t, err)
	return events
}

func TestDecodeTicksAndNoteOns(t *testing.T) {
	events := decodeAll(t, []byte{0xf8, 0x90, 0x21, 0x64, 0xf8})
	assert.Equal(t, []Event{
		{Kind: TickEvent},
		{Kind: HitEvent, Note: 0x21, Velocity: 0x64},
		{Kind: TickEvent},
	}, events)
}

func TestDecodeRunningStatus(t *testing.T) {
	events := decodeAll(t, []byte{0x90, 0x21, 0x64, 0x28, 0x50})
	assert.Equal(t, []Event{
		{Kind: HitEvent, Note: 0x21, Velocity: 0x64},
		{Kind: HitEvent, Note: 0x28, Velocity: 0x50},
	}, events)
}

func TestDecodeRealtimeInterleavedMidMessage(t *testing.T) {
	// A timing-clock byte may arrive between a status byte and its data.
	events := decodeAll(t, []byte{0x90, 0x21, 0xf8, 0x64})
	assert.Equal(t, []Event{
		{Kind: TickEvent},
		{Kind: HitEvent, Note: 0x21, Velocity: 0x64},
	}, events)
}

func TestDecodeIgnoresUninterestingMessages(t *testing.T) {
	data := []byte{
		0x80, 0x21, 0x40, // note off
		0xb0, 0x01, 0x02, // control change
		0xc0, 0x05, // program change (single data byte)
		0x90, 0x28, 0x50, // the one note-on we care about
	}
	events := decodeAll(t, data)
	assert.Equal(t, []Event{{Kind: HitEvent, Note: 0x28, Velocity: 0x50}}, events)
}

func TestDecodeNoteOnVelocityZeroIsNoteOff(t *testing.T) {
	events := decodeAll(t, []byte{0x90, 0x21, 0x00})
	assert.Empty(t, events)
}

func TestDecodeStrayDataBytesAreSkipped(t *testing.T) {
	events := decodeAll(t, []byte{0x21, 0x64, 0xf8})
	assert.Equal(t, []Event{{Kind: TickEvent}}, events)
}

func TestDecodeSystemCommonCancelsRunningStatus(t *testing.T) {
	data := []byte{
		0x90, 0x21, 0x64, // note on
		0xf3, 0x01, // song select cancels running status
		0x28, 0x50, // now stray data, not a running-status note-on
	}
	events := decodeAll(t, data)
	assert.Equal(t, []Event{{Kind: HitEvent, Note: 0x21, Velocity: 0x64}}, events)
}
