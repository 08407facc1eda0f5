package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderChordEmptySetIsNullChord(t *testing.T) {
	assert.Equal(t, "", RenderChord(nil))
	assert.Equal(t, "", RenderChord([]Pad{}))
}

func TestRenderChordSinglePad(t *testing.T) {
	assert.Equal(t, "RIDE.", RenderChord([]Pad{Ride}))
}

func TestRenderChordUsesEnumerationOrderNotArrivalOrder(t *testing.T) {
	assert.Equal(t, "BD,SNARE.", RenderChord([]Pad{Snare, BassDrum}))
	assert.Equal(t, "BD,SNARE,RIDE.", RenderChord([]Pad{Ride, Snare, BassDrum}))
}

func TestRenderChordSharedDisplayNamesAreNotCollapsed(t *testing.T) {
	// Open and closed hi-hat both render as HH, once per firing pad.
	assert.Equal(t, "HH,HH.", RenderChord([]Pad{ClosedHiHat, OpenHiHat}))
	assert.Equal(t, "BD,HH,HH,CRASH.", RenderChord([]Pad{Crash, OpenHiHat, ClosedHiHat, BassDrum}))
}
