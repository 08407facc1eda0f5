package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testHitFloor    = 0x0f
	testStrokeFloor = 0x05
)

func newTestTracker() *VelocityTracker {
	return NewVelocityTracker(testHitFloor, testStrokeFloor)
}

func TestHitBelowSensitivityFloorIsIgnored(t *testing.T) {
	tr := newTestTracker()
	tr.Hit(Snare, testHitFloor-1)

	assert := assert.New(t)
	assert.Zero(tr.Intensity(Snare))
	assert.Empty(tr.Tick())
}

func TestIntensityHalvesEveryTickAndNeverRecrosses(t *testing.T) {
	tr := newTestTracker()
	tr.Hit(Snare, 100)

	crossed := tr.Tick()
	assert.Equal(t, []Pad{Snare}, crossed)

	// 100 right-shifted once per tick, truncating; no further crossings
	// without a new hit, even while still above the stroke floor.
	for _, want := range []uint8{50, 25, 12, 6, 3, 1, 0, 0} {
		assert.Equal(t, want, tr.Intensity(Snare))
		assert.Empty(t, tr.Tick())
	}
}

func TestSingleHitCrossesExactlyOnceOnNextTick(t *testing.T) {
	tr := newTestTracker()
	tr.Hit(BassDrum, 90)

	var crossings int
	for i := 0; i < 10; i++ {
		crossed := tr.Tick()
		if len(crossed) > 0 {
			crossings++
			assert.Zero(t, i, "crossing must land on the tick immediately following the hit")
		}
	}
	assert.Equal(t, 1, crossings)
}

func TestRefreshHitDoesNotRetrigger(t *testing.T) {
	tr := newTestTracker()
	assert := assert.New(t)

	tr.Hit(Ride, 100)
	assert.Len(tr.Tick(), 1)

	// Second strong hit while the pad is still ringing refreshes the
	// peak but produces no new crossing.
	tr.Hit(Ride, 100)
	assert.Equal(uint8(100), tr.Intensity(Ride))
	for i := 0; i < 10; i++ {
		assert.Empty(tr.Tick())
	}

	// Once decayed below the floor, a new hit is a new stroke.
	tr.Hit(Ride, 80)
	assert.Equal([]Pad{Ride}, tr.Tick())
}

func TestHitOverwritesInsteadOfSumming(t *testing.T) {
	tr := newTestTracker()
	tr.Hit(FloorTom, 100)
	tr.Hit(FloorTom, 60)
	assert.Equal(t, uint8(60), tr.Intensity(FloorTom))
}

func TestSimultaneousHitsCrossTogetherInPadOrder(t *testing.T) {
	tr := newTestTracker()
	tr.Hit(Snare, 100)
	tr.Hit(BassDrum, 100)
	assert.Equal(t, []Pad{BassDrum, Snare}, tr.Tick())
}

func TestResetClearsAllState(t *testing.T) {
	tr := newTestTracker()
	tr.Hit(Crash, 120)
	tr.Reset()

	assert := assert.New(t)
	assert.Zero(tr.Intensity(Crash))
	assert.Empty(tr.Tick())
}
