package main

// VelocityTracker keeps a decaying intensity per pad and detects
// threshold crossings on each clock tick. Intensities are halved every
// tick; a crossing is reported on the first tick whose pre-decay
// intensity reaches the stroke floor while the pad is not already
// latched active. The latch clears only once the decayed intensity drops
// back below the floor, so a refresh hit on a still-ringing pad does not
// re-trigger.
type VelocityTracker struct {
	hitFloor    uint8
	strokeFloor uint8

	intensity [numPads]uint8
	active    [numPads]bool
}

func NewVelocityTracker(hitFloor, strokeFloor uint8) *VelocityTracker {
	return &VelocityTracker{hitFloor: hitFloor, strokeFloor: strokeFloor}
}

// Hit records a pad strike. Velocities below the hit-sensitivity floor
// are noise and leave the state untouched; anything else overwrites the
// pad's intensity outright (a second strong hit refreshes the peak, it
// does not sum).
func (t *VelocityTracker) Hit(p Pad, velocity uint8) {
	if velocity < t.hitFloor {
		logger.Debug("tracker: hit below sensitivity floor", "pad", p.Name(), "velocity", velocity)
		return
	}
	t.intensity[p] = velocity
}

// Tick evaluates crossings against the pre-decay intensities, then halves
// every pad. The returned pads are in enumeration order and may be empty.
func (t *VelocityTracker) Tick() []Pad {
	var crossed []Pad
	for p := Pad(0); p < numPads; p++ {
		v := t.intensity[p]
		if v >= t.strokeFloor && !t.active[p] {
			crossed = append(crossed, p)
			t.active[p] = true
		}
		v /= 2
		t.intensity[p] = v
		if v < t.strokeFloor {
			t.active[p] = false
		}
	}
	return crossed
}

// Intensity reports the current decayed intensity of a pad.
func (t *VelocityTracker) Intensity(p Pad) uint8 { return t.intensity[p] }

// Reset clears all intensities and latches, e.g. after the input device
// disappears mid-sentence.
func (t *VelocityTracker) Reset() {
	t.intensity = [numPads]uint8{}
	t.active = [numPads]bool{}
}
