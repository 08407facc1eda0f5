package main

// Pad identifies one percussion trigger on the drum kit.
type Pad int

const (
	BassDrum Pad = iota
	OpenHiHat
	ClosedHiHat
	Crash
	Snare
	SideTom
	Ride
	FloorTom
	HatPedal

	numPads
)

// padDef ties a pad to its MIDI note number and the display name used in
// chord tokens. Open and closed hi-hat intentionally share a name: the
// dictionary is written over display names, not raw pad identity.
type padDef struct {
	Note uint8
	Name string
}

var pads = [numPads]padDef{
	BassDrum:    {0x21, "BD"},
	OpenHiHat:   {0x2e, "HH"},
	ClosedHiHat: {0x2a, "HH"},
	Crash:       {0x31, "CRASH"},
	Snare:       {0x28, "SNARE"},
	SideTom:     {0x30, "SIDETOM"},
	Ride:        {0x3b, "RIDE"},
	FloorTom:    {0x2f, "FLOORTOM"},
	HatPedal:    {0x2c, "HATFOOT"},
}

func (p Pad) Name() string { return pads[p].Name }

var noteToPad = func() map[uint8]Pad {
	m := make(map[uint8]Pad, numPads)
	for p := Pad(0); p < numPads; p++ {
		m[pads[p].Note] = p
	}
	return m
}()

// padForNote resolves a MIDI note number to a pad. Notes that don't belong
// to the kit are reported as not ok and dropped by the caller.
func padForNote(note uint8) (Pad, bool) {
	p, ok := noteToPad[note]
	return p, ok
}
