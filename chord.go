package main

import (
	"sort"
	"strings"
)

// ChordDelim terminates every chord token.
const ChordDelim = "."

// RenderChord turns the set of pads that crossed threshold in one tick
// into a chord token: display names in pad enumeration order, joined with
// commas, terminated with the delimiter ("BD,SNARE."). Pads that share a
// display name are listed once per firing pad ("HH,HH.") — the dictionary
// grammar is literal token text, so nothing is de-duplicated. An empty
// set renders as the empty string (no chord).
func RenderChord(crossed []Pad) string {
	if len(crossed) == 0 {
		return ""
	}
	ordered := make([]Pad, len(crossed))
	copy(ordered, crossed)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	names := make([]string, len(ordered))
	for i, p := range ordered {
		names[i] = p.Name()
	}
	return strings.Join(names, ",") + ChordDelim
}
