package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Modifier is the set of modifier keys held while an action's key is
// pressed.
type Modifier uint8

const ModShift Modifier = 1 << iota

// OutputAction names the key to synthesize and the modifiers to hold.
// The key symbol is opaque to the engine; the action sink interprets it.
type OutputAction struct {
	Key  string
	Mods Modifier
}

// DictEntry pairs an exact sentence pattern with its output action.
type DictEntry struct {
	Pattern string
	Action  OutputAction
}

// Dictionary is the immutable sentence→action table, built once at
// startup and shared by reference. Lookup is exact string equality; no
// prefix or fuzzy matching.
type Dictionary struct {
	entries   []DictEntry
	byPattern map[string]OutputAction
}

func NewDictionary(entries []DictEntry) (*Dictionary, error) {
	byPattern := make(map[string]OutputAction, len(entries))
	for i, e := range entries {
		if e.Pattern == "" {
			return nil, fmt.Errorf("dictionary entry %d: empty pattern", i)
		}
		if e.Action.Key == "" {
			return nil, fmt.Errorf("dictionary entry %d (%q): empty key", i, e.Pattern)
		}
		if _, dup := byPattern[e.Pattern]; dup {
			return nil, fmt.Errorf("dictionary entry %d: duplicate pattern %q", i, e.Pattern)
		}
		byPattern[e.Pattern] = e.Action
	}
	return &Dictionary{entries: entries, byPattern: byPattern}, nil
}

// Lookup finds the action for a completed sentence.
func (d *Dictionary) Lookup(sentence string) (OutputAction, bool) {
	a, ok := d.byPattern[sentence]
	return a, ok
}

// Len reports the number of entries.
func (d *Dictionary) Len() int { return len(d.entries) }

// dictEntryJSON is the on-disk form of one dictionary entry.
type dictEntryJSON struct {
	Pattern string `json:"pattern"`
	Key     string `json:"key"`
	Shift   bool   `json:"shift,omitempty"`
}

// LoadEntries reads a JSON dictionary file: an array of
// {"pattern":"BD,SNARE.","key":"b","shift":false} objects.
func LoadEntries(path string) ([]DictEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	var raw []dictEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
	}
	entries := make([]DictEntry, 0, len(raw))
	for _, r := range raw {
		var mods Modifier
		if r.Shift {
			mods |= ModShift
		}
		entries = append(entries, DictEntry{
			Pattern: r.Pattern,
			Action:  OutputAction{Key: r.Key, Mods: mods},
		})
	}
	return entries, nil
}

// letter builds the usual pair of entries for a letter: the sentence once
// for lowercase, twice in a row for the shifted form.
func letter(sentence, key string) []DictEntry {
	return []DictEntry{
		{Pattern: sentence, Action: OutputAction{Key: key}},
		{Pattern: sentence + sentence, Action: OutputAction{Key: key, Mods: ModShift}},
	}
}

// DefaultEntries is the built-in drum-sentence alphabet.
func DefaultEntries() []DictEntry {
	var entries []DictEntry
	for _, l := range []struct{ sentence, key string }{
		{"RIDE.", "a"},
		{"BD,SNARE.", "b"},
		{"CRASH,SNARE.", "c"},
		{"CRASH,SIDETOM.", "d"},
		{"SNARE.", "e"},
		{"BD,HATFOOT.", "f"},
		{"BD,FLOORTOM.", "g"},
		{"SNARE,SIDETOM.", "h"},
		{"SIDETOM.", "i"},
		{"FLOORTOM,HATFOOT.", "j"},
		{"HH,FLOORTOM.", "k"},
		{"BD,SIDETOM.", "l"},
		{"HH,SNARE.", "m"},
		{"FLOORTOM.", "n"},
		{"CRASH.", "o"},
		{"SNARE,FLOORTOM.", "p"},
		{"BD,SNARE,HATFOOT.", "q"},
		{"HATFOOT.", "r"},
		{"CRASH,RIDE.", "s"},
		{"HH.", "t"},
		{"HH,CRASH.", "u"},
		{"BD,CRASH,RIDE.", "v"},
		{"BD,HH,RIDE.", "w"},
		{"RIDE,HATFOOT.", "x"},
		{"BD,SNARE,FLOORTOM.", "y"},
		{"BD,SNARE,SIDETOM.", "z"},
	} {
		entries = append(entries, letter(l.sentence, l.key)...)
	}
	entries = append(entries,
		DictEntry{Pattern: "BD.", Action: OutputAction{Key: "space"}},
		DictEntry{Pattern: "BD,CRASH.", Action: OutputAction{Key: "backspace"}},
		DictEntry{Pattern: "SNARE,RIDE.", Action: OutputAction{Key: "period"}},
		DictEntry{Pattern: "HH,RIDE.", Action: OutputAction{Key: "comma"}},
		DictEntry{Pattern: "BD,RIDE.", Action: OutputAction{Key: "1", Mods: ModShift}}, // "!"
		DictEntry{Pattern: "SIDETOM,RIDE.", Action: OutputAction{Key: "semicolon"}},
		DictEntry{Pattern: "BD,SNARE,RIDE.", Action: OutputAction{Key: "enter"}},
	)
	return entries
}
