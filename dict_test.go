package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultDict(t *testing.T) *Dictionary {
	t.Helper()
	d, err := NewDictionary(DefaultEntries())
	require.NoError(t, err)
	return d
}

func TestDefaultDictionaryLookups(t *testing.T) {
	d := defaultDict(t)
	assert := assert.New(t)

	a, ok := d.Lookup("BD,SNARE.")
	assert.True(ok)
	assert.Equal(OutputAction{Key: "b"}, a)

	a, ok = d.Lookup("BD,SNARE.BD,SNARE.")
	assert.True(ok)
	assert.Equal(OutputAction{Key: "b", Mods: ModShift}, a)

	a, ok = d.Lookup("BD.")
	assert.True(ok)
	assert.Equal(OutputAction{Key: "space"}, a)

	a, ok = d.Lookup("BD,RIDE.")
	assert.True(ok)
	assert.Equal(OutputAction{Key: "1", Mods: ModShift}, a) // "!"
}

func TestLookupIsExactNotPrefix(t *testing.T) {
	d := defaultDict(t)
	assert := assert.New(t)

	for _, s := range []string{
		"BD,SNARE",     // missing delimiter
		"BD,SNARE.BD.", // superstring of a pattern
		"BD",           // proper prefix
		"bd,snare.",    // case matters
		"CRASH,SNARE,RIDE.",
		"",
	} {
		_, ok := d.Lookup(s)
		assert.False(ok, "unexpected match for %q", s)
	}
}

func TestNewDictionaryRejectsBadEntries(t *testing.T) {
	assert := assert.New(t)

	_, err := NewDictionary([]DictEntry{
		{Pattern: "BD.", Action: OutputAction{Key: "a"}},
		{Pattern: "BD.", Action: OutputAction{Key: "b"}},
	})
	assert.ErrorContains(err, "duplicate pattern")

	_, err = NewDictionary([]DictEntry{{Pattern: "", Action: OutputAction{Key: "a"}}})
	assert.ErrorContains(err, "empty pattern")

	_, err = NewDictionary([]DictEntry{{Pattern: "BD."}})
	assert.ErrorContains(err, "empty key")
}

func TestLoadEntriesFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	data := []byte(`[
		{"pattern":"BD,SNARE.","key":"b"},
		{"pattern":"BD,SNARE.BD,SNARE.","key":"b","shift":true}
	]`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	entries, err := LoadEntries(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert := assert.New(t)
	assert.Equal(DictEntry{Pattern: "BD,SNARE.", Action: OutputAction{Key: "b"}}, entries[0])
	assert.Equal(DictEntry{Pattern: "BD,SNARE.BD,SNARE.", Action: OutputAction{Key: "b", Mods: ModShift}}, entries[1])
}

func TestLoadEntriesFailsLoudly(t *testing.T) {
	_, err := LoadEntries(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = LoadEntries(path)
	assert.Error(t, err)
}
