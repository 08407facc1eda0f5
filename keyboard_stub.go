//go:build !linux

package main

import "errors"

// OpenUinputKeyboard is linux-only; other platforms run with -dry-run.
func OpenUinputKeyboard() (ActionSink, error) {
	return nil, errors.New("uinput keyboard output requires linux; use -dry-run")
}
