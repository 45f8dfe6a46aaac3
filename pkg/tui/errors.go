package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoBook is reported when an entity option is prompted without a book
	// to list candidates from.
	ErrNoBook = errors.New("tui: no book configured for entity selection")
)
