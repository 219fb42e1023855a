package glyph

import "errors"

// Sentinel errors for the glyph package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("glyph: empty font data")

	// ErrUnknownBackend is returned when WithBackend names an unregistered backend.
	ErrUnknownBackend = errors.New("glyph: unknown font backend")

	// ErrInvalidSize is returned when a face is requested with a non-positive size.
	ErrInvalidSize = errors.New("glyph: font size must be positive")
)
