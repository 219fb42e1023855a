package fbcon

import "errors"

var (
	// ErrUnsupportedFormat is returned when the framebuffer pixels are not
	// 4-byte RGBA.
	ErrUnsupportedFormat = errors.New("fbcon: framebuffer format must be RGBA8888 or RGBX8888")

	// ErrNotLinear is returned when the framebuffer cannot provide a linear
	// shadow buffer.
	ErrNotLinear = errors.New("fbcon: framebuffer cannot be made linear")

	// ErrWindowTooSmall is returned when not even one column or line fits.
	ErrWindowTooSmall = errors.New("fbcon: window too small for font")

	// ErrCacheFace is returned when an injected glyph cache was built for a
	// different face.
	ErrCacheFace = errors.New("fbcon: glyph cache belongs to another face")
)
