// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framebuffer

import "errors"

var (
	// ErrInvalidSize is returned when width or height is not positive.
	ErrInvalidSize = errors.New("framebuffer: invalid size")

	// ErrInvalidBuffering is returned when the buffer count is outside [1, 3].
	ErrInvalidBuffering = errors.New("framebuffer: buffering must be 1, 2 or 3")

	// ErrInvalidFormat is returned for an unknown pixel format.
	ErrInvalidFormat = errors.New("framebuffer: invalid pixel format")

	// ErrFrameInProgress is returned by Begin and MakeLinear while a frame is open.
	ErrFrameInProgress = errors.New("framebuffer: frame in progress")

	// ErrNoFrame is returned by End when no frame is open.
	ErrNoFrame = errors.New("framebuffer: no frame in progress")
)
