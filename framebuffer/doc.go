// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package framebuffer provides a software multi-buffered framebuffer.
//
// A Framebuffer owns one to three pixel buffers of identical geometry. Each
// frame is bracketed by Begin and End: Begin hands out a mutable Frame over
// the current back buffer, End presents it and advances to the next buffer.
// Rows are Stride bytes apart; Stride may exceed the visible row width.
//
// Because consecutive frames land in different buffers, incremental drawing
// needs MakeLinear: it adds a persistent shadow buffer that every frame
// draws into and that End copies to the back buffer before presenting.
//
//	fb, err := framebuffer.New(1280, 720, framebuffer.FormatRGBA8888, 2)
//	if err != nil {
//	    return err
//	}
//	if err := fb.MakeLinear(); err != nil {
//	    return err
//	}
//	err = fb.Draw(func(f *framebuffer.Frame) {
//	    img := f.Image()
//	    // draw into img
//	})
//
// Framebuffers are not safe for concurrent use. A Frame must not be used
// after End.
package framebuffer
