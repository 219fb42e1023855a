// Package fbcon renders a scrolling text console into a software
// framebuffer.
//
// # Overview
//
// A Console keeps the most recent lines of text that fit on screen,
// wrapped to the screen width, and paints them glyph by glyph as white on
// black. Only lines that changed since the last frame are repainted, unless
// the window scrolled, in which case the whole screen is redrawn.
// Rasterized glyphs are kept in a small LRU cache.
//
// # Quick Start
//
//	fb, err := framebuffer.New(1280, 720, framebuffer.FormatRGBA8888, 2)
//	if err != nil {
//	    return err
//	}
//	font, err := glyph.DefaultFont()
//	if err != nil {
//	    return err
//	}
//	face, err := font.Face(20)
//	if err != nil {
//	    return err
//	}
//	con, err := fbcon.New(fb, face)
//	if err != nil {
//	    return err
//	}
//	con.Append("hello\nworld")
//	if err := con.Update(); err != nil {
//	    return err
//	}
//
// # Architecture
//
//   - glyph: font backends, faces and the glyph cache
//   - linebuf: wrapping and the visible line window
//   - compositor: painting lines into an *image.RGBA
//   - framebuffer: buffers, frames and presenters
//
// Console wires them together. Each piece is usable on its own.
//
// # Geometry
//
// The number of columns is the framebuffer width divided by the mean
// advance of printable ASCII, and the number of lines is the height divided
// by the line pitch (ascent + descent + line gap, rounded up). Lines are
// wrapped by rune count, which matches the screen exactly for monospaced
// fonts.
//
// A Console is not safe for concurrent use.
package fbcon
