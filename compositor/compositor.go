// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"image"
	"log/slog"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/fbcon/glyph"
	"github.com/gogpu/fbcon/linebuf"
)

// LineSource provides display lines by slot. Slot 0 is the top row.
// *linebuf.Buffer implements it.
type LineSource interface {
	Len() int
	Line(i int) string
}

// Stats describes the work done by one Paint call.
type Stats struct {
	// Full is true when the surface was cleared first.
	Full bool

	// Slots is the number of line slots painted.
	Slots int

	// Glyphs is the number of glyphs fetched from the cache.
	Glyphs int

	// Pixels is the number of pixels written by glyphs (clears excluded).
	Pixels int
}

// Option configures a Compositor.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

func defaultConfig() config {
	return config{logger: newNopLogger()}
}

// WithLogger sets the logger for paint statistics at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Compositor paints lines using glyphs from one cache.
// It is not safe for concurrent use.
type Compositor struct {
	glyphs *glyph.Cache
	ascent int
	pitch  int
	logger *slog.Logger
}

// New creates a compositor drawing with the face behind glyphs.
func New(glyphs *glyph.Cache, opts ...Option) *Compositor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := glyphs.Face().Metrics()
	return &Compositor{
		glyphs: glyphs,
		ascent: m.Ascent.Round(),
		pitch:  m.LinePitch(),
		logger: cfg.logger,
	}
}

// LinePitch returns the height of one line slot in pixels.
func (c *Compositor) LinePitch() int { return c.pitch }

// Baseline returns the baseline offset from the top of a slot in pixels.
func (c *Compositor) Baseline() int { return c.ascent }

// Glyphs returns the glyph cache.
func (c *Compositor) Glyphs() *glyph.Cache { return c.glyphs }

// Paint draws the slots named by dirty into dst.
//
// For FullRedraw every pixel in dst.Rect is zeroed and every occupied slot
// is painted. For PartialRedraw only the listed slots are painted, over
// whatever dst already holds. Slots outside [0, lines.Len()) are ignored.
func (c *Compositor) Paint(dst *image.RGBA, lines LineSource, dirty linebuf.Dirty) Stats {
	var st Stats

	switch d := dirty.(type) {
	case linebuf.FullRedraw:
		st.Full = true
		Clear(dst)
		for i := range lines.Len() {
			c.paintSlot(dst, lines, i, &st)
		}
	case linebuf.PartialRedraw:
		n := lines.Len()
		for _, i := range d.Slots {
			if i < 0 || i >= n {
				continue
			}
			c.paintSlot(dst, lines, i, &st)
		}
	}

	if st.Slots > 0 || st.Full {
		c.logger.Debug("compositor: paint",
			"full", st.Full,
			"slots", st.Slots,
			"glyphs", st.Glyphs,
			"pixels", st.Pixels)
	}
	return st
}

// paintSlot draws one line with its row top at slot*pitch.
func (c *Compositor) paintSlot(dst *image.RGBA, lines LineSource, slot int, st *Stats) {
	baseline := slot*c.pitch + c.ascent
	var pen fixed.Int26_6

	for _, r := range lines.Line(slot) {
		bm := c.glyphs.GetOrRasterize(r)
		st.Glyphs++
		if !bm.Empty() {
			st.Pixels += blit(dst, bm, pen.Round(), baseline)
		}
		pen += bm.Advance
	}
	st.Slots++
}

// blit writes bm with its pen origin at (x0, baseline), relative to
// dst.Rect.Min, and returns the number of pixels written.
func blit(dst *image.RGBA, bm *glyph.Bitmap, x0, baseline int) int {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	box := bm.Mask.Rect
	n := 0

	for y := box.Min.Y; y < box.Max.Y; y++ {
		ty := baseline + y
		if ty < 0 {
			continue
		}
		if ty >= h {
			break
		}
		src := bm.Mask.Pix[bm.Mask.PixOffset(box.Min.X, y):]
		for x := box.Min.X; x < box.Max.X; x++ {
			v := src[x-box.Min.X]
			if v == 0 {
				continue
			}
			tx := x0 + x
			if tx < 0 || tx >= w {
				continue
			}
			off := dst.PixOffset(dst.Rect.Min.X+tx, dst.Rect.Min.Y+ty)
			p := dst.Pix[off : off+4 : off+4]
			p[0], p[1], p[2], p[3] = v, v, v, 0xff
			n++
		}
	}
	return n
}

// Clear zeroes the visible bytes of every row of dst. Stride padding is
// left as is.
func Clear(dst *image.RGBA) {
	r := dst.Rect
	if r.Empty() {
		return
	}
	rowBytes := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := dst.PixOffset(r.Min.X, y)
		clear(dst.Pix[off : off+rowBytes])
	}
}
