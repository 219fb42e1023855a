package glyph

import (
	"bytes"
	"image"
	"sync/atomic"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/math/fixed"
)

// Key identifies a rasterized glyph. Two equal keys always rasterize to
// identical bitmaps.
type Key struct {
	// Font is the ID of the parsed font the glyph comes from.
	Font uint64

	// Size is the pixel size of the face in 26.6 fixed point.
	Size fixed.Int26_6

	// Rune is the character.
	Rune rune
}

// Bitmap is a rasterized glyph: one coverage byte per pixel.
//
// Mask.Rect is the pixel bounding box relative to the pen origin, which sits
// on the baseline; Min.Y is negative for ink above the baseline. Blank glyphs
// have an empty Mask.Rect.
//
// A Bitmap returned by a Cache is owned by the cache and must not be modified.
type Bitmap struct {
	Mask *image.Alpha

	// Advance is the horizontal pen advance after this glyph.
	Advance fixed.Int26_6
}

// Bounds returns the glyph's pixel bounding box relative to the pen origin.
func (b *Bitmap) Bounds() image.Rectangle {
	if b == nil || b.Mask == nil {
		return image.Rectangle{}
	}
	return b.Mask.Rect
}

// Empty reports whether the glyph has no ink.
func (b *Bitmap) Empty() bool {
	return b.Bounds().Empty()
}

// Coverage returns the coverage at (x, y) relative to the pen origin.
// Pixels outside the bounding box have zero coverage.
func (b *Bitmap) Coverage(x, y int) uint8 {
	if b.Empty() {
		return 0
	}
	return b.Mask.AlphaAt(x, y).A
}

// Equal reports whether two bitmaps have the same box, advance and coverage.
func (b *Bitmap) Equal(o *Bitmap) bool {
	if b.Advance != o.Advance || b.Bounds() != o.Bounds() {
		return false
	}
	if b.Empty() {
		return true
	}
	r := b.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := b.Mask.PixOffset(r.Min.X, y)
		j := o.Mask.PixOffset(r.Min.X, y)
		if !bytes.Equal(b.Mask.Pix[i:i+r.Dx()], o.Mask.Pix[j:j+r.Dx()]) {
			return false
		}
	}
	return true
}

// blankBitmap returns an inkless glyph with the given advance.
func blankBitmap(advance fixed.Int26_6) *Bitmap {
	return &Bitmap{Mask: &image.Alpha{}, Advance: advance}
}

// isBlank reports whether r never produces ink: whitespace, control
// characters and zero-width runes such as combining marks and joiners.
func isBlank(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r) || runewidth.RuneWidth(r) == 0
}

// Metrics holds face-level vertical metrics in pixels.
type Metrics struct {
	// Ascent is the distance from the baseline to the top of the line (positive).
	Ascent fixed.Int26_6

	// Descent is the distance from the baseline to the bottom of the line (positive).
	Descent fixed.Int26_6

	// LineGap is the recommended extra space between lines.
	LineGap fixed.Int26_6
}

// LineHeight returns ascent + descent + line gap.
func (m Metrics) LineHeight() fixed.Int26_6 {
	return m.Ascent + m.Descent + m.LineGap
}

// LinePitch returns the line height rounded up to whole pixels.
func (m Metrics) LinePitch() int {
	return m.LineHeight().Ceil()
}

// Face is a font at a fixed pixel size.
//
// Rasterize is deterministic: the same rune always yields an identical
// bitmap. It performs no caching; use a Cache for that. Faces are not safe
// for concurrent use.
type Face interface {
	// ID returns the identifier of the parsed font this face belongs to.
	ID() uint64

	// Name returns the font family name.
	Name() string

	// Size returns the face size in pixels per em.
	Size() float64

	// Metrics returns vertical metrics at this size.
	Metrics() Metrics

	// Advance returns the horizontal advance of r.
	Advance(r rune) fixed.Int26_6

	// Rasterize renders r into a fresh coverage bitmap.
	Rasterize(r rune) *Bitmap
}

// KeyOf returns the cache key of r rendered with face.
func KeyOf(face Face, r rune) Key {
	return Key{Font: face.ID(), Size: floatToFixed(face.Size()), Rune: r}
}

// AverageAdvance returns the mean advance over printable ASCII.
// For monospaced fonts this is the cell width.
func AverageAdvance(face Face) fixed.Int26_6 {
	var total fixed.Int26_6
	n := 0
	for r := rune(0x20); r <= 0x7e; r++ {
		total += face.Advance(r)
		n++
	}
	return total / fixed.Int26_6(n)
}

var lastFontID atomic.Uint64

// nextFontID hands out process-unique font identifiers.
func nextFontID() uint64 {
	return lastFontID.Add(1)
}

// floatToFixed converts a pixel value to 26.6 fixed point, rounding to nearest.
func floatToFixed(v float64) fixed.Int26_6 {
	if v < 0 {
		return -fixed.Int26_6(-v*64 + 0.5)
	}
	return fixed.Int26_6(v*64 + 0.5)
}
