package glyph

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ximageFont implements Font using golang.org/x/image/font/opentype.
type ximageFont struct {
	id   uint64
	name string
	font *opentype.Font
}

func parseXImage(data []byte) (Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyph: failed to parse font: %w", err)
	}
	name, err := f.Name(nil, sfnt.NameIDFamily)
	if err != nil || name == "" {
		name = "Unknown Font"
	}
	return &ximageFont{id: nextFontID(), name: name, font: f}, nil
}

func (f *ximageFont) ID() uint64      { return f.id }
func (f *ximageFont) Name() string    { return f.name }
func (f *ximageFont) Backend() string { return BackendXImage }

// Face implements Font.Face.
func (f *ximageFont) Face(size float64) (Face, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	// DPI 72 makes Size pixels per em. Full hinting snaps advances to whole
	// pixels, which keeps console columns aligned.
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("glyph: failed to create face: %w", err)
	}
	return &ximageFace{font: f, size: size, face: face}, nil
}

// ximageFace implements Face on top of an opentype font.Face.
type ximageFace struct {
	font *ximageFont
	size float64
	face font.Face
}

func (f *ximageFace) ID() uint64    { return f.font.id }
func (f *ximageFace) Name() string  { return f.font.name }
func (f *ximageFace) Size() float64 { return f.size }

// Metrics implements Face.Metrics.
func (f *ximageFace) Metrics() Metrics {
	m := f.face.Metrics()
	gap := m.Height - m.Ascent - m.Descent
	if gap < 0 {
		gap = 0
	}
	return Metrics{Ascent: m.Ascent, Descent: m.Descent, LineGap: gap}
}

// Advance implements Face.Advance.
func (f *ximageFace) Advance(r rune) fixed.Int26_6 {
	adv, _ := f.face.GlyphAdvance(r)
	return adv
}

// Rasterize implements Face.Rasterize.
func (f *ximageFace) Rasterize(r rune) *Bitmap {
	if isBlank(r) {
		return blankBitmap(f.Advance(r))
	}

	// With the dot at the origin, dr is the box relative to the pen origin.
	// ok is false for runes missing from the font; their .notdef mask is
	// still drawn.
	dr, mask, maskp, advance, _ := f.face.Glyph(fixed.Point26_6{}, r)
	if mask == nil || dr.Empty() {
		return blankBitmap(advance)
	}

	// The face reuses its mask buffer on every call, so copy it out.
	dst := image.NewAlpha(dr)
	draw.Draw(dst, dr, mask, maskp, draw.Src)
	return &Bitmap{Mask: dst, Advance: advance}
}
