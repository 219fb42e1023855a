package glyph

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"math"

	gotext "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// gotextFont implements Font using go-text/typesetting.
// Outlines are filled with golang.org/x/image/vector.
type gotextFont struct {
	id   uint64
	name string
	face *gotext.Face
}

func parseGoText(data []byte) (Font, error) {
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("glyph: failed to parse font: %w", err)
	}
	name := face.Describe().Family
	if name == "" {
		name = "Unknown Font"
	}
	return &gotextFont{id: nextFontID(), name: name, face: face}, nil
}

func (f *gotextFont) ID() uint64      { return f.id }
func (f *gotextFont) Name() string    { return f.name }
func (f *gotextFont) Backend() string { return BackendGoText }

// Face implements Font.Face.
func (f *gotextFont) Face(size float64) (Face, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	upem := f.face.Upem()
	if upem == 0 {
		return nil, fmt.Errorf("glyph: font %q has no units per em", f.name)
	}
	return &gotextFace{
		font:  f,
		size:  size,
		scale: float32(size) / float32(upem),
	}, nil
}

// gotextFace implements Face with go-text metrics and outlines.
type gotextFace struct {
	font  *gotextFont
	size  float64
	scale float32 // pixels per font unit
}

func (f *gotextFace) ID() uint64    { return f.font.id }
func (f *gotextFace) Name() string  { return f.font.name }
func (f *gotextFace) Size() float64 { return f.size }

// Metrics implements Face.Metrics.
func (f *gotextFace) Metrics() Metrics {
	ext, ok := f.font.face.FontHExtents()
	if !ok {
		// Fall back to the em box.
		return Metrics{Ascent: floatToFixed(f.size * 0.8), Descent: floatToFixed(f.size * 0.2)}
	}
	gap := ext.LineGap
	if gap < 0 {
		gap = 0
	}
	return Metrics{
		Ascent:  f.toFixed(ext.Ascender),
		Descent: f.toFixed(-ext.Descender),
		LineGap: f.toFixed(gap),
	}
}

// Advance implements Face.Advance.
func (f *gotextFace) Advance(r rune) fixed.Int26_6 {
	gid, _ := f.font.face.NominalGlyph(r)
	return f.toFixed(f.font.face.HorizontalAdvance(gid))
}

// Rasterize implements Face.Rasterize.
func (f *gotextFace) Rasterize(r rune) *Bitmap {
	advance := f.Advance(r)
	if isBlank(r) {
		return blankBitmap(advance)
	}

	// Missing runes map to GID 0, the .notdef glyph.
	gid, _ := f.font.face.NominalGlyph(r)
	outline, ok := f.font.face.GlyphData(gid).(gotext.GlyphOutline)
	if !ok || len(outline.Segments) == 0 {
		return blankBitmap(advance)
	}

	dr := f.pixelBounds(outline.Segments)
	if dr.Empty() {
		return blankBitmap(advance)
	}

	// Rasterizer space has its origin at dr.Min and y growing down.
	ox, oy := float32(dr.Min.X), float32(dr.Min.Y)
	pt := func(p ot.SegmentPoint) (float32, float32) {
		return p.X*f.scale - ox, -p.Y*f.scale - oy
	}

	z := vector.NewRasterizer(dr.Dx(), dr.Dy())
	z.DrawOp = draw.Src
	started := false
	for i := range outline.Segments {
		seg := &outline.Segments[i]
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			if started {
				z.ClosePath()
			}
			z.MoveTo(pt(seg.Args[0]))
			started = true
		case ot.SegmentOpLineTo:
			z.LineTo(pt(seg.Args[0]))
		case ot.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case ot.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if started {
		z.ClosePath()
	}

	dst := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	// Re-anchor the same pixels at the glyph box.
	return &Bitmap{
		Mask:    &image.Alpha{Pix: dst.Pix, Stride: dst.Stride, Rect: dr},
		Advance: advance,
	}
}

// pixelBounds returns the integer box enclosing every segment point,
// including control points, in y-down pixel space.
func (f *gotextFace) pixelBounds(segs []gotext.Segment) image.Rectangle {
	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	for i := range segs {
		for _, p := range segs[i].ArgsSlice() {
			x, y := p.X*f.scale, -p.Y*f.scale
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if minX > maxX {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
	)
}

// toFixed scales a font-unit value to 26.6 pixels.
func (f *gotextFace) toFixed(v float32) fixed.Int26_6 {
	return floatToFixed(float64(v * f.scale))
}
