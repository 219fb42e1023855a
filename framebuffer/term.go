// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framebuffer

import (
	"image"

	"github.com/gdamore/tcell/v2"
)

// upperHalfBlock fills the top half of a cell with the foreground color
// and leaves the bottom half to the background color.
const upperHalfBlock = '▀'

// Screen is the part of tcell.Screen the terminal presenter draws on.
type Screen interface {
	Size() (width, height int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
}

// TermPresenter previews frames in a terminal. Each cell shows two
// vertically stacked pixels, and the frame is box-filtered down uniformly
// so the whole frame fits.
type TermPresenter struct {
	screen Screen
}

// NewTermPresenter returns a presenter drawing on screen.
func NewTermPresenter(screen Screen) *TermPresenter {
	return &TermPresenter{screen: screen}
}

// Scale returns the side in frame pixels of the square block averaged
// into one half cell.
func (p *TermPresenter) Scale(frameW, frameH int) int {
	cols, rows := p.screen.Size()
	if cols <= 0 || rows <= 0 {
		return 0
	}
	sx := (frameW + cols - 1) / cols
	sy := (frameH + 2*rows - 1) / (2 * rows)
	return max(sx, sy, 1)
}

// Present implements Presenter.
func (p *TermPresenter) Present(img *image.RGBA) error {
	cols, rows := p.screen.Size()
	w, h := img.Rect.Dx(), img.Rect.Dy()
	s := p.Scale(w, h)
	if s == 0 {
		return nil
	}

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			x0, y0 := cx*s, 2*cy*s
			if x0 >= w || y0 >= h {
				p.screen.SetContent(cx, cy, ' ', nil, tcell.StyleDefault)
				continue
			}
			top := blockColor(img, x0, y0, s)
			bottom := blockColor(img, x0, y0+s, s)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			p.screen.SetContent(cx, cy, upperHalfBlock, nil, style)
		}
	}
	p.screen.Show()
	return nil
}

// blockColor averages the RGB channels of the s x s block at (x0, y0),
// relative to img.Rect.Min, clipped to the image. Alpha is ignored.
func blockColor(img *image.RGBA, x0, y0, s int) tcell.Color {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	var r, g, b, n int32
	for y := y0; y < min(y0+s, h); y++ {
		off := img.PixOffset(img.Rect.Min.X+x0, img.Rect.Min.Y+y)
		for x := x0; x < min(x0+s, w); x++ {
			r += int32(img.Pix[off])
			g += int32(img.Pix[off+1])
			b += int32(img.Pix[off+2])
			off += 4
			n++
		}
	}
	if n == 0 {
		return tcell.NewRGBColor(0, 0, 0)
	}
	return tcell.NewRGBColor(r/n, g/n, b/n)
}
