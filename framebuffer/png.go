// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framebuffer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// PNGPresenter writes every presented frame to a PNG file, replacing the
// previous one atomically.
type PNGPresenter struct {
	// Path is the output file.
	Path string

	// Opaque forces alpha to 255 so cleared pixels come out black rather
	// than transparent.
	Opaque bool
}

// Present implements Presenter.
func (p *PNGPresenter) Present(img *image.RGBA) error {
	if p.Opaque {
		img = opaqueCopy(img)
	}
	return SavePNG(p.Path, img)
}

// SavePNG encodes img to path. The file is written next to path and renamed
// into place, so readers never see a partial image.
func SavePNG(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fbcon-*.png")
	if err != nil {
		return fmt.Errorf("framebuffer: create png: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("framebuffer: encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("framebuffer: write png: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("framebuffer: write png: %w", err)
	}
	return nil
}

// opaqueCopy returns a tightly packed copy of img with alpha set to 255.
func opaqueCopy(img *image.RGBA) *image.RGBA {
	r := img.Rect
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		src := img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):]
		dst := out.Pix[y*out.Stride : y*out.Stride+r.Dx()*4]
		copy(dst, src)
		for i := 3; i < len(dst); i += 4 {
			dst[i] = 0xff
		}
	}
	return out
}
