// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framebuffer

import (
	"encoding/binary"
	"fmt"
	"image"
)

// PixelFormat is the memory layout of one pixel.
type PixelFormat uint8

// Pixel formats. Values match the display service's native enumeration.
const (
	FormatRGBA8888 PixelFormat = 1 // bytes R, G, B, A
	FormatRGBX8888 PixelFormat = 2 // bytes R, G, B, unused
	FormatRGB565   PixelFormat = 4 // little-endian uint16, R in the high bits
	FormatBGRA8888 PixelFormat = 5 // bytes B, G, R, A
	FormatRGBA4444 PixelFormat = 7 // little-endian uint16, R in the high nibble
)

// Valid reports whether f is a known format.
func (f PixelFormat) Valid() bool {
	return f.BytesPerPixel() != 0
}

// BytesPerPixel returns the pixel size, or 0 for an unknown format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA8888, FormatRGBX8888, FormatBGRA8888:
		return 4
	case FormatRGB565, FormatRGBA4444:
		return 2
	default:
		return 0
	}
}

// IsRGBA reports whether pixels are laid out as R, G, B, A bytes, so that a
// buffer can be viewed as an *image.RGBA. The alpha byte of RGBX8888 is
// ignored by the display.
func (f PixelFormat) IsRGBA() bool {
	return f == FormatRGBA8888 || f == FormatRGBX8888
}

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8888:
		return "RGBA8888"
	case FormatRGBX8888:
		return "RGBX8888"
	case FormatRGB565:
		return "RGB565"
	case FormatBGRA8888:
		return "BGRA8888"
	case FormatRGBA4444:
		return "RGBA4444"
	default:
		return fmt.Sprintf("PixelFormat(%d)", uint8(f))
	}
}

// ParsePixelFormat returns the format with the given name.
func ParsePixelFormat(name string) (PixelFormat, error) {
	for _, f := range []PixelFormat{FormatRGBA8888, FormatRGBX8888, FormatRGB565, FormatBGRA8888, FormatRGBA4444} {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, name)
}

// decode converts a w x h buffer in format f into a tightly packed RGBA image.
func decode(f PixelFormat, pix []byte, stride, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bpp := f.BytesPerPixel()

	for y := 0; y < h; y++ {
		src := pix[y*stride : y*stride+w*bpp]
		dst := img.Pix[y*img.Stride : y*img.Stride+w*4]

		switch f {
		case FormatRGBA8888:
			copy(dst, src)
		case FormatRGBX8888:
			copy(dst, src)
			for i := 3; i < len(dst); i += 4 {
				dst[i] = 0xff
			}
		case FormatBGRA8888:
			for i := 0; i < len(dst); i += 4 {
				dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+2], src[i+1], src[i], src[i+3]
			}
		case FormatRGB565:
			for x := 0; x < w; x++ {
				v := binary.LittleEndian.Uint16(src[x*2:])
				r, g, b := uint8(v>>11&0x1f), uint8(v>>5&0x3f), uint8(v&0x1f)
				d := dst[x*4 : x*4+4 : x*4+4]
				d[0], d[1], d[2], d[3] = r<<3|r>>2, g<<2|g>>4, b<<3|b>>2, 0xff
			}
		case FormatRGBA4444:
			for x := 0; x < w; x++ {
				v := binary.LittleEndian.Uint16(src[x*2:])
				d := dst[x*4 : x*4+4 : x*4+4]
				d[0] = uint8(v>>12&0xf) * 0x11
				d[1] = uint8(v>>8&0xf) * 0x11
				d[2] = uint8(v>>4&0xf) * 0x11
				d[3] = uint8(v&0xf) * 0x11
			}
		}
	}
	return img
}
