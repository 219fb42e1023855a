// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framebuffer

import (
	"fmt"
	"image"
	"log/slog"
)

// MaxBuffering is the largest supported buffer count.
const MaxBuffering = 3

// DefaultStrideAlign is the default row alignment in pixels.
const DefaultStrideAlign = 64

// Presenter receives every finished frame.
//
// img is only valid for the duration of the call. For RGBA formats it
// aliases the presented buffer; other formats are converted first.
type Presenter interface {
	Present(img *image.RGBA) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(img *image.RGBA) error

// Present calls fn(img).
func (fn PresenterFunc) Present(img *image.RGBA) error {
	return fn(img)
}

// Option configures a Framebuffer.
type Option func(*config)

type config struct {
	strideAlign int
	presenter   Presenter
	logger      *slog.Logger
}

func defaultConfig() config {
	return config{
		strideAlign: DefaultStrideAlign,
		logger:      newNopLogger(),
	}
}

// WithStrideAlign pads each row to a multiple of n pixels. Values below 1
// disable padding.
func WithStrideAlign(n int) Option {
	return func(c *config) {
		c.strideAlign = max(n, 1)
	}
}

// WithPresenter sets the presenter called by End.
func WithPresenter(p Presenter) Option {
	return func(c *config) {
		c.presenter = p
	}
}

// WithLogger sets the logger for frame and presenter events.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Framebuffer is a set of equally sized pixel buffers presented in turn.
type Framebuffer struct {
	width, height int
	format        PixelFormat
	stride        int

	buffers [][]byte
	back    int // buffer the next frame ends in
	front   int // last presented buffer, -1 before the first frame
	linear  []byte

	frame  *Frame
	frames uint64

	presenter Presenter
	logger    *slog.Logger
}

// New allocates a framebuffer of buffering buffers, each zeroed.
func New(width, height int, format PixelFormat, buffering int, opts ...Option) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if buffering < 1 || buffering > MaxBuffering {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBuffering, buffering)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFormat, uint8(format))
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	aligned := (width + cfg.strideAlign - 1) / cfg.strideAlign * cfg.strideAlign
	stride := aligned * format.BytesPerPixel()

	buffers := make([][]byte, buffering)
	for i := range buffers {
		buffers[i] = make([]byte, stride*height)
	}

	return &Framebuffer{
		width:     width,
		height:    height,
		format:    format,
		stride:    stride,
		buffers:   buffers,
		front:     -1,
		presenter: cfg.presenter,
		logger:    cfg.logger,
	}, nil
}

// Width returns the visible width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the visible height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Format returns the pixel format.
func (fb *Framebuffer) Format() PixelFormat { return fb.format }

// Stride returns the distance between rows in bytes.
func (fb *Framebuffer) Stride() int { return fb.stride }

// Buffering returns the number of buffers.
func (fb *Framebuffer) Buffering() int { return len(fb.buffers) }

// Linear reports whether MakeLinear has been called.
func (fb *Framebuffer) Linear() bool { return fb.linear != nil }

// Frames returns the number of frames presented.
func (fb *Framebuffer) Frames() uint64 { return fb.frames }

// SetPresenter replaces the presenter. nil disables presenting.
func (fb *Framebuffer) SetPresenter(p Presenter) { fb.presenter = p }

// MakeLinear adds a persistent shadow buffer. From then on every frame
// draws into the same memory, so pixels survive between frames regardless
// of buffering. Calling it again is a no-op.
func (fb *Framebuffer) MakeLinear() error {
	if fb.frame != nil {
		return ErrFrameInProgress
	}
	if fb.linear == nil {
		fb.linear = make([]byte, fb.stride*fb.height)
	}
	return nil
}

// Begin opens a frame.
func (fb *Framebuffer) Begin() (*Frame, error) {
	if fb.frame != nil {
		return nil, ErrFrameInProgress
	}

	pix := fb.linear
	if pix == nil {
		pix = fb.buffers[fb.back]
	}
	fb.frame = &Frame{fb: fb, pix: pix}
	return fb.frame, nil
}

// End closes the open frame, presents it and advances to the next buffer.
// The frame is invalidated even if presenting fails.
func (fb *Framebuffer) End() error {
	f := fb.frame
	if f == nil {
		return ErrNoFrame
	}
	f.pix = nil
	fb.frame = nil

	if fb.linear != nil {
		copy(fb.buffers[fb.back], fb.linear)
	}
	fb.front = fb.back
	fb.back = (fb.back + 1) % len(fb.buffers)
	fb.frames++

	if fb.presenter == nil {
		return nil
	}
	if err := fb.presenter.Present(fb.frontImage()); err != nil {
		fb.logger.Warn("framebuffer: present failed",
			slog.Uint64("frame", fb.frames),
			slog.String("error", err.Error()))
		return fmt.Errorf("framebuffer: present frame %d: %w", fb.frames, err)
	}
	fb.logger.Debug("framebuffer: presented", slog.Uint64("frame", fb.frames))
	return nil
}

// Draw runs fn inside a Begin/End pair.
func (fb *Framebuffer) Draw(fn func(f *Frame)) error {
	f, err := fb.Begin()
	if err != nil {
		return err
	}
	fn(f)
	return fb.End()
}

// Snapshot returns a tightly packed RGBA copy of the last presented buffer.
// Before the first frame it returns a black, transparent image.
func (fb *Framebuffer) Snapshot() *image.RGBA {
	if fb.front < 0 {
		return image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	}
	return decode(fb.format, fb.buffers[fb.front], fb.stride, fb.width, fb.height)
}

// frontImage returns the presented buffer as RGBA, aliasing it when the
// format allows.
func (fb *Framebuffer) frontImage() *image.RGBA {
	if fb.format.IsRGBA() {
		return rgbaView(fb.buffers[fb.front], fb.stride, fb.width, fb.height)
	}
	return fb.Snapshot()
}

func rgbaView(pix []byte, stride, w, h int) *image.RGBA {
	return &image.RGBA{
		Pix:    pix,
		Stride: stride,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// Frame is the mutable view of one frame in progress.
type Frame struct {
	fb  *Framebuffer
	pix []byte
}

// Pix returns the frame's pixel memory, Stride bytes per row. It returns
// nil after the frame has ended.
func (f *Frame) Pix() []byte { return f.pix }

// Stride returns the distance between rows in bytes.
func (f *Frame) Stride() int { return f.fb.stride }

// Width returns the visible width in pixels.
func (f *Frame) Width() int { return f.fb.width }

// Height returns the visible height in pixels.
func (f *Frame) Height() int { return f.fb.height }

// Format returns the pixel format.
func (f *Frame) Format() PixelFormat { return f.fb.format }

// Image returns an *image.RGBA aliasing the frame memory. Its Stride is the
// framebuffer stride, so bytes past 4*Width in each row are padding.
// It returns nil for non-RGBA formats or after the frame has ended.
func (f *Frame) Image() *image.RGBA {
	if f.pix == nil || !f.fb.format.IsRGBA() {
		return nil
	}
	return rgbaView(f.pix, f.fb.stride, f.fb.width, f.fb.height)
}
