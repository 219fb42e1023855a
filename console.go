package fbcon

import (
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/fbcon/compositor"
	"github.com/gogpu/fbcon/framebuffer"
	"github.com/gogpu/fbcon/glyph"
	"github.com/gogpu/fbcon/linebuf"
)

// Console is a scrolling text window painted into a framebuffer.
//
// Console must not be copied after creation (enforced by copyCheck).
type Console struct {
	// addr is used for copy protection. It points to the Console itself.
	addr *Console

	fb     *framebuffer.Framebuffer
	face   glyph.Face
	glyphs *glyph.Cache
	lines  *linebuf.Buffer
	comp   *compositor.Compositor
	logger *slog.Logger

	last compositor.Stats
}

// New creates a console covering the whole framebuffer and switches the
// framebuffer to linear mode, so that lines painted in earlier frames
// survive.
//
// The column count is the framebuffer width divided by the face's mean
// ASCII advance; the line count is the height divided by the line pitch.
func New(fb *framebuffer.Framebuffer, face glyph.Face, opts ...Option) (*Console, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}

	if !fb.Format().IsRGBA() {
		return nil, fmt.Errorf("%w: got %v", ErrUnsupportedFormat, fb.Format())
	}
	if err := fb.MakeLinear(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotLinear, err)
	}

	cols, rows := Geometry(fb.Width(), fb.Height(), face)
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("%w: %dx%d px holds %d columns x %d lines at %g px",
			ErrWindowTooSmall, fb.Width(), fb.Height(), cols, rows, face.Size())
	}

	lineOpts := []linebuf.Option{linebuf.WithTabWidth(o.tabWidth)}
	if o.form != nil {
		lineOpts = append(lineOpts, linebuf.WithNormalization(*o.form))
	}
	lines, err := linebuf.New(cols, rows, lineOpts...)
	if err != nil {
		return nil, err
	}

	glyphs := o.glyphs
	if glyphs == nil {
		glyphs = glyph.NewCache(face,
			glyph.WithCapacity(o.cacheCapacity),
			glyph.WithCacheLogger(o.logger))
	} else if glyph.KeyOf(glyphs.Face(), 0) != glyph.KeyOf(face, 0) {
		return nil, fmt.Errorf("%w: cache for %s %g px, console uses %s %g px", ErrCacheFace,
			glyphs.Face().Name(), glyphs.Face().Size(), face.Name(), face.Size())
	}

	c := &Console{
		fb:     fb,
		face:   face,
		glyphs: glyphs,
		lines:  lines,
		comp:   compositor.New(glyphs, compositor.WithLogger(o.logger)),
		logger: o.logger,
	}
	c.addr = c

	o.logger.Info("fbcon: console created",
		slog.Int("width", fb.Width()),
		slog.Int("height", fb.Height()),
		slog.Int("columns", cols),
		slog.Int("lines", rows),
		slog.Int("line_pitch", c.comp.LinePitch()),
		slog.String("font", face.Name()),
		slog.Float64("size", face.Size()),
		slog.Int("cache_capacity", glyphs.Capacity()))
	return c, nil
}

// Geometry returns how many columns and lines of face fit in a width x
// height pixel area.
func Geometry(width, height int, face glyph.Face) (columns, lines int) {
	if avg := glyph.AverageAdvance(face); avg > 0 {
		columns = int(fixed.I(width) / avg)
	}
	if pitch := face.Metrics().LinePitch(); pitch > 0 {
		lines = height / pitch
	}
	return max(columns, 0), max(lines, 0)
}

// Append adds text to the console. Each call starts a new line, ending any
// partial line left by Write; '\n' breaks lines and long lines wrap at the
// column count. Nothing is drawn until Update.
func (c *Console) Append(text string) {
	c.copyCheck()
	c.lines.Append(text)
}

// Write implements io.Writer. Unlike Append, text continues the previous
// Write until a '\n'. Filled rows are added at once; the unfinished row is
// held until Flush.
func (c *Console) Write(p []byte) (int, error) {
	c.copyCheck()
	return c.lines.Write(p)
}

// Flush appends any partial line held by Write.
func (c *Console) Flush() {
	c.copyCheck()
	c.lines.Flush()
}

// Clear removes all lines. The next Update blanks the screen.
func (c *Console) Clear() {
	c.copyCheck()
	c.lines.Clear()
}

// Update draws pending changes into a new frame and presents it.
func (c *Console) Update() error {
	c.copyCheck()
	return c.fb.Draw(func(f *framebuffer.Frame) {
		c.Paint(f.Image())
	})
}

// Redraw repaints every line into a new frame and presents it.
func (c *Console) Redraw() error {
	c.copyCheck()
	c.lines.MarkFull()
	return c.Update()
}

// Paint draws pending changes into dst and resets the pending state.
// dst must show what the previous Paint left there; Update arranges that
// through the framebuffer's linear buffer.
func (c *Console) Paint(dst *image.RGBA) compositor.Stats {
	c.copyCheck()
	c.last = c.comp.Paint(dst, c.lines, c.lines.TakeDirty())
	return c.last
}

// Dirty returns the changes the next Paint will draw.
func (c *Console) Dirty() linebuf.Dirty { return c.lines.Dirty() }

// Columns returns the wrap width in characters.
func (c *Console) Columns() int { return c.lines.MaxColumns() }

// Rows returns the number of visible lines.
func (c *Console) Rows() int { return c.lines.Cap() }

// Lines returns the visible lines, top first.
func (c *Console) Lines() []string { return c.lines.Lines() }

// Face returns the face text is drawn with.
func (c *Console) Face() glyph.Face { return c.face }

// Framebuffer returns the framebuffer the console draws into.
func (c *Console) Framebuffer() *framebuffer.Framebuffer { return c.fb }

// CacheStats returns glyph cache statistics.
func (c *Console) CacheStats() glyph.CacheStats { return c.glyphs.Stats() }

// LastPaint returns the statistics of the most recent Paint.
func (c *Console) LastPaint() compositor.Stats { return c.last }

// copyCheck panics if Console was copied by value.
func (c *Console) copyCheck() {
	if c.addr != c {
		panic("fbcon: Console must not be copied by value")
	}
}
