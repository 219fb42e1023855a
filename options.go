package fbcon

import (
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/fbcon/glyph"
)

// Option configures a Console during creation.
//
// Example:
//
//	con, err := fbcon.New(fb, face,
//	    fbcon.WithCacheCapacity(256),
//	    fbcon.WithTabWidth(8),
//	)
type Option func(*options)

// options holds optional configuration for Console creation.
type options struct {
	cacheCapacity int
	tabWidth      int
	form          *norm.Form
	glyphs        *glyph.Cache
	logger        *slog.Logger
}

// defaultOptions returns the default console options.
func defaultOptions() options {
	return options{
		cacheCapacity: glyph.DefaultCacheCapacity,
	}
}

// WithCacheCapacity sets how many rasterized glyphs are kept.
// Values below 1 select the default of 64.
func WithCacheCapacity(n int) Option {
	return func(o *options) {
		o.cacheCapacity = n
	}
}

// WithTabWidth expands tabs to the next multiple of n columns.
// Zero (the default) draws tabs as ordinary characters.
func WithTabWidth(n int) Option {
	return func(o *options) {
		o.tabWidth = n
	}
}

// WithNormalization normalizes appended text before wrapping.
// With norm.NFC, a letter and its combining accents take one column.
func WithNormalization(form norm.Form) Option {
	return func(o *options) {
		o.form = &form
	}
}

// WithGlyphCache makes the console use an existing cache instead of
// creating one. The cache must be built for the console's face;
// WithCacheCapacity is then ignored.
func WithGlyphCache(c *glyph.Cache) Option {
	return func(o *options) {
		o.glyphs = c
	}
}

// WithLogger sets the console's logger. The default is Logger() at the
// time New is called.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
