// Package config loads the fbconsole configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/fbcon/framebuffer"
	"github.com/gogpu/fbcon/glyph"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds every setting of the command. Zero-valued fields in a file
// keep their defaults.
type Config struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Format      string  `yaml:"format"`
	FontSize    float64 `yaml:"font_size"`
	Font        string  `yaml:"font"` // path; empty selects Go Mono
	Backend     string  `yaml:"backend"`
	CacheSize   int     `yaml:"cache_capacity"`
	Buffering   int     `yaml:"buffering"`
	StrideAlign int     `yaml:"stride_align"`
	TabWidth    int     `yaml:"tab_width"`
	Normalize   bool    `yaml:"normalize"`
	LogLevel    string  `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:       1280,
		Height:      720,
		Format:      framebuffer.FormatRGBA8888.String(),
		FontSize:    20,
		Backend:     glyph.BackendXImage,
		CacheSize:   glyph.DefaultCacheCapacity,
		Buffering:   2,
		StrideAlign: framebuffer.DefaultStrideAlign,
		LogLevel:    "info",
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting and reports the first problem.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	case c.FontSize <= 0:
		return fmt.Errorf("%w: font_size %g", ErrInvalid, c.FontSize)
	case !slices.Contains(glyph.Backends(), c.Backend):
		return fmt.Errorf("%w: backend %q, have %v", ErrInvalid, c.Backend, glyph.Backends())
	case c.CacheSize < 1:
		return fmt.Errorf("%w: cache_capacity %d", ErrInvalid, c.CacheSize)
	case c.Buffering < 1 || c.Buffering > framebuffer.MaxBuffering:
		return fmt.Errorf("%w: buffering %d", ErrInvalid, c.Buffering)
	case c.StrideAlign < 1:
		return fmt.Errorf("%w: stride_align %d", ErrInvalid, c.StrideAlign)
	case c.TabWidth < 0:
		return fmt.Errorf("%w: tab_width %d", ErrInvalid, c.TabWidth)
	}

	f, err := framebuffer.ParsePixelFormat(c.Format)
	if err != nil || !f.IsRGBA() {
		return fmt.Errorf("%w: format %q", ErrInvalid, c.Format)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// PixelFormat returns the framebuffer format.
func (c Config) PixelFormat() framebuffer.PixelFormat {
	f, _ := framebuffer.ParsePixelFormat(c.Format)
	return f
}

// Level returns the log level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}
