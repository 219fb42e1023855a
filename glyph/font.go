package glyph

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/image/font/gofont/gomono"
)

// Font is a parsed font file. One Font creates faces at any size.
type Font interface {
	// ID returns the process-unique identifier used in glyph keys.
	ID() uint64

	// Name returns the font family name.
	Name() string

	// Backend returns the name of the backend that parsed the font.
	Backend() string

	// Face returns the font at size pixels per em.
	Face(size float64) (Face, error)
}

// Backend parses font data (TTF or OTF) into a Font.
type Backend interface {
	Parse(data []byte) (Font, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(data []byte) (Font, error)

// Parse implements Backend.
func (fn BackendFunc) Parse(data []byte) (Font, error) {
	return fn(data)
}

// Names of the built-in backends.
const (
	BackendXImage = "ximage"
	BackendGoText = "gotext"
)

var (
	backendsMu sync.RWMutex
	backends   = map[string]Backend{
		BackendXImage: BackendFunc(parseXImage),
		BackendGoText: BackendFunc(parseGoText),
	}
)

// RegisterBackend registers a font backend under name, replacing any
// existing backend with that name.
func RegisterBackend(name string, b Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = b
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupBackend(name string) (Backend, error) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return b, nil
}

// FontOption configures ParseFont.
type FontOption func(*fontConfig)

type fontConfig struct {
	backend string
}

func defaultFontConfig() fontConfig {
	return fontConfig{backend: BackendXImage}
}

// WithBackend selects the font backend by name. The default is "ximage".
func WithBackend(name string) FontOption {
	return func(c *fontConfig) {
		c.backend = name
	}
}

// ParseFont parses font data with the configured backend.
// The data slice must not be modified afterwards.
func ParseFont(data []byte, opts ...FontOption) (Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	config := defaultFontConfig()
	for _, opt := range opts {
		opt(&config)
	}

	b, err := lookupBackend(config.backend)
	if err != nil {
		return nil, err
	}
	return b.Parse(data)
}

// ParseFontFile reads and parses the font file at path.
func ParseFontFile(path string, opts ...FontOption) (Font, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("glyph: failed to read font file: %w", err)
	}
	return ParseFont(data, opts...)
}

// DefaultFont parses the bundled Go Mono font.
func DefaultFont(opts ...FontOption) (Font, error) {
	return ParseFont(gomono.TTF, opts...)
}
