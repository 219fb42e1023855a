// Package glyph rasterizes characters into coverage bitmaps for the console.
//
// Three types make up the pipeline:
//
//   - Font: heavyweight parsed font data, created once with ParseFont
//   - Face: a Font at a fixed pixel size; rasterizes one rune at a time
//   - Cache: bounded LRU of rasterized bitmaps keyed by (font, size, rune)
//
// # Example usage
//
//	f, err := glyph.DefaultFont()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	face, err := f.Face(20)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache := glyph.NewCache(face, glyph.WithCapacity(64))
//	bm := cache.GetOrRasterize('A')
//
// # Pluggable Backends
//
// Two backends are registered:
//
//   - "ximage" (default): golang.org/x/image/font/opentype
//   - "gotext": github.com/go-text/typesetting outlines filled with
//     golang.org/x/image/vector
//
// Custom backends can be added with RegisterBackend and selected with
// WithBackend.
package glyph
