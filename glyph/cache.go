package glyph

import (
	"log/slog"

	"github.com/gogpu/fbcon/internal/cache"
)

// DefaultCacheCapacity is the glyph cache size used when none is configured.
const DefaultCacheCapacity = 64

// CacheOption configures a Cache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	capacity int
	logger   *slog.Logger
}

func defaultCacheConfig() cacheConfig {
	return cacheConfig{capacity: DefaultCacheCapacity}
}

// WithCapacity sets the maximum number of resident glyphs.
// Values below 1 select DefaultCacheCapacity.
func WithCapacity(n int) CacheOption {
	return func(c *cacheConfig) {
		c.capacity = n
	}
}

// WithCacheLogger sets the logger used for eviction diagnostics.
func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(c *cacheConfig) {
		c.logger = l
	}
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Insertions uint64
	Len        int
	Capacity   int
}

// Cache is a bounded LRU cache of rasterized glyphs for a single face.
//
// A resident glyph is never rasterized again; on a miss the face is asked
// once and the result is inserted, evicting the least recently used glyph
// when the cache is full.
//
// Cache is not safe for concurrent use.
type Cache struct {
	face    Face
	entries *cache.LRU[Key, *Bitmap]
	logger  *slog.Logger
	stats   CacheStats
}

// NewCache creates a glyph cache in front of face.
func NewCache(face Face, opts ...CacheOption) *Cache {
	config := defaultCacheConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.capacity < 1 {
		config.capacity = DefaultCacheCapacity
	}
	if config.logger == nil {
		config.logger = newNopLogger()
	}

	return &Cache{
		face:    face,
		entries: cache.NewLRU[Key, *Bitmap](config.capacity),
		logger:  config.logger,
	}
}

// Face returns the face glyphs are rasterized with.
func (c *Cache) Face() Face {
	return c.face
}

// GetOrRasterize returns the bitmap for r, rasterizing it on a miss.
// The returned bitmap is borrowed: it stays valid after eviction but must
// not be modified.
func (c *Cache) GetOrRasterize(r rune) *Bitmap {
	key := KeyOf(c.face, r)
	if bm, ok := c.entries.Get(key); ok {
		c.stats.Hits++
		return bm
	}

	c.stats.Misses++
	bm := c.face.Rasterize(r)
	if evicted, _, ok := c.entries.Put(key, bm); ok {
		c.stats.Evictions++
		c.logger.Debug("glyph cache eviction",
			slog.String("rune", string(evicted.Rune)),
			slog.Int("capacity", c.entries.Cap()))
	}
	c.stats.Insertions++
	return bm
}

// Contains reports whether r is resident, without touching its recency.
func (c *Cache) Contains(r rune) bool {
	_, ok := c.entries.Peek(KeyOf(c.face, r))
	return ok
}

// Len returns the number of resident glyphs.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Capacity returns the maximum number of resident glyphs.
func (c *Cache) Capacity() int {
	return c.entries.Cap()
}

// Clear drops every resident glyph. Statistics are kept.
func (c *Cache) Clear() {
	c.entries.Clear()
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	s := c.stats
	s.Len = c.entries.Len()
	s.Capacity = c.entries.Cap()
	return s
}

// HitRate returns the cache hit rate as a percentage.
// Returns 0 if there are no accesses.
func (c *Cache) HitRate() float64 {
	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total) * 100
}

// ResetStats resets the hit, miss, eviction and insertion counters.
func (c *Cache) ResetStats() {
	c.stats = CacheStats{}
}
