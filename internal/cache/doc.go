// Package cache provides a generic, fixed-capacity LRU used by the glyph cache.
//
// # LRU[K, V]
//
// LRU keeps at most Cap entries. A Get hit marks the entry most recently used;
// a Put of a new key at capacity evicts the least recently used entry first
// and reports it to the caller.
//
//	c := cache.NewLRU[rune, []byte](64)
//	c.Put('a', mask)
//	mask, ok := c.Get('a')
//
// # Thread Safety
//
// LRU is not safe for concurrent use. It is owned by exactly one console and
// driven from a single goroutine.
package cache
