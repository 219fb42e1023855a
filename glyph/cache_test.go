package glyph

import (
	"image"
	"testing"

	"golang.org/x/image/math/fixed"
)

// countingFace draws a solid box per rune and counts rasterizations.
type countingFace struct {
	id    uint64
	calls map[rune]int
}

func newCountingFace() *countingFace {
	return &countingFace{id: nextFontID(), calls: make(map[rune]int)}
}

func (f *countingFace) ID() uint64                 { return f.id }
func (f *countingFace) Name() string               { return "counting" }
func (f *countingFace) Size() float64              { return 10 }
func (f *countingFace) Advance(rune) fixed.Int26_6 { return fixed.I(6) }

func (f *countingFace) Metrics() Metrics {
	return Metrics{Ascent: fixed.I(8), Descent: fixed.I(2)}
}

func (f *countingFace) Rasterize(r rune) *Bitmap {
	f.calls[r]++
	mask := image.NewAlpha(image.Rect(0, -8, 5, 0))
	for i := range mask.Pix {
		mask.Pix[i] = uint8(r)
	}
	return &Bitmap{Mask: mask, Advance: fixed.I(6)}
}

func TestNewCache_Capacity(t *testing.T) {
	face := newCountingFace()
	if got := NewCache(face).Capacity(); got != DefaultCacheCapacity {
		t.Errorf("default Capacity() = %d, want %d", got, DefaultCacheCapacity)
	}
	if got := NewCache(face, WithCapacity(0)).Capacity(); got != DefaultCacheCapacity {
		t.Errorf("Capacity() with 0 = %d, want %d", got, DefaultCacheCapacity)
	}
	if got := NewCache(face, WithCapacity(8)).Capacity(); got != 8 {
		t.Errorf("Capacity() = %d, want 8", got)
	}
}

func TestCache_HitDoesNotRasterize(t *testing.T) {
	face := newCountingFace()
	c := NewCache(face, WithCapacity(4))

	first := c.GetOrRasterize('a')
	for i := 0; i < 10; i++ {
		if got := c.GetOrRasterize('a'); got != first {
			t.Fatal("hit should return the resident bitmap")
		}
	}

	if face.calls['a'] != 1 {
		t.Errorf("'a' rasterized %d times, want 1", face.calls['a'])
	}
	s := c.Stats()
	if s.Hits != 10 || s.Misses != 1 || s.Insertions != 1 {
		t.Errorf("Stats() = %+v, want 10 hits, 1 miss, 1 insertion", s)
	}
	if rate := c.HitRate(); rate < 90 || rate > 91 {
		t.Errorf("HitRate() = %v, want ~90.9", rate)
	}
}

func TestCache_Bound(t *testing.T) {
	face := newCountingFace()
	c := NewCache(face, WithCapacity(4))

	for r := 'a'; r < 'a'+20; r++ {
		c.GetOrRasterize(r)
		if c.Len() > c.Capacity() {
			t.Fatalf("Len() = %d exceeds capacity %d", c.Len(), c.Capacity())
		}
	}

	s := c.Stats()
	if s.Len != 4 || s.Evictions != 16 {
		t.Errorf("Stats() = %+v, want Len 4 and 16 evictions", s)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	face := newCountingFace()
	c := NewCache(face, WithCapacity(3))

	c.GetOrRasterize('k')
	for r := 'a'; r <= 'j'; r++ {
		// Revisit 'k' so it stays the most recently used.
		c.GetOrRasterize('k')
		c.GetOrRasterize(r)
	}

	if !c.Contains('k') {
		t.Error("'k' was kept alive and must still be resident")
	}
	if face.calls['k'] != 1 {
		t.Errorf("'k' rasterized %d times, want 1", face.calls['k'])
	}
	for _, r := range "j" {
		if !c.Contains(r) {
			t.Errorf("%q should be resident", r)
		}
	}
	for _, r := range "abcdefgh" {
		if c.Contains(r) {
			t.Errorf("%q should have been evicted", r)
		}
	}

	// 'i' is now least recently used: the next miss evicts it.
	c.GetOrRasterize('z')
	if c.Contains('i') {
		t.Error("'i' should be evicted before 'k' and 'j'")
	}
	if !c.Contains('k') || !c.Contains('j') {
		t.Error("'k' and 'j' should survive")
	}
}

func TestCache_MatchesDirectRasterization(t *testing.T) {
	for _, backend := range allBackends {
		t.Run(backend, func(t *testing.T) {
			face := testFace(t, backend, 16)
			c := NewCache(face, WithCapacity(5))

			// More distinct runes than capacity, revisited out of order.
			text := "the quick brown fox jumps over the lazy dog THE QUICK"
			for pass := 0; pass < 2; pass++ {
				for _, r := range text {
					got := c.GetOrRasterize(r)
					want := face.Rasterize(r)
					if !got.Equal(want) {
						t.Fatalf("cached %q differs from direct rasterization", r)
					}
				}
			}
		})
	}
}

func TestCache_ClearAndResetStats(t *testing.T) {
	face := newCountingFace()
	c := NewCache(face, WithCapacity(4))
	c.GetOrRasterize('a')
	c.GetOrRasterize('a')

	c.Clear()
	if c.Len() != 0 || c.Contains('a') {
		t.Error("Clear should drop all glyphs")
	}

	c.GetOrRasterize('a')
	if face.calls['a'] != 2 {
		t.Errorf("'a' rasterized %d times after Clear, want 2", face.calls['a'])
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 || s.Len != 1 {
		t.Errorf("Stats() after ResetStats = %+v", s)
	}
	if c.HitRate() != 0 {
		t.Errorf("HitRate() = %v after reset, want 0", c.HitRate())
	}
}

func BenchmarkCacheHit(b *testing.B) {
	c := NewCache(testFace(b, BackendXImage, 20))
	c.GetOrRasterize('a')

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.GetOrRasterize('a')
	}
}

func BenchmarkRasterize(b *testing.B) {
	for _, backend := range allBackends {
		b.Run(backend, func(b *testing.B) {
			face := testFace(b, backend, 20)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				face.Rasterize('g')
			}
		})
	}
}
