package fbcon

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/fbcon/framebuffer"
	"github.com/gogpu/fbcon/glyph"
	"github.com/gogpu/fbcon/linebuf"
)

func testFace(t testing.TB, size float64) glyph.Face {
	t.Helper()
	f, err := glyph.DefaultFont()
	if err != nil {
		t.Fatalf("DefaultFont() error = %v", err)
	}
	face, err := f.Face(size)
	if err != nil {
		t.Fatalf("Face(%g) error = %v", size, err)
	}
	return face
}

func newTestConsole(t testing.TB, w, h int, opts ...Option) *Console {
	t.Helper()
	fb, err := framebuffer.New(w, h, framebuffer.FormatRGBA8888, 2)
	if err != nil {
		t.Fatal(err)
	}
	c, err := New(fb, testFace(t, 20), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_Geometry(t *testing.T) {
	c := newTestConsole(t, 1280, 720)
	face := c.Face()

	wantCols := int(fixed.I(1280) / glyph.AverageAdvance(face))
	wantRows := 720 / face.Metrics().LinePitch()
	if c.Columns() != wantCols || c.Rows() != wantRows {
		t.Errorf("geometry = %dx%d, want %dx%d", c.Columns(), c.Rows(), wantCols, wantRows)
	}
	// Go Mono at 20 px is a 12 px cell with a pitch a little over a cell height.
	if c.Columns() < 90 || c.Columns() > 120 {
		t.Errorf("Columns() = %d, implausible for 20 px Go Mono", c.Columns())
	}
	if c.Rows() < 20 || c.Rows() > 40 {
		t.Errorf("Rows() = %d, implausible for 20 px Go Mono", c.Rows())
	}
	if !c.Framebuffer().Linear() {
		t.Error("New did not make the framebuffer linear")
	}
}

func TestNew_Errors(t *testing.T) {
	face := testFace(t, 20)

	rgb565, err := framebuffer.New(64, 64, framebuffer.FormatRGB565, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(rgb565, face); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("New(RGB565) error = %v, want ErrUnsupportedFormat", err)
	}

	tiny, err := framebuffer.New(8, 8, framebuffer.FormatRGBA8888, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(tiny, face); !errors.Is(err, ErrWindowTooSmall) {
		t.Errorf("New(8x8) error = %v, want ErrWindowTooSmall", err)
	}

	busy, err := framebuffer.New(64, 64, framebuffer.FormatRGBA8888, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := busy.Begin(); err != nil {
		t.Fatal(err)
	}
	_, err = New(busy, face)
	if !errors.Is(err, ErrNotLinear) || !errors.Is(err, framebuffer.ErrFrameInProgress) {
		t.Errorf("New during a frame error = %v, want ErrNotLinear wrapping ErrFrameInProgress", err)
	}

	fb, err := framebuffer.New(640, 480, framebuffer.FormatRGBA8888, 1)
	if err != nil {
		t.Fatal(err)
	}
	other := glyph.NewCache(testFace(t, 12))
	if _, err := New(fb, face, WithGlyphCache(other)); !errors.Is(err, ErrCacheFace) {
		t.Errorf("New with foreign cache error = %v, want ErrCacheFace", err)
	}
}

func TestNew_RGBX(t *testing.T) {
	fb, err := framebuffer.New(320, 240, framebuffer.FormatRGBX8888, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(fb, testFace(t, 16)); err != nil {
		t.Errorf("New(RGBX8888) error = %v", err)
	}
}

func TestScenario_ExactWidthDoesNotWrap(t *testing.T) {
	c := newTestConsole(t, 1280, 720)
	m := c.Columns()

	c.Append(strings.Repeat("x", m))
	if got := c.Lines(); len(got) != 1 || len(got[0]) != m {
		t.Fatalf("%d-char append gave lines %q, want one line", m, got)
	}
}

func TestScenario_OneOverWidthWraps(t *testing.T) {
	c := newTestConsole(t, 1280, 720)
	m := c.Columns()

	c.Append(strings.Repeat("y", m+1))
	got := c.Lines()
	if len(got) != 2 || len(got[0]) != m || got[1] != "y" {
		t.Fatalf("%d-char append gave %d lines, want %d chars then 1", m+1, len(got), m)
	}
}

func TestScenario_OverflowEvictsAndRedraws(t *testing.T) {
	c := newTestConsole(t, 1280, 720)
	n := c.Rows()

	if err := c.Update(); err != nil {
		t.Fatal(err)
	}

	parts := make([]string, n+1)
	for i := range parts {
		parts[i] = strconv.Itoa(i % 10)
	}
	c.Append(strings.Join(parts, "\n"))

	if got := c.Lines(); len(got) != n || got[0] != parts[1] {
		t.Fatalf("after %d lines: %d visible, first %q; want %d visible starting at %q",
			n+1, len(got), got[0], n, parts[1])
	}
	if _, ok := c.Dirty().(linebuf.FullRedraw); !ok {
		t.Fatalf("Dirty() = %#v, want FullRedraw", c.Dirty())
	}
	if err := c.Update(); err != nil {
		t.Fatal(err)
	}
	if st := c.LastPaint(); !st.Full || st.Slots != n {
		t.Errorf("LastPaint() = %+v, want full paint of %d slots", st, n)
	}
}

func TestScenario_EmptyMiddleLine(t *testing.T) {
	c := newTestConsole(t, 1280, 720)
	c.Append("a\n\nb")
	if got := c.Lines(); !slices.Equal(got, []string{"a", "", "b"}) {
		t.Errorf("Lines() = %q, want [a  b]", got)
	}
}

// inkRows reports which pixel rows of img contain any ink.
func inkRows(img *image.RGBA) []bool {
	rows := make([]bool, img.Rect.Dy())
	for y := range rows {
		off := img.PixOffset(0, y)
		for x := 0; x < img.Rect.Dx(); x++ {
			if img.Pix[off+x*4] != 0 {
				rows[y] = true
				break
			}
		}
	}
	return rows
}

func TestUpdate_PaintsIntoFirstSlot(t *testing.T) {
	c := newTestConsole(t, 320, 240)
	pitch := c.Face().Metrics().LinePitch()

	c.Append("Hello")
	if err := c.Update(); err != nil {
		t.Fatal(err)
	}

	rows := inkRows(c.Framebuffer().Snapshot())
	if !slices.Contains(rows[:pitch], true) {
		t.Error("no ink in the first line slot")
	}
	if slices.Contains(rows[pitch:], true) {
		t.Error("ink below the first line slot")
	}

	snap := c.Framebuffer().Snapshot()
	for y := 0; y < snap.Rect.Dy(); y++ {
		for x := 0; x < snap.Rect.Dx(); x++ {
			p := snap.RGBAAt(x, y)
			if p.R != 0 && (p.R != p.G || p.G != p.B || p.A != 0xff) {
				t.Fatalf("pixel (%d, %d) = %v, want grey on opaque", x, y, p)
			}
		}
	}
}

func TestUpdate_EarlierLinesSurviveDoubleBuffering(t *testing.T) {
	c := newTestConsole(t, 320, 240)
	pitch := c.Face().Metrics().LinePitch()

	c.Append("first")
	if err := c.Update(); err != nil {
		t.Fatal(err)
	}
	c.Append("second")
	if err := c.Update(); err != nil {
		t.Fatal(err)
	}
	if st := c.LastPaint(); st.Full || st.Slots != 1 {
		t.Errorf("LastPaint() = %+v, want one partial slot", st)
	}

	rows := inkRows(c.Framebuffer().Snapshot())
	if !slices.Contains(rows[:pitch], true) {
		t.Error("first line lost after the second frame")
	}
	if !slices.Contains(rows[pitch:2*pitch], true) {
		t.Error("second line not painted")
	}
}

func TestUpdate_CleanIsNoop(t *testing.T) {
	c := newTestConsole(t, 320, 240)
	c.Append("abc")
	if err := c.Update(); err != nil {
		t.Fatal(err)
	}
	before := c.CacheStats()

	if err := c.Update(); err != nil {
		t.Fatal(err)
	}
	after := c.CacheStats()
	if after.Hits+after.Misses != before.Hits+before.Misses {
		t.Errorf("clean update fetched %d glyphs", after.Hits+after.Misses-before.Hits-before.Misses)
	}
	if st := c.LastPaint(); st.Slots != 0 || st.Glyphs != 0 {
		t.Errorf("LastPaint() = %+v, want zero", st)
	}
}

func TestRedrawAndClear(t *testing.T) {
	c := newTestConsole(t, 320, 240)
	c.Append("one\ntwo")
	c.Update()

	if err := c.Redraw(); err != nil {
		t.Fatal(err)
	}
	if st := c.LastPaint(); !st.Full || st.Slots != 2 {
		t.Errorf("Redraw paint = %+v, want full with 2 slots", st)
	}

	c.Clear()
	if err := c.Update(); err != nil {
		t.Fatal(err)
	}
	if slices.Contains(inkRows(c.Framebuffer().Snapshot()), true) {
		t.Error("ink left after Clear")
	}
}

func TestWrite(t *testing.T) {
	c := newTestConsole(t, 640, 480)
	fmt.Fprintf(c, "count=%d\n", 3)
	fmt.Fprint(c, "partial")
	if got := c.Lines(); !slices.Equal(got, []string{"count=3"}) {
		t.Fatalf("Lines() = %q", got)
	}
	c.Flush()
	if got := c.Lines(); !slices.Equal(got, []string{"count=3", "partial"}) {
		t.Fatalf("Lines() after Flush = %q", got)
	}
}

func TestAppendAfterPartialWrite(t *testing.T) {
	c := newTestConsole(t, 640, 480)
	fmt.Fprint(c, "first ")
	c.Append("second")
	fmt.Fprint(c, "part\n")

	want := []string{"first ", "second", "part"}
	if got := c.Lines(); !slices.Equal(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestOptions(t *testing.T) {
	c := newTestConsole(t, 640, 480,
		WithCacheCapacity(5),
		WithTabWidth(4),
		WithNormalization(norm.NFC))

	if got := c.CacheStats().Capacity; got != 5 {
		t.Errorf("cache capacity = %d, want 5", got)
	}

	c.Append("\tx")
	c.Append("e\u0301")
	want := []string{"    x", "\u00e9"}
	if got := c.Lines(); !slices.Equal(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}

	c.Append("abcdefgh")
	c.Update()
	if st := c.CacheStats(); st.Len > 5 {
		t.Errorf("cache holds %d glyphs, capacity 5", st.Len)
	}
}

func TestWithGlyphCache(t *testing.T) {
	face := testFace(t, 20)
	shared := glyph.NewCache(face, glyph.WithCapacity(10))

	fb, err := framebuffer.New(320, 240, framebuffer.FormatRGBA8888, 1)
	if err != nil {
		t.Fatal(err)
	}
	c, err := New(fb, face, WithGlyphCache(shared))
	if err != nil {
		t.Fatal(err)
	}
	c.Append("zz")
	c.Update()
	if !shared.Contains('z') {
		t.Error("injected cache was not used")
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := newTestConsole(t, 320, 240, WithLogger(l))
	if !strings.Contains(buf.String(), "console created") ||
		!strings.Contains(buf.String(), "columns="+strconv.Itoa(c.Columns())) {
		t.Errorf("creation not logged: %s", buf.String())
	}

	c.Append("x")
	c.Update()
	if !strings.Contains(buf.String(), "compositor: paint") {
		t.Errorf("paint not logged at debug: %s", buf.String())
	}
}

func TestGeometry(t *testing.T) {
	face := testFace(t, 20)
	cols, rows := Geometry(0, 0, face)
	if cols != 0 || rows != 0 {
		t.Errorf("Geometry(0, 0) = %d, %d", cols, rows)
	}
	cols2, rows2 := Geometry(2560, 1440, face)
	cols1, rows1 := Geometry(1280, 720, face)
	if cols2 < 2*cols1 || rows2 < 2*rows1 {
		t.Errorf("doubling the area gave %dx%d from %dx%d", cols2, rows2, cols1, rows1)
	}
}

func TestCopyPanics(t *testing.T) {
	c := newTestConsole(t, 320, 240)
	defer func() {
		if recover() == nil {
			t.Error("using a copied Console did not panic")
		}
	}()
	dup := new(Console)
	*dup = *c
	dup.Append("x")
}

func BenchmarkConsoleUpdate(b *testing.B) {
	c := newTestConsole(b, 1280, 720)
	line := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 2)
	b.ReportAllocs()
	for b.Loop() {
		c.Append(line)
		if err := c.Update(); err != nil {
			b.Fatal(err)
		}
	}
}
