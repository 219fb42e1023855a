package linebuf

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidGeometry is returned when the column or line count is not positive.
var ErrInvalidGeometry = errors.New("linebuf: columns and lines must be positive")

// Option configures a Buffer.
type Option func(*config)

type config struct {
	tabWidth int
	form     *norm.Form
}

// WithTabWidth expands '\t' to spaces up to the next multiple of n columns.
// Zero (the default) leaves tabs as ordinary characters.
func WithTabWidth(n int) Option {
	return func(c *config) {
		c.tabWidth = max(n, 0)
	}
}

// WithNormalization applies a Unicode normalization form to appended text
// before wrapping. With norm.NFC a base letter and its combining accent
// occupy one column.
func WithNormalization(form norm.Form) Option {
	return func(c *config) {
		c.form = &form
	}
}

// Buffer is a sliding window over wrapped display lines.
//
// Slot 0 is the oldest visible line. Buffer never holds more than Cap lines;
// once full, every new line evicts slot 0.
//
// Buffer is not safe for concurrent use.
type Buffer struct {
	lines      []string // ring storage, len == line count
	head       int      // ring index of slot 0
	n          int      // occupied slots
	maxColumns int

	full  bool  // a line was evicted since the last TakeDirty
	slots []int // newly filled slots since the last TakeDirty

	// Unfinished line from Write. row holds processed text of the current
	// display row, always shorter than maxColumns; raw holds bytes not yet
	// processed (a split UTF-8 sequence, or text after the last
	// normalization boundary).
	row      []byte
	rowCols  int
	raw      []byte
	wrapped  bool // the unfinished line already pushed a full row
	appended uint64
	evicted  uint64

	config config
}

// New creates a buffer of lineCount lines, each at most maxColumns runes.
func New(maxColumns, lineCount int, opts ...Option) (*Buffer, error) {
	if maxColumns <= 0 || lineCount <= 0 {
		return nil, fmt.Errorf("%w: %d columns, %d lines", ErrInvalidGeometry, maxColumns, lineCount)
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Buffer{
		lines:      make([]string, lineCount),
		maxColumns: maxColumns,
		slots:      make([]int, 0, lineCount),
		config:     cfg,
	}, nil
}

// Append splits text on '\n', wraps each segment and pushes the resulting
// lines. Every call starts on a new line, and an empty segment still takes
// one slot. A partial line left by Write is flushed first. text must be
// valid UTF-8.
func (b *Buffer) Append(text string) {
	b.Flush()
	if b.config.form != nil {
		text = b.config.form.String(text)
	}
	for _, seg := range Split(text) {
		if b.config.tabWidth > 0 {
			seg = expandTabs(seg, b.config.tabWidth, b.maxColumns)
		}
		for _, line := range Wrap(seg, b.maxColumns) {
			b.push(line)
		}
	}
}

// Write implements io.Writer. Text continues the line of the previous
// Write until a '\n'. Display rows are pushed as soon as they fill up, so
// at most one unfinished row is held until the next Write or Flush.
func (b *Buffer) Write(p []byte) (int, error) {
	n := len(p)
	for {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			b.raw = append(b.raw, p...)
			b.settle(false)
			return n, nil
		}
		b.raw = append(b.raw, p[:i]...)
		b.endLine()
		p = p[i+1:]
	}
}

// Flush ends the partial line held by Write, if any.
func (b *Buffer) Flush() {
	if len(b.row) == 0 && len(b.raw) == 0 {
		b.wrapped = false
		return
	}
	b.endLine()
}

// endLine processes all held bytes and pushes the last row of the line.
// Like Wrap, a line that ended exactly on a row boundary adds no empty row.
func (b *Buffer) endLine() {
	b.settle(true)
	if len(b.row) > 0 || !b.wrapped {
		b.push(string(b.row))
	}
	b.row = b.row[:0]
	b.rowCols = 0
	b.wrapped = false
}

// settle moves the processable prefix of raw into row, pushing each row
// that reaches maxColumns. Unless final, a trailing incomplete rune and,
// with normalization, the text after the last boundary stay in raw.
func (b *Buffer) settle(final bool) {
	cut := len(b.raw)
	if !final {
		cut = completeRunes(b.raw)
		if b.config.form != nil {
			cut = max(b.config.form.LastBoundary(b.raw[:cut]), 0)
		}
	}
	if cut == 0 {
		return
	}

	text := string(b.raw[:cut])
	b.raw = b.raw[:copy(b.raw, b.raw[cut:])]
	if b.config.form != nil {
		text = b.config.form.String(text)
	}

	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		if text[i] == '\t' && b.config.tabWidth > 0 {
			for range b.config.tabWidth - b.rowCols%b.config.tabWidth {
				b.addColumn(" ")
			}
		} else {
			b.addColumn(text[i : i+size])
		}
		i += size
	}
}

// addColumn appends one rune's bytes to the current row.
func (b *Buffer) addColumn(r string) {
	b.row = append(b.row, r...)
	b.rowCols++
	if b.rowCols == b.maxColumns {
		b.push(string(b.row))
		b.row = b.row[:0]
		b.rowCols = 0
		b.wrapped = true
	}
}

// completeRunes returns the length of the longest prefix of p that does not
// end inside a multi-byte UTF-8 sequence.
func completeRunes(p []byte) int {
	for i := len(p) - 1; i >= 0 && i >= len(p)-utf8.UTFMax; i-- {
		if utf8.RuneStart(p[i]) {
			if utf8.FullRune(p[i:]) {
				return len(p)
			}
			return i
		}
	}
	return len(p)
}

// push adds one display line at the tail.
func (b *Buffer) push(line string) {
	if debugAsserts && utf8.RuneCountInString(line) > b.maxColumns {
		panic(fmt.Sprintf("linebuf: line of %d runes exceeds %d columns",
			utf8.RuneCountInString(line), b.maxColumns))
	}

	if b.n == len(b.lines) {
		b.lines[b.head] = line
		b.head = (b.head + 1) % len(b.lines)
		b.evicted++
		b.full = true
		b.slots = b.slots[:0]
	} else {
		b.lines[(b.head+b.n)%len(b.lines)] = line
		if !b.full {
			b.slots = append(b.slots, b.n)
		}
		b.n++
	}
	b.appended++

	if debugAsserts && b.n > len(b.lines) {
		panic(fmt.Sprintf("linebuf: %d lines exceed capacity %d", b.n, len(b.lines)))
	}
}

// Dirty returns the pending repaint state without resetting it.
func (b *Buffer) Dirty() Dirty {
	if b.full {
		return FullRedraw{}
	}
	return PartialRedraw{Slots: slices.Clone(b.slots)}
}

// TakeDirty returns the pending repaint state and resets it to an empty
// PartialRedraw. Call it once per paint.
func (b *Buffer) TakeDirty() Dirty {
	d := b.Dirty()
	b.full = false
	b.slots = b.slots[:0]
	return d
}

// MarkFull forces the next paint to be a full redraw, e.g. after the
// surface contents were lost.
func (b *Buffer) MarkFull() {
	b.full = true
	b.slots = b.slots[:0]
}

// Line returns the line in slot i, where slot 0 is the oldest.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= b.n {
		panic(fmt.Sprintf("linebuf: slot %d out of range [0, %d)", i, b.n))
	}
	return b.lines[(b.head+i)%len(b.lines)]
}

// Lines returns a copy of all occupied slots, oldest first.
func (b *Buffer) Lines() []string {
	out := make([]string, b.n)
	for i := range out {
		out[i] = b.Line(i)
	}
	return out
}

// Len returns the number of occupied slots.
func (b *Buffer) Len() int { return b.n }

// Cap returns the number of slots.
func (b *Buffer) Cap() int { return len(b.lines) }

// MaxColumns returns the wrap width in runes.
func (b *Buffer) MaxColumns() int { return b.maxColumns }

// Appended returns the number of display lines pushed so far.
func (b *Buffer) Appended() uint64 { return b.appended }

// Evicted returns the number of display lines scrolled out so far.
func (b *Buffer) Evicted() uint64 { return b.evicted }

// Clear empties the window and schedules a full redraw.
func (b *Buffer) Clear() {
	clear(b.lines)
	b.head, b.n = 0, 0
	b.row, b.raw = b.row[:0], b.raw[:0]
	b.rowCols = 0
	b.wrapped = false
	b.MarkFull()
}
