package linebuf

import "strings"

// Split splits text into logical segments on '\n'. Empty segments are kept,
// so "a\n\nb" yields three segments and "" yields one.
func Split(text string) []string {
	return strings.Split(text, "\n")
}

// Wrap breaks segment into display lines of at most maxColumns runes.
// Breaks fall on rune boundaries only. An empty segment yields one empty
// line; a segment of n runes yields ceil(n/maxColumns) lines. maxColumns
// must be positive.
func Wrap(segment string, maxColumns int) []string {
	if segment == "" {
		return []string{""}
	}

	var lines []string
	start, cols := 0, 0
	for i := range segment {
		if cols == maxColumns {
			lines = append(lines, segment[start:i])
			start, cols = i, 0
		}
		cols++
	}
	return append(lines, segment[start:])
}

// expandTabs replaces each '\t' with spaces up to the next tab stop.
// Stops are counted from the start of the display row the tab lands on.
func expandTabs(segment string, tabWidth, maxColumns int) string {
	if !strings.ContainsRune(segment, '\t') {
		return segment
	}

	var sb strings.Builder
	sb.Grow(len(segment) + tabWidth)
	col := 0
	for _, r := range segment {
		if r != '\t' {
			sb.WriteRune(r)
			col++
			continue
		}
		n := tabWidth - (col%maxColumns)%tabWidth
		sb.WriteString(strings.Repeat(" ", n))
		col += n
	}
	return sb.String()
}
