// Package linebuf holds the console's visible text: a fixed number of
// already-wrapped display lines in a sliding window, plus the set of line
// slots that changed since the last paint.
//
// Appended text is split on '\n' and each segment is wrapped every
// MaxColumns runes. When the window is full, each new line evicts the oldest
// one and the whole window must be repainted (FullRedraw); otherwise only the
// newly filled slots are dirty (PartialRedraw).
package linebuf
