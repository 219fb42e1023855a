// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compositor paints console lines into an RGBA pixel surface.
//
// Slot i of the line window occupies the pixel rows starting at
// i*LinePitch. Glyphs are drawn white on black: each covered pixel is
// written as R=G=B=coverage, A=255, and pixels with zero coverage are left
// untouched. Only the visible width of each row is written; stride padding
// is never modified.
package compositor
