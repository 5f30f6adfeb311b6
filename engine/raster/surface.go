/*
Package raster draws glyph outlines onto a supersampled pixel grid and
classifies the pixels of the grid as boundary, inner or outer pixels.

Lines and quadratic curves are marked as boundary ("line") pixels. Curves are
approximated by chords. Afterwards a filler grows outer (background) and inner
(glyph interior) regions from the boundary until no more pixels change their
classification. Anti-aliasing results from averaging supersampled pixels,
which is done by package atlas.

Drawing never fails for segments outside of the surface: those segments are
skipped.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package raster

import (
	"fmt"
	"strings"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.raster'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.raster")
}

// PixelState is the drawing state of a single supersampled pixel.
//
// Line counts the distinct path segments crossing the pixel, saturated at 2.
// PathIndex is the index of the path segment which marked the pixel first.
// The completion flags are progress markers of the filler.
type PixelState struct {
	Line          uint8
	PathIndex     int
	Inner         bool
	Outer         bool
	CompletedX    bool
	CompletedY    bool
	LineCompleted bool
}

// Marked is true for pixels which contribute to a glyph's coverage.
func (p PixelState) Marked() bool {
	return p.Line > 0 || p.Inner
}

// Surface is a grid of pixel states, stored row by row.
// It tracks the bounding box of all line pixels.
type Surface struct {
	Width, Height      int
	pixels             []PixelState
	hasLines           bool
	LineMinX, LineMaxX int
	LineMinY, LineMaxY int
}

// MaxSurfacePixels is the upper limit for the number of pixels of a surface.
const MaxSurfacePixels = 1 << 26

// NewSurface allocates a surface of w × h pixels. Negative or excessive
// dimensions are reported as allocation failures.
func NewSurface(w, h int) (*Surface, error) {
	if w < 0 || h < 0 || (w > 0 && h > MaxSurfacePixels/w) {
		return nil, core.Error(core.EALLOC, "cannot allocate drawing surface of %d × %d", w, h)
	}
	return &Surface{Width: w, Height: h, pixels: make([]PixelState, w*h)}, nil
}

// In is true if (x,y) is a pixel position of the surface.
func (s *Surface) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.Width && y < s.Height
}

// At returns the pixel at (x,y). It panics for positions outside the surface.
func (s *Surface) At(x, y int) *PixelState {
	if !s.In(x, y) {
		panic(fmt.Sprintf("pixel (%d,%d) outside of surface %d × %d", x, y, s.Width, s.Height))
	}
	return &s.pixels[y*s.Width+x]
}

// HasLines is true if at least one line pixel has been drawn.
func (s *Surface) HasLines() bool {
	return s.hasLines
}

// Count returns the number of pixels satisfying a predicate.
func (s *Surface) Count(pred func(PixelState) bool) int {
	n := 0
	for _, p := range s.pixels {
		if pred(p) {
			n++
		}
	}
	return n
}

// String renders the surface as text, top row last: '#' for line pixels,
// 'X' for crossings, '+' for inner pixels, '.' for outer pixels.
func (s *Surface) String() string {
	var b strings.Builder
	for y := s.Height - 1; y >= 0; y-- {
		for x := 0; x < s.Width; x++ {
			p := s.pixels[y*s.Width+x]
			switch {
			case p.Line > 1:
				b.WriteByte('X')
			case p.Line > 0:
				b.WriteByte('#')
			case p.Inner:
				b.WriteByte('+')
			case p.Outer:
				b.WriteByte('.')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
