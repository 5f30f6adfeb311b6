/*
Package outline decodes TrueType glyph data into closed contours of line and
quadratic curve segments.

Simple glyphs are decoded from their point and flag arrays. Composite glyphs
are resolved recursively into flat lists of transformed contours. Outlines may
be rotated about the origin.

Coordinates are in font design units.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package outline

import (
	"fmt"
	"math"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font/truetype"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.fonts")
}

func errGlyphData(gid truetype.GlyphIndex, x string) error {
	return core.Error(core.EINVALID, "glyph %d: %s", gid, x)
}

// Curve is a line segment from (X0,Y0) to (X1,Y1), or, if IsCurve is set,
// a quadratic Bézier curve between these points with control point (CX,CY).
type Curve struct {
	X0, Y0  float32
	X1, Y1  float32
	CX, CY  float32
	IsCurve bool
}

// Path is a closed contour.
type Path []Curve

// Bounds is a bounding box in font units.
type Bounds struct {
	MinX, MinY, MaxX, MaxY int16
}

// Empty is true for a zero bounding box.
func (b Bounds) Empty() bool {
	return b.MinX == 0 && b.MinY == 0 && b.MaxX == 0 && b.MaxY == 0
}

// Outline is the decoded outline of a glyph. Glyphs without outline data,
// e.g. the space glyph, have no contours and empty bounds.
type Outline struct {
	Glyph    truetype.GlyphIndex
	Bounds   Bounds
	Contours []Path
}

// Empty is true if the outline has no segments.
func (o *Outline) Empty() bool {
	for _, p := range o.Contours {
		if len(p) > 0 {
			return false
		}
	}
	return true
}

func (o *Outline) String() string {
	n := 0
	for _, p := range o.Contours {
		n += len(p)
	}
	return fmt.Sprintf("outline(glyph=%d, %d contours, %d segments, box=%v)",
		o.Glyph, len(o.Contours), n, o.Bounds)
}

// Extent returns the extent of all segments of the outline, including control
// points of curves. ok is false for an empty outline.
func (o *Outline) Extent() (minx, miny, maxx, maxy float32, ok bool) {
	first := true
	add := func(x, y float32) {
		if first {
			minx, maxx, miny, maxy = x, x, y, y
			first = false
			return
		}
		minx, maxx = min32(minx, x), max32(maxx, x)
		miny, maxy = min32(miny, y), max32(maxy, y)
	}
	for _, p := range o.Contours {
		for _, c := range p {
			add(c.X0, c.Y0)
			add(c.X1, c.Y1)
			if c.IsCurve {
				add(c.CX, c.CY)
			}
		}
	}
	return minx, miny, maxx, maxy, !first
}

// Transform returns a copy of the outline with every point mapped by
// x' = a*x + c*y + e, y' = b*x + d*y + f. Control points of lines are left
// untouched.
func (o *Outline) Transform(a, b, c, d, e, f float32) *Outline {
	t := &Outline{Glyph: o.Glyph, Contours: make([]Path, len(o.Contours))}
	m := func(x, y float32) (float32, float32) {
		return a*x + c*y + e, b*x + d*y + f
	}
	for i, p := range o.Contours {
		q := make(Path, len(p))
		for j, s := range p {
			q[j] = s
			q[j].X0, q[j].Y0 = m(s.X0, s.Y0)
			q[j].X1, q[j].Y1 = m(s.X1, s.Y1)
			if s.IsCurve {
				q[j].CX, q[j].CY = m(s.CX, s.CY)
			}
		}
		t.Contours[i] = q
	}
	t.Bounds = t.extentBounds()
	return t
}

// extentBounds rounds the extent outward to font units.
func (o *Outline) extentBounds() Bounds {
	minx, miny, maxx, maxy, ok := o.Extent()
	if !ok {
		return Bounds{}
	}
	return Bounds{
		MinX: int16(math.Floor(float64(minx))),
		MinY: int16(math.Floor(float64(miny))),
		MaxX: int16(math.Ceil(float64(maxx))),
		MaxY: int16(math.Ceil(float64(maxy))),
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
