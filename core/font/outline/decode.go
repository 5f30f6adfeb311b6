package outline

import (
	"fmt"

	"github.com/npillmayer/glyphatlas/core/font/truetype"
)

// Flags of simple glyph points
const (
	flagOnCurve      = 0x01
	flagXShort       = 0x02
	flagYShort       = 0x04
	flagRepeat       = 0x08
	flagXSameOrPlus  = 0x10
	flagYSameOrPlus  = 0x20
	glyphHeaderSize  = 10
	simpleFlagsMask  = 0x3f
	maxPointsInGlyph = 0xffff
)

// glyphReader reads big-endian values from a glyph data segment and remembers
// the first out-of-bounds access.
type glyphReader struct {
	data []byte
	pos  int
	err  bool
}

func (r *glyphReader) u8() uint8 {
	if r.pos+1 > len(r.data) {
		r.err = true
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *glyphReader) u16() uint16 {
	if r.pos+2 > len(r.data) {
		r.err = true
		return 0
	}
	v := uint16(r.data[r.pos])<<8 | uint16(r.data[r.pos+1])
	r.pos += 2
	return v
}

func (r *glyphReader) i16() int16 {
	return int16(r.u16())
}

func (r *glyphReader) skip(n int) {
	if r.pos+n > len(r.data) {
		r.err = true
		return
	}
	r.pos += n
}

// f2dot14 reads a signed 2.14 fixed number.
func (r *glyphReader) f2dot14() float32 {
	v := r.i16()
	return float32(v>>14) + float32(v&0x3fff)/16384
}

// decodeHeader reads the number of contours and the bounding box of a glyph.
// A negative number of contours denotes a composite glyph.
func decodeHeader(gid truetype.GlyphIndex, data []byte) (int16, Bounds, error) {
	if len(data) < glyphHeaderSize {
		return 0, Bounds{}, errGlyphData(gid, "glyph header truncated")
	}
	r := &glyphReader{data: data}
	n := r.i16()
	b := Bounds{MinX: r.i16(), MinY: r.i16(), MaxX: r.i16(), MaxY: r.i16()}
	return n, b, nil
}

type point struct {
	x, y float32
	on   bool
}

func mid(a, b point) point {
	return point{x: (a.x + b.x) / 2, y: (a.y + b.y) / 2, on: true}
}

// DecodeSimple decodes the data of a simple (non-composite) glyph. Instructions
// are skipped. Empty data results in an empty outline.
func DecodeSimple(gid truetype.GlyphIndex, data []byte) (*Outline, error) {
	o := &Outline{Glyph: gid}
	if len(data) == 0 {
		return o, nil
	}
	ncont, bounds, err := decodeHeader(gid, data)
	if err != nil {
		return nil, err
	}
	if ncont < 0 {
		return nil, errGlyphData(gid, "composite glyph decoded as simple glyph")
	}
	o.Bounds = bounds
	if ncont == 0 {
		return o, nil
	}
	r := &glyphReader{data: data, pos: glyphHeaderSize}
	endPts := make([]int, ncont)
	for i := range endPts {
		endPts[i] = int(r.u16())
		if i > 0 && endPts[i] <= endPts[i-1] {
			return nil, errGlyphData(gid, "contour end points not increasing")
		}
	}
	instrLen := int(r.u16())
	r.skip(instrLen)
	if r.err {
		return nil, errGlyphData(gid, "glyph data truncated in contour header")
	}
	npts := endPts[ncont-1] + 1
	if npts > maxPointsInGlyph {
		return nil, errGlyphData(gid, "too many points")
	}
	flags := make([]uint8, 0, npts)
	for len(flags) < npts {
		f := r.u8()
		flags = append(flags, f&simpleFlagsMask)
		if f&flagRepeat != 0 {
			cnt := int(r.u8())
			for ; cnt > 0 && len(flags) < npts; cnt-- {
				flags = append(flags, f&simpleFlagsMask)
			}
		}
		if r.err {
			return nil, errGlyphData(gid, "glyph data truncated in flags")
		}
	}
	pts := make([]point, npts)
	var v int32
	for i, f := range flags {
		v += coordDelta(r, f, flagXShort, flagXSameOrPlus)
		pts[i].x = float32(v)
		pts[i].on = f&flagOnCurve != 0
	}
	v = 0
	for i, f := range flags {
		v += coordDelta(r, f, flagYShort, flagYSameOrPlus)
		pts[i].y = float32(v)
	}
	if r.err {
		return nil, errGlyphData(gid, "glyph data truncated in coordinates")
	}
	start := 0
	for _, end := range endPts {
		o.Contours = append(o.Contours, contourPath(pts[start:end+1]))
		start = end + 1
	}
	tracer().Debugf("decoded %s", o)
	return o, nil
}

// coordDelta reads one coordinate delta. A short vector is an unsigned byte
// whose sign is given by the same-or-positive bit. Without the short bit, the
// same-or-positive bit denotes a repeated coordinate.
func coordDelta(r *glyphReader, f uint8, short, same uint8) int32 {
	if f&short != 0 {
		d := int32(r.u8())
		if f&same == 0 {
			d = -d
		}
		return d
	}
	if f&same != 0 {
		return 0
	}
	return int32(r.i16())
}

// contourPath converts the points of one contour into a closed path.
// Two consecutive off-curve points imply an on-curve point in the middle
// between them. If the contour begins with an off-curve point, the path
// starts at the last point (if on-curve) or at the implied midpoint.
func contourPath(pts []point) Path {
	n := len(pts)
	if n == 0 {
		return Path{}
	}
	var start point
	seq := pts
	switch {
	case pts[0].on:
		start, seq = pts[0], pts[1:]
	case pts[n-1].on:
		start, seq = pts[n-1], pts[:n-1]
	default:
		start = mid(pts[n-1], pts[0])
	}
	path := make(Path, 0, n)
	line := func(a, b point) {
		if a.x != b.x || a.y != b.y {
			path = append(path, Curve{X0: a.x, Y0: a.y, X1: b.x, Y1: b.y})
		}
	}
	curve := func(a, b, c point) {
		path = append(path, Curve{X0: a.x, Y0: a.y, X1: b.x, Y1: b.y, CX: c.x, CY: c.y, IsCurve: true})
	}
	cur, ctrl, pending := start, point{}, false
	for _, p := range seq {
		if p.on {
			if pending {
				curve(cur, p, ctrl)
			} else {
				line(cur, p)
			}
			cur, pending = p, false
			continue
		}
		if pending {
			m := mid(ctrl, p)
			curve(cur, m, ctrl)
			cur = m
		}
		ctrl, pending = p, true
	}
	if pending {
		curve(cur, start, ctrl)
	} else {
		line(cur, start)
	}
	return path
}

func (p point) String() string {
	if p.on {
		return fmt.Sprintf("(%g,%g)", p.x, p.y)
	}
	return fmt.Sprintf("[%g,%g]", p.x, p.y)
}
