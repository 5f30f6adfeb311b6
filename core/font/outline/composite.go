package outline

import (
	"fmt"

	"github.com/npillmayer/glyphatlas/core/font/truetype"
)

// Flags of composite glyph component records
const (
	ArgsAreWords          = 0x0001
	ArgsAreXYValues       = 0x0002
	WeHaveAScale          = 0x0008
	MoreComponents        = 0x0020
	WeHaveAnXAndYScale    = 0x0040
	WeHaveATwoByTwo       = 0x0080
	WeHaveInstructions    = 0x0100
	ScaledComponentOffset = 0x0800
)

// MaxCompositeDepth is the maximum nesting depth of composite glyphs.
const MaxCompositeDepth = 16

// GlyphSource provides the raw 'glyf' data of glyphs. A *truetype.Font is a
// GlyphSource.
type GlyphSource interface {
	GlyphBytes(truetype.GlyphIndex) ([]byte, error)
}

var _ GlyphSource = (*truetype.Font)(nil)

// Component is a reference from a composite glyph to another glyph, with an
// affine transformation x' = A*x + C*y + E, y' = B*x + D*y + F.
type Component struct {
	Glyph      truetype.GlyphIndex
	Flags      uint16
	A, B, C, D float32
	E, F       float32
}

func (c Component) String() string {
	return fmt.Sprintf("component(glyph=%d, [%g %g %g %g] + (%g,%g))",
		c.Glyph, c.A, c.B, c.C, c.D, c.E, c.F)
}

// DecodeComponents decodes the component records of a composite glyph.
// Instructions after the last component are skipped.
func DecodeComponents(gid truetype.GlyphIndex, data []byte) ([]Component, error) {
	r := &glyphReader{data: data, pos: glyphHeaderSize}
	var comps []Component
	for {
		flags := r.u16()
		c := Component{Glyph: truetype.GlyphIndex(r.u16()), Flags: flags, A: 1, D: 1}
		var arg1, arg2 int32
		switch {
		case flags&ArgsAreWords != 0 && flags&ArgsAreXYValues != 0:
			arg1, arg2 = int32(r.i16()), int32(r.i16())
		case flags&ArgsAreWords != 0:
			arg1, arg2 = int32(r.u16()), int32(r.u16())
		case flags&ArgsAreXYValues != 0:
			arg1, arg2 = int32(int8(r.u8())), int32(int8(r.u8()))
		default:
			arg1, arg2 = int32(r.u8()), int32(r.u8())
		}
		switch {
		case flags&WeHaveAScale != 0:
			c.A = r.f2dot14()
			c.D = c.A
		case flags&WeHaveAnXAndYScale != 0:
			c.A, c.D = r.f2dot14(), r.f2dot14()
		case flags&WeHaveATwoByTwo != 0:
			c.A, c.B, c.C, c.D = r.f2dot14(), r.f2dot14(), r.f2dot14(), r.f2dot14()
		}
		if flags&ArgsAreXYValues != 0 {
			e, f := float32(arg1), float32(arg2)
			if flags&ScaledComponentOffset != 0 {
				e, f = c.A*e+c.C*f, c.B*e+c.D*f
			}
			c.E, c.F = e, f
		} else {
			// point matching is not supported, components are placed at the origin
			tracer().Debugf("glyph %d: component %d uses point matching (%d,%d)", gid, c.Glyph, arg1, arg2)
		}
		if r.err {
			return nil, errGlyphData(gid, "composite glyph data truncated")
		}
		comps = append(comps, c)
		if flags&MoreComponents == 0 {
			if flags&WeHaveInstructions != 0 {
				n := int(r.u16())
				r.skip(n)
			}
			break
		}
	}
	return comps, nil
}

// --- Resolver --------------------------------------------------------------

// Resolver decodes glyph outlines from a glyph source and resolves composite
// glyphs into flat outlines. Resolved outlines are memoised per glyph.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	src    GlyphSource
	cache  map[truetype.GlyphIndex]*Outline
	onPath map[truetype.GlyphIndex]bool
}

// NewResolver creates a resolver for a glyph source.
func NewResolver(src GlyphSource) *Resolver {
	return &Resolver{
		src:    src,
		cache:  make(map[truetype.GlyphIndex]*Outline),
		onPath: make(map[truetype.GlyphIndex]bool),
	}
}

// Outline returns the flattened outline of glyph gid. Composite glyphs which
// reference themselves, directly or indirectly, or which nest deeper than
// MaxCompositeDepth, are reported as malformed input.
//
// The outline returned is shared; callers must not modify it.
func (r *Resolver) Outline(gid truetype.GlyphIndex) (*Outline, error) {
	return r.resolve(gid, 0)
}

func (r *Resolver) resolve(gid truetype.GlyphIndex, depth int) (*Outline, error) {
	if o, ok := r.cache[gid]; ok {
		return o, nil
	}
	if depth > MaxCompositeDepth {
		return nil, errGlyphData(gid, "composite glyphs nested too deeply")
	}
	if r.onPath[gid] {
		return nil, errGlyphData(gid, "composite glyph references itself")
	}
	data, err := r.src.GlyphBytes(gid)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		o := &Outline{Glyph: gid}
		r.cache[gid] = o
		return o, nil
	}
	ncont, bounds, err := decodeHeader(gid, data)
	if err != nil {
		return nil, err
	}
	if ncont >= 0 {
		o, err := DecodeSimple(gid, data)
		if err != nil {
			return nil, err
		}
		r.cache[gid] = o
		return o, nil
	}
	comps, err := DecodeComponents(gid, data)
	if err != nil {
		return nil, err
	}
	r.onPath[gid] = true
	defer delete(r.onPath, gid)
	o := &Outline{Glyph: gid, Bounds: bounds}
	for _, c := range comps {
		sub, err := r.resolve(c.Glyph, depth+1)
		if err != nil {
			return nil, err
		}
		if sub.Empty() {
			continue
		}
		t := sub.Transform(c.A, c.B, c.C, c.D, c.E, c.F)
		o.Contours = append(o.Contours, t.Contours...)
	}
	if o.Bounds.Empty() && !o.Empty() {
		o.Bounds = o.extentBounds()
	}
	tracer().Debugf("glyph %d is composite of %d components", gid, len(comps))
	r.cache[gid] = o
	return o, nil
}
