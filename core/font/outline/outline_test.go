package outline

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font/truetype"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

type tp struct {
	x, y int16
	on   bool
}

// simpleGlyph encodes contours as glyph data, using long coordinates only.
func simpleGlyph(contours ...[]tp) []byte {
	var b []byte
	put := func(v int16) { b = binary.BigEndian.AppendUint16(b, uint16(v)) }
	var all []tp
	var minx, miny, maxx, maxy int16
	for _, c := range contours {
		all = append(all, c...)
	}
	for i, p := range all {
		if i == 0 || p.x < minx {
			minx = p.x
		}
		if i == 0 || p.x > maxx {
			maxx = p.x
		}
		if i == 0 || p.y < miny {
			miny = p.y
		}
		if i == 0 || p.y > maxy {
			maxy = p.y
		}
	}
	put(int16(len(contours)))
	put(minx)
	put(miny)
	put(maxx)
	put(maxy)
	end := -1
	for _, c := range contours {
		end += len(c)
		put(int16(end))
	}
	put(0) // no instructions
	for _, p := range all {
		if p.on {
			b = append(b, flagOnCurve)
		} else {
			b = append(b, 0)
		}
	}
	var last int16
	for _, p := range all {
		put(p.x - last)
		last = p.x
	}
	last = 0
	for _, p := range all {
		put(p.y - last)
		last = p.y
	}
	return b
}

var square = []tp{{0, 0, true}, {10, 0, true}, {10, 10, true}, {0, 10, true}}

func TestDecodeSquare(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	o, err := DecodeSimple(1, simpleGlyph(square))
	require.NoError(t, err)
	assert.Equal(t, Bounds{0, 0, 10, 10}, o.Bounds)
	require.Len(t, o.Contours, 1)
	p := o.Contours[0]
	require.Len(t, p, 4)
	for i, c := range p {
		assert.False(t, c.IsCurve)
		next := p[(i+1)%len(p)]
		assert.Equal(t, c.X1, next.X0, "path should be connected")
		assert.Equal(t, c.Y1, next.Y0, "path should be connected")
	}
	assert.Equal(t, Curve{X0: 0, Y0: 10, X1: 0, Y1: 0}, p[3], "path should be closed")
}

func TestDecodeShortVectors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	data := []byte{
		0, 1, 0, 0, 0, 0, 0, 10, 0, 10, // header
		0, 3, // end point of contour
		0, 0, // instructions
		0x31, 0x33, 0x35, 0x23, // flags
		10, 10, // x
		10, // y
	}
	o, err := DecodeSimple(1, data)
	require.NoError(t, err)
	ref, err := DecodeSimple(1, simpleGlyph(square))
	require.NoError(t, err)
	assert.Equal(t, ref.Contours, o.Contours)
}

func TestDecodeRepeatedFlags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	data := []byte{
		0, 1, 0, 0, 0, 0, 0, 10, 0, 10,
		0, 3,
		0, 0,
		flagOnCurve | flagRepeat, 3,
		0, 0, 0, 10, 0, 0, 0xff, 0xf6, // x: 0 +10 0 -10
		0, 0, 0, 0, 0, 10, 0, 0, // y: 0 0 +10 0
	}
	o, err := DecodeSimple(1, data)
	require.NoError(t, err)
	ref, err := DecodeSimple(1, simpleGlyph(square))
	require.NoError(t, err)
	assert.Equal(t, ref.Contours, o.Contours)
}

func TestImpliedOnCurvePoints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	o, err := DecodeSimple(1, simpleGlyph([]tp{
		{0, 0, true}, {10, 0, false}, {10, 10, false}, {0, 10, true},
	}))
	require.NoError(t, err)
	p := o.Contours[0]
	require.Len(t, p, 3)
	assert.Equal(t, Curve{X0: 0, Y0: 0, X1: 10, Y1: 5, CX: 10, CY: 0, IsCurve: true}, p[0])
	assert.Equal(t, Curve{X0: 10, Y0: 5, X1: 0, Y1: 10, CX: 10, CY: 10, IsCurve: true}, p[1])
	assert.Equal(t, Curve{X0: 0, Y0: 10, X1: 0, Y1: 0}, p[2])
}

func TestContourStartingOffCurve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	o, err := DecodeSimple(1, simpleGlyph([]tp{
		{5, 0, false}, {10, 5, true}, {0, 5, true},
	}))
	require.NoError(t, err)
	p := o.Contours[0]
	require.Len(t, p, 2)
	assert.Equal(t, Curve{X0: 0, Y0: 5, X1: 10, Y1: 5, CX: 5, CY: 0, IsCurve: true}, p[0])
	assert.Equal(t, Curve{X0: 10, Y0: 5, X1: 0, Y1: 5}, p[1])
	//
	o, err = DecodeSimple(1, simpleGlyph([]tp{
		{0, 0, false}, {10, 0, false}, {10, 10, false}, {0, 10, false},
	}))
	require.NoError(t, err)
	p = o.Contours[0]
	require.Len(t, p, 4)
	assert.Equal(t, float32(0), p[0].X0)
	assert.Equal(t, float32(5), p[0].Y0)
	for _, c := range p {
		assert.True(t, c.IsCurve)
	}
}

func TestTruncatedGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	data := simpleGlyph(square)
	for _, n := range []int{5, 14, 18, len(data) - 1} {
		_, err := DecodeSimple(1, data[:n])
		assert.Error(t, err, "truncated at %d", n)
		assert.Equal(t, core.EINVALID, core.Code(err))
	}
}

// --- Composites ------------------------------------------------------------

type glyphMap map[truetype.GlyphIndex][]byte

func (m glyphMap) GlyphBytes(gid truetype.GlyphIndex) ([]byte, error) {
	return m[gid], nil
}

func composite(comps ...[]byte) []byte {
	b := []byte{0xff, 0xff, 0, 0, 0, 0, 0, 0, 0, 0}
	for i, c := range comps {
		if i < len(comps)-1 {
			c[1] |= MoreComponents
		}
		b = append(b, c...)
	}
	return b
}

func TestCompositeOffset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	src := glyphMap{
		1: simpleGlyph(square),
		2: composite(
			[]byte{0, ArgsAreXYValues, 0, 1, 20, 0xfb}, // glyph 1 at (20,-5)
			[]byte{0, ArgsAreXYValues | ArgsAreWords | WeHaveAScale, 0, 1, 0, 100, 0, 50, 0x20, 0},
		),
	}
	r := NewResolver(src)
	o, err := r.Outline(2)
	require.NoError(t, err)
	require.Len(t, o.Contours, 2)
	assert.Equal(t, Curve{X0: 20, Y0: -5, X1: 30, Y1: -5}, o.Contours[0][0])
	// scaled by 0.5, then moved to (100,50)
	assert.Equal(t, Curve{X0: 100, Y0: 50, X1: 105, Y1: 50}, o.Contours[1][0])
	again, err := r.Outline(2)
	require.NoError(t, err)
	assert.Same(t, o, again, "outlines should be memoised")
}

func TestCompositeTwoByTwo(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	src := glyphMap{
		1: simpleGlyph(square),
		// rotate by 90°: a=0, b=1, c=-1, d=0
		2: composite([]byte{0, ArgsAreXYValues | WeHaveATwoByTwo, 0, 1, 0, 0,
			0, 0, 0x40, 0, 0xc0, 0, 0, 0}),
	}
	o, err := NewResolver(src).Outline(2)
	require.NoError(t, err)
	c := o.Contours[0][0] // (0,0) → (10,0) becomes (0,0) → (0,10)
	assert.Equal(t, float32(0), c.X1)
	assert.Equal(t, float32(10), c.Y1)
	assert.Equal(t, Bounds{-10, 0, 0, 10}, o.Bounds)
}

func TestCompositeCycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	src := glyphMap{
		1: simpleGlyph(square),
		2: composite([]byte{0, ArgsAreXYValues, 0, 3, 0, 0}),
		3: composite([]byte{0, ArgsAreXYValues, 0, 1, 0, 0}, []byte{0, ArgsAreXYValues, 0, 2, 0, 0}),
		4: composite([]byte{0, ArgsAreXYValues, 0, 4, 0, 0}),
	}
	r := NewResolver(src)
	_, err := r.Outline(2)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = r.Outline(4)
	assert.Equal(t, core.EINVALID, core.Code(err))
	o, err := r.Outline(1)
	assert.NoError(t, err)
	assert.Len(t, o.Contours, 1)
}

func TestCompositeDepth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	src := glyphMap{1: simpleGlyph(square)}
	for g := 2; g < MaxCompositeDepth+4; g++ {
		src[truetype.GlyphIndex(g)] = composite([]byte{0, ArgsAreXYValues, 0, byte(g - 1), 1, 0})
	}
	o, err := NewResolver(src).Outline(MaxCompositeDepth)
	require.NoError(t, err)
	assert.Equal(t, float32(MaxCompositeDepth-1), o.Contours[0][0].X0)
	_, err = NewResolver(src).Outline(MaxCompositeDepth + 3)
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestResolveGoRegular(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelInfo) // suppress debug output for all glyphs
	//
	ttf, err := truetype.Parse(goregular.TTF)
	require.NoError(t, err)
	r := NewResolver(ttf)
	for g := 0; g < ttf.NumGlyphs(); g++ {
		_, err := r.Outline(truetype.GlyphIndex(g))
		require.NoError(t, err, "glyph %d", g)
	}
	o, err := r.Outline(ttf.GlyphIndex('O'))
	require.NoError(t, err)
	assert.Len(t, o.Contours, 2)
	_, _, _, _, ok := o.Extent()
	assert.True(t, ok)
	assert.False(t, o.Bounds.Empty())
	sp, err := r.Outline(ttf.GlyphIndex(' '))
	require.NoError(t, err)
	assert.True(t, sp.Empty())
}

// --- Rotation --------------------------------------------------------------

func TestCalculateAngle(t *testing.T) {
	const eps = 1e-5
	for _, c := range []struct {
		x, y  float32
		angle float64
	}{
		{0, 1, 0}, {1, 0, math.Pi / 2}, {0, -1, math.Pi}, {-1, 0, 3 * math.Pi / 2},
		{1, 1, math.Pi / 4}, {1, -1, 3 * math.Pi / 4}, {-1, -1, 5 * math.Pi / 4},
		{-1, 1, 7 * math.Pi / 4}, {0, 0, 0},
	} {
		assert.InDelta(t, c.angle, float64(CalculateAngle(c.x, c.y)), eps, "angle of (%g,%g)", c.x, c.y)
	}
	assert.InDelta(t, 3*math.Pi/2, float64(FixAngle(-math.Pi/2)), 1e-5)
	assert.InDelta(t, math.Pi/2, float64(FixAngle(5*math.Pi/2)), 1e-5)
	assert.Equal(t, float32(1), FixAngle(1))
}

func TestFixAngleExtremes(t *testing.T) {
	for _, angle := range []float32{1e12, -1e12, math.MaxFloat32, float32(math.Inf(1)),
		float32(math.Inf(-1)), float32(math.NaN()), -1e-9} {
		a := FixAngle(angle)
		assert.GreaterOrEqual(t, a, float32(0), "angle %g", angle)
		assert.Less(t, float64(a), 2*math.Pi, "angle %g", angle)
	}
	assert.Zero(t, FixAngle(float32(math.Inf(1))))
}

func TestRotate(t *testing.T) {
	const eps = 1e-4
	x, y := RotateByAngleZero(0, 1, math.Pi/2)
	assert.InDelta(t, 1, x, eps)
	assert.InDelta(t, 0, y, eps)
	x, y = RotateByAngleZero(3, 4, 0)
	assert.Equal(t, float32(3), x)
	assert.Equal(t, float32(4), y)
	x, y = RotateByAngle(1, 1, 1, 2, math.Pi)
	assert.InDelta(t, 1, x, eps)
	assert.InDelta(t, 0, y, eps)
	//
	o, err := DecodeSimple(1, simpleGlyph(square))
	require.NoError(t, err)
	r := o.Rotate(math.Pi / 2) // clockwise: (10,0) → (0,-10)
	minx, miny, maxx, maxy, _ := r.Extent()
	assert.InDelta(t, 0, minx, eps)
	assert.InDelta(t, -10, miny, eps)
	assert.InDelta(t, 10, maxx, eps)
	assert.InDelta(t, 0, maxy, eps)
	assert.InDelta(t, 0, r.Contours[0][0].X1, eps)
	assert.InDelta(t, -10, r.Contours[0][0].Y1, eps)
	assert.Same(t, o, o.Rotate(0))
}
