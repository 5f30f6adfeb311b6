package atlas

import (
	"math/rand"
	"testing"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/engine/raster"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxes(n, w, h int) []*GlyphBox {
	bb := make([]*GlyphBox, n)
	for i := range bb {
		bb[i] = &GlyphBox{Width: w, Height: h, X: -1, Y: -1, HasData: true}
	}
	return bb
}

func positions(bb []*GlyphBox) [][2]int {
	pos := make([][2]int, len(bb))
	for i, b := range bb {
		pos[i] = [2]int{b.X, b.Y}
	}
	return pos
}

func overlap(a, b *GlyphBox) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width && a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

func assertPacked(t *testing.T, bb []*GlyphBox, p Packing) {
	for i, a := range bb {
		require.True(t, a.Placed(), "box #%d not placed", i)
		assert.LessOrEqual(t, a.X+a.Width, p.Width, "box #%d exceeds atlas width", i)
		assert.LessOrEqual(t, a.Y+a.Height, p.Height, "box #%d exceeds atlas height", i)
		for j := i + 1; j < len(bb); j++ {
			assert.False(t, overlap(a, bb[j]), "%v overlaps %v", a, bb[j])
		}
	}
}

func TestPackNothing(t *testing.T) {
	p := Pack(nil)
	assert.Equal(t, 0, p.Width)
	assert.Equal(t, 0, p.Height)
	assert.Zero(t, p.Utilisation())
}

func TestPackSingle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.atlas")
	defer teardown()
	//
	for _, c := range []struct{ size, atlas int }{
		{1, 2}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {6, 8}, {9, 16},
	} {
		bb := boxes(1, c.size, c.size)
		p := Pack(bb)
		assert.Equal(t, c.atlas, p.Width, "atlas for %d × %d", c.size, c.size)
		assert.Equal(t, c.atlas, p.Height, "atlas for %d × %d", c.size, c.size)
		assert.Equal(t, [2]int{0, 0}, [2]int{bb[0].X, bb[0].Y})
	}
}

func TestPackRows(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.atlas")
	defer teardown()
	//
	bb := boxes(2, 6, 3)
	p := Pack(bb)
	assert.Equal(t, [][2]int{{0, 0}, {0, 3}}, positions(bb))
	assert.Equal(t, [2]int{8, 8}, [2]int{p.Width, p.Height})
	//
	bb = boxes(2, 3, 6)
	p = Pack(bb)
	assert.Equal(t, [][2]int{{0, 0}, {3, 0}}, positions(bb))
	assert.Equal(t, [2]int{8, 8}, [2]int{p.Width, p.Height})
	//
	bb = boxes(4, 6, 3)
	p = Pack(bb)
	assert.Equal(t, [][2]int{{0, 0}, {0, 3}, {0, 6}, {6, 0}}, positions(bb))
	assert.Equal(t, [2]int{16, 16}, [2]int{p.Width, p.Height})
	//
	bb = boxes(4, 3, 6)
	p = Pack(bb)
	assert.Equal(t, [][2]int{{0, 0}, {3, 0}, {6, 0}, {9, 0}}, positions(bb))
	assert.Equal(t, [2]int{16, 8}, [2]int{p.Width, p.Height})
	assert.InDelta(t, 72.0/128.0, p.Utilisation(), 1e-9)
}

func TestPackMany(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.atlas")
	defer teardown()
	//
	bb := boxes(20, 6, 3)
	p := Pack(bb)
	assert.Equal(t, [2]int{32, 32}, [2]int{p.Width, p.Height})
	seen := make(map[[2]int]bool)
	for _, pos := range positions(bb) {
		assert.False(t, seen[pos], "position %v assigned twice", pos)
		seen[pos] = true
	}
	assertPacked(t, bb, p)
}

func TestPackMixedSizes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.atlas")
	defer teardown()
	//
	rnd := rand.New(rand.NewSource(4711))
	bb := make([]*GlyphBox, 200)
	for i := range bb {
		bb[i] = &GlyphBox{Width: 3 + rnd.Intn(30), Height: 3 + rnd.Intn(40), X: -1, Y: -1}
	}
	bb = append(bb, &GlyphBox{Width: 5, Height: 1500, X: -1, Y: -1}) // taller than initial skyline
	p := Pack(bb)
	assertPacked(t, bb, p)
	assert.Greater(t, p.Utilisation(), 0.0)
	assert.LessOrEqual(t, p.Utilisation(), 1.0)
}

func TestNewGlyphBox(t *testing.T) {
	b := NewGlyphBox(-10, -20, 90, 180, 0.5, 5, true)
	assert.Equal(t, 13, b.Width) // 100 * 0.5 / 5 = 10, plus margin
	assert.Equal(t, 23, b.Height)
	assert.False(t, b.Placed())
}

// --- Compositor ------------------------------------------------------------

func filledSurface(t *testing.T, w, h int, rects ...[4]int) *raster.Surface {
	s, err := raster.NewSurface(w, h)
	require.NoError(t, err)
	index := 0
	for _, r := range rects {
		x0, y0, x1, y1 := r[0], r[1], r[2], r[3]
		s.DrawLine(x0, y0, x1, y0, index)
		s.DrawLine(x1, y0, x1, y1, index+1)
		s.DrawLine(x1, y1, x0, y1, index+2)
		s.DrawLine(x0, y1, x0, y0, index+3)
		index += 4
	}
	s.Fill()
	return s
}

func TestNewImage(t *testing.T) {
	img, err := NewImage(16, 8)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Rect.Dx())
	_, err = NewImage(MaxAtlasPixels, 2)
	assert.Equal(t, core.EALLOC, core.Code(err))
	img, err = NewImage(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, len(img.Pix))
}

func TestCompositeFullBlocks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.atlas")
	defer teardown()
	//
	s := filledSurface(t, 30, 30, [4]int{5, 5, 24, 24})
	img, _ := NewImage(16, 16)
	box := &GlyphBox{Width: 7, Height: 7, X: 2, Y: 1, HasData: true}
	r := Composite(img, box, s, 5)
	assert.Equal(t, Rect{LeftX: 2, RightX: 6, TopY: 1, BottomY: 5}, r)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := img.GrayAt(x, y).Y
			if x >= 2 && x < 6 && y >= 1 && y < 5 {
				assert.Equal(t, uint8(255), v, "pixel (%d,%d)", x, y)
			} else {
				assert.Equal(t, uint8(0), v, "pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestCompositeFlipsVertically(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.atlas")
	defer teardown()
	//
	s := filledSurface(t, 30, 30, [4]int{5, 15, 24, 24})
	s.AddLineValue(5, 5, 100) // a single pixel below the box, in block (1,1)
	img, _ := NewImage(8, 8)
	box := &GlyphBox{Width: 7, Height: 7, X: 0, Y: 0, HasData: true}
	r := Composite(img, box, s, 5)
	assert.Equal(t, Rect{LeftX: 0, RightX: 4, TopY: 0, BottomY: 4}, r)
	for x := 0; x < 4; x++ {
		assert.Equal(t, uint8(255), img.GrayAt(x, 0).Y, "top row is topmost block row")
		assert.Equal(t, uint8(255), img.GrayAt(x, 1).Y)
		assert.Equal(t, uint8(0), img.GrayAt(x, 2).Y)
	}
	assert.Equal(t, uint8(255/25), img.GrayAt(0, 3).Y, "single pixel coverage")
	assert.Equal(t, uint8(0), img.GrayAt(1, 3).Y)
}

func TestCompositeWithoutData(t *testing.T) {
	s := filledSurface(t, 30, 30, [4]int{5, 5, 24, 24})
	img, _ := NewImage(8, 8)
	box := &GlyphBox{Width: 7, Height: 7, X: 0, Y: 0}
	r := Composite(img, box, s, 5)
	assert.Equal(t, 4, r.Dx())
	assert.Equal(t, 4, r.Dy())
	for _, v := range img.Pix {
		assert.Equal(t, uint8(0), v)
	}
}

func TestCompositeEmptySurface(t *testing.T) {
	s, _ := raster.NewSurface(10, 10)
	img, _ := NewImage(4, 4)
	r := Composite(img, &GlyphBox{Width: 3, Height: 3, X: 1, Y: 1, HasData: true}, s, 5)
	assert.True(t, r.Empty())
	assert.Equal(t, 1, r.LeftX)
}

func TestCompositeClipsToBox(t *testing.T) {
	s := filledSurface(t, 30, 30, [4]int{0, 0, 29, 29})
	img, _ := NewImage(8, 8)
	r := Composite(img, &GlyphBox{Width: 3, Height: 2, X: 1, Y: 1, HasData: true}, s, 5)
	assert.Equal(t, Rect{LeftX: 1, RightX: 4, TopY: 1, BottomY: 3}, r)
	assert.Equal(t, uint8(0), img.GrayAt(4, 1).Y)
	assert.Equal(t, uint8(0), img.GrayAt(1, 3).Y)
}
