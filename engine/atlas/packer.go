/*
Package atlas packs glyph boxes into a texture atlas and composites
rasterized glyphs into it.

Boxes are placed by a skyline packer: for every row of the atlas the packer
keeps the rightmost occupied column. A box either starts a new row band below
all other boxes, or it is placed into the row span with the smallest skyline.
Atlas dimensions are powers of two.

The atlas image is an 8-bit greyscale image. Coverage of a pixel is the
fraction of marked supersampled pixels in its quality × quality block.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package atlas

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.atlas'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.atlas")
}

// GlyphBox is the space requirement for a glyph in the atlas.
//
// Width and Height are in atlas pixels and include a margin. X and Y are the
// position of the box after packing, -1 before. MinX … MaxY hold the extent
// of the glyph's outline in font units.
type GlyphBox struct {
	Width, Height int
	X, Y          int
	MinX, MinY    float32
	MaxX, MaxY    float32
	HasData       bool // false for glyphs without outline data
}

// NewGlyphBox creates an unplaced box for an outline extent, given in font
// units. rate is the factor from font units to supersampled pixels, q is the
// supersampling (quality) factor.
func NewGlyphBox(minx, miny, maxx, maxy float32, rate float32, q int, hasData bool) *GlyphBox {
	return &GlyphBox{
		Width:   int((maxx-minx)*rate/float32(q)) + 3,
		Height:  int((maxy-miny)*rate/float32(q)) + 3,
		X:       -1,
		Y:       -1,
		MinX:    minx,
		MinY:    miny,
		MaxX:    maxx,
		MaxY:    maxy,
		HasData: hasData,
	}
}

// Placed is true if the box has been assigned a position.
func (b *GlyphBox) Placed() bool {
	return b.X >= 0 && b.Y >= 0
}

func (b *GlyphBox) String() string {
	return fmt.Sprintf("box[%d×%d @ (%d,%d)]", b.Width, b.Height, b.X, b.Y)
}

// Packing is the result of packing a set of boxes.
type Packing struct {
	Width, Height int // atlas dimensions, powers of 2
	used          int // area covered by boxes
}

// Utilisation returns the fraction of the atlas area covered by boxes.
func (p Packing) Utilisation() float64 {
	if p.Width == 0 || p.Height == 0 {
		return 0
	}
	return float64(p.used) / float64(p.Width*p.Height)
}

const initialSkylineSize = 1024

type skyline struct {
	mostRight  []int // rightmost occupied column per row
	maxX, maxY int
}

// Pack assigns positions to boxes, in the order given, and returns the
// dimensions of the atlas. No two boxes overlap. An empty set of boxes
// results in a 0 × 0 atlas.
func Pack(boxes []*GlyphBox) Packing {
	if len(boxes) == 0 {
		return Packing{}
	}
	sky := &skyline{mostRight: make([]int, initialSkylineSize)}
	sky.place(boxes[0], 0, 0)
	for _, b := range boxes[1:] {
		if sky.maxX+b.Width > sky.maxY+b.Height {
			sky.place(b, 0, sky.maxY) // new row band
			continue
		}
		bestY, bestX := 0, sky.rightmost(0, b.Height)
		for y := 1; y <= sky.maxY-b.Height; y++ {
			if x := sky.rightmost(y, b.Height); x < bestX {
				bestX, bestY = x, y
			}
		}
		sky.place(b, bestX, bestY)
	}
	p := Packing{Width: powerOfTwo(sky.maxX), Height: powerOfTwo(sky.maxY)}
	for _, b := range boxes {
		p.used += b.Width * b.Height
	}
	tracer().Debugf("packed %d glyph boxes into %d × %d, utilisation %.2f",
		len(boxes), p.Width, p.Height, p.Utilisation())
	return p
}

func (sky *skyline) place(b *GlyphBox, x, y int) {
	b.X, b.Y = x, y
	if size := len(sky.mostRight); y+b.Height >= size {
		grown := make([]int, size+2*b.Height)
		copy(grown, sky.mostRight)
		sky.mostRight = grown
	}
	for i := y; i < y+b.Height; i++ {
		sky.mostRight[i] = x + b.Width
	}
	sky.maxX = max(sky.maxX, x+b.Width)
	sky.maxY = max(sky.maxY, y+b.Height)
}

// rightmost returns the maximum of the skyline for rows y … y+h-1.
func (sky *skyline) rightmost(y, h int) int {
	r := 0
	for i := y; i < y+h && i < len(sky.mostRight); i++ {
		r = max(r, sky.mostRight[i])
	}
	return r
}

// powerOfTwo returns the smallest power of 2 ≥ n, at least 2.
func powerOfTwo(n int) int {
	p := 2
	for p < n {
		p <<= 1
	}
	return p
}
