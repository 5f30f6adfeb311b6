package glyphatlas

import (
	"image"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/glyphatlas/core/font/truetype"
	"github.com/npillmayer/glyphatlas/engine/atlas"
)

// Result is a generated glyph atlas.
type Result struct {
	Fontname string
	Size     float32 // em size in pixels
	Quality  int
	img      *image.Gray
	glyphs   []GlyphData
	index    map[rune]int
	kerning  *treemap.Map // left char → (right char → kerning)
	packing  atlas.Packing
}

func newResult(img *image.Gray, size float32, q int, p atlas.Packing) *Result {
	return &Result{
		Size:    size,
		Quality: q,
		img:     img,
		index:   make(map[rune]int),
		packing: p,
	}
}

func (res *Result) add(gd GlyphData) {
	res.index[gd.Char] = len(res.glyphs)
	res.glyphs = append(res.glyphs, gd)
}

// Image returns the atlas image. Clients must not modify it.
func (res *Result) Image() *image.Gray {
	return res.img
}

// Glyph returns the glyph data for a character, if the character is part of
// the atlas.
func (res *Result) Glyph(r rune) (GlyphData, bool) {
	if i, ok := res.index[r]; ok {
		return res.glyphs[i], true
	}
	return GlyphData{}, false
}

// Glyphs returns the glyph data for all characters of the atlas, in order of
// glyph index.
func (res *Result) Glyphs() []GlyphData {
	glyphs := make([]GlyphData, len(res.glyphs))
	copy(glyphs, res.glyphs)
	return glyphs
}

// Utilisation returns the fraction of the atlas area covered by glyph boxes.
func (res *Result) Utilisation() float64 {
	return res.packing.Utilisation()
}

// Kerning returns the kerning for a pair of characters, in pixels. Positive
// values move the characters apart. Pairs without kerning have a value of 0.
func (res *Result) Kerning(left, right rune) float32 {
	if res.kerning == nil {
		return 0
	}
	rights, ok := res.kerning.Get(left)
	if !ok {
		return 0
	}
	if k, ok := rights.(*treemap.Map).Get(right); ok {
		return k.(float32)
	}
	return 0
}

// KerningPairs calls f for every kerning pair, ordered by left and then by
// right character.
func (res *Result) KerningPairs(f func(left, right rune, kern float32)) {
	if res.kerning == nil {
		return
	}
	it := res.kerning.Iterator()
	for it.Next() {
		rit := it.Value().(*treemap.Map).Iterator()
		for rit.Next() {
			f(it.Key().(rune), rit.Key().(rune), rit.Value().(float32))
		}
	}
}

// buildKerning collects the kerning pairs of a font's 'kern' table as pairs
// of characters. Pairs of glyphs which are not mapped from a character, and
// pairs with value 0, are dropped.
func buildKerning(ttf *truetype.Font, rate float32) *treemap.Map {
	pairs := ttf.Kern.Pairs()
	if len(pairs) == 0 {
		return nil
	}
	kerning := treemap.NewWith(utils.Int32Comparator)
	for _, p := range pairs {
		l, r := ttf.Char(p.Left), ttf.Char(p.Right)
		if l == 0 || r == 0 || p.Value == 0 {
			continue
		}
		rights, ok := kerning.Get(l)
		if !ok {
			rights = treemap.NewWith(utils.Int32Comparator)
			kerning.Put(l, rights)
		}
		rights.(*treemap.Map).Put(r, float32(p.Value)*rate)
	}
	tracer().Debugf("kerning table holds pairs for %d left characters", kerning.Size())
	return kerning
}
