package glyphatlas

import (
	"image"
	"math"
	"sort"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font/fontregistry"
	"github.com/npillmayer/glyphatlas/core/font/outline"
	"github.com/npillmayer/glyphatlas/core/font/truetype"
	"github.com/npillmayer/glyphatlas/engine/atlas"
	"github.com/npillmayer/glyphatlas/engine/raster"
)

// GlyphData is the placement of a character's glyph within the atlas,
// together with its horizontal metrics in pixels.
//
// The glyph's rectangle (LeftX, RightX, TopY, BottomY) is empty for glyphs
// without an outline, e.g. for space. OffsetLineY is the distance of the
// glyph's bottom from the baseline, in pixels, negative for descenders.
type GlyphData struct {
	Char  rune
	Glyph truetype.GlyphIndex
	atlas.Rect
	OffsetLineY int
	AdvanceX    float32
	Bearing     float32
}

// Generate renders the glyphs for all distinct characters of text into a
// texture atlas. fontref is either a path to a TrueType font file or the
// name of an installed font. sizePx is the em size in pixels, quality the
// supersampling factor.
//
// Characters for which the font has no glyph are skipped. Errors carry a
// single code from package core: core.EINVALID for invalid parameters, text
// or font data, core.EMISSING for fonts which cannot be found or read,
// core.EALLOC for atlases too large to allocate.
func Generate(text, fontref string, sizePx float32, quality int, opts ...Option) (*Result, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if quality < 2 {
		return nil, core.Error(core.EINVALID, "quality must be 2 or more, is %d", quality)
	}
	if !(sizePx > 0) || math.IsInf(float64(sizePx), 0) {
		return nil, core.Error(core.EINVALID, "font size must be positive, is %g", sizePx)
	}
	if !finite(o.rotation) || !finite(o.moveX) || !finite(o.moveY) {
		return nil, core.Error(core.EINVALID, "rotation and offsets must be finite numbers")
	}
	chars, err := distinctCharacters(text, o.normalize)
	if err != nil {
		return nil, err
	}
	if len(chars) == 0 {
		return nil, core.Error(core.EINVALID, "no characters to render")
	}
	f, ttf, err := fontregistry.GlobalRegistry().Font(fontref)
	if err != nil {
		return nil, err
	}
	g := &generator{ttf: ttf, size: sizePx, q: quality, opts: o}
	res, err := g.generate(chars)
	if err != nil {
		return nil, err
	}
	res.Fontname = f.Fontname
	return res, nil
}

func finite(x float32) bool {
	return !math.IsInf(float64(x), 0) && !math.IsNaN(float64(x))
}

type generator struct {
	ttf       *truetype.Font
	size      float32
	q         int
	rate      float32 // font units → drawing pixels
	opts      options
	pathIndex int // running index of drawn segments
}

// glyphJob collects the characters which share a glyph.
type glyphJob struct {
	gid     truetype.GlyphIndex
	chars   []rune
	outline *outline.Outline
	box     *atlas.GlyphBox // nil for glyphs without outline
}

func (g *generator) generate(chars []rune) (*Result, error) {
	upem := float32(g.ttf.UnitsPerEm())
	g.rate = float32(g.q) * g.size / upem
	jobs := g.collect(chars)
	resolver := outline.NewResolver(g.ttf)
	boxes := make([]*atlas.GlyphBox, 0, len(jobs))
	for _, j := range jobs {
		o, err := resolver.Outline(j.gid)
		if err != nil {
			return nil, err
		}
		j.outline = g.transform(o, upem)
		if j.outline.Bounds.Empty() || j.outline.Empty() {
			continue
		}
		minx, miny, maxx, maxy, _ := j.outline.Extent()
		j.box = atlas.NewGlyphBox(minx, miny, maxx, maxy, g.rate, g.q, g.ttf.HasGlyphData(j.gid))
		boxes = append(boxes, j.box)
	}
	packing := atlas.Pack(boxes)
	img, err := atlas.NewImage(packing.Width, packing.Height)
	if err != nil {
		return nil, err
	}
	res := newResult(img, g.size, g.q, packing)
	hrate := g.size / upem
	for _, j := range jobs {
		gd := GlyphData{Glyph: j.gid}
		if j.box != nil {
			if gd.Rect, gd.OffsetLineY, err = g.render(img, j); err != nil {
				return nil, err
			}
		}
		adv, lsb := g.ttf.HMtx.Metrics(j.gid)
		gd.AdvanceX, gd.Bearing = float32(adv)*hrate, float32(lsb)*hrate
		for _, r := range j.chars {
			gd.Char = r
			res.add(gd)
		}
	}
	res.kerning = buildKerning(g.ttf, hrate)
	tracer().Infof("atlas of %d × %d for %d glyphs at %.1fpx", packing.Width, packing.Height,
		len(boxes), g.size)
	return res, nil
}

// collect maps characters to glyphs, in glyph order.
func (g *generator) collect(chars []rune) []*glyphJob {
	byGlyph := make(map[truetype.GlyphIndex]*glyphJob)
	jobs := make([]*glyphJob, 0, len(chars))
	for _, r := range chars {
		gid := g.ttf.GlyphIndex(r)
		if gid == 0 {
			tracer().Infof("font has no glyph for %#U", r)
			continue
		}
		if j, ok := byGlyph[gid]; ok {
			j.chars = append(j.chars, r)
			continue
		}
		j := &glyphJob{gid: gid, chars: []rune{r}}
		byGlyph[gid] = j
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].gid < jobs[k].gid })
	return jobs
}

// transform applies sub-pixel offsets and rotation to an outline. Offsets are
// converted from pixels to font units.
func (g *generator) transform(o *outline.Outline, upem float32) *outline.Outline {
	if g.opts.moveX != 0 || g.opts.moveY != 0 {
		if !o.Empty() {
			o = o.Transform(1, 0, 0, 1, g.opts.moveX*upem/g.size, g.opts.moveY*upem/g.size)
		}
	}
	return o.Rotate(g.opts.rotation)
}

// render draws a glyph's outline onto a drawing surface, fills it and
// composites it into the atlas.
func (g *generator) render(img *image.Gray, j *glyphJob) (atlas.Rect, int, error) {
	o, b, q, rate := j.outline, j.outline.Bounds, g.q, g.rate
	minx, miny, maxx, maxy, _ := o.Extent()
	x0 := raster.DecreaseMinValue(raster.MinValue(float32(b.MinX)*rate, q), q, int(minx*rate))
	y0 := raster.DecreaseMinValue(raster.MinValue(float32(b.MinY)*rate, q), q, int(miny*rate))
	x1 := raster.IncreaseMaxValue(raster.MaxValue(float32(b.MaxX)*rate, q), q, int(maxx*rate))
	y1 := raster.IncreaseMaxValue(raster.MaxValue(float32(b.MaxY)*rate, q), q, int(maxy*rate))
	s, err := raster.NewSurface(x1-x0, y1-y0)
	if err != nil {
		return atlas.Rect{}, 0, err
	}
	fx, fy := float32(x0), float32(y0)
	for _, p := range o.Contours {
		for _, c := range p {
			if c.IsCurve {
				s.DrawCurve(c.X0*rate-fx, c.Y0*rate-fy, c.X1*rate-fx, c.Y1*rate-fy,
					c.CX*rate-fx, c.CY*rate-fy, g.pathIndex)
			} else {
				s.DrawLine(int(c.X0*rate-fx), int(c.Y0*rate-fy), int(c.X1*rate-fx), int(c.Y1*rate-fy),
					g.pathIndex)
			}
			g.pathIndex++
		}
	}
	s.Fill()
	rect := atlas.Composite(img, j.box, s, q)
	return rect, raster.ZeroLineValue(float32(b.MinY)*rate, q), nil
}
