package atlas

import (
	"image"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/engine/raster"
)

// MaxAtlasPixels is the upper limit for the number of pixels of an atlas image.
const MaxAtlasPixels = 1 << 28

// NewImage allocates a blank greyscale atlas image of w × h pixels.
func NewImage(w, h int) (*image.Gray, error) {
	if w < 0 || h < 0 || (w > 0 && h > MaxAtlasPixels/w) {
		return nil, core.Error(core.EALLOC, "cannot allocate atlas image of %d × %d", w, h)
	}
	return image.NewGray(image.Rect(0, 0, w, h)), nil
}

// Rect is the area of a glyph within the atlas image, in image coordinates.
// The right and bottom edges are exclusive.
type Rect struct {
	LeftX, RightX int
	TopY, BottomY int
}

// Empty is true if the rectangle does not contain any pixels.
func (r Rect) Empty() bool {
	return r.RightX <= r.LeftX || r.BottomY <= r.TopY
}

// Dx is the width of r.
func (r Rect) Dx() int { return r.RightX - r.LeftX }

// Dy is the height of r.
func (r Rect) Dy() int { return r.BottomY - r.TopY }

// Composite transfers a filled drawing surface into the atlas image, at the
// position of box. Every quality × quality block of supersampled pixels
// becomes one atlas pixel, its grey value being the fraction of marked pixels
// in the block. Surface rows run upwards, image rows downwards, so the glyph
// is flipped vertically.
//
// Only the tight bounding box of the marked blocks is written, clipped to the
// box and to the image. Composite returns the area written. For boxes without
// glyph data, the area is computed but no pixels are written.
func Composite(img *image.Gray, box *GlyphBox, s *raster.Surface, q int) Rect {
	bw, bh := 1+s.Width/q, 1+s.Height/q
	counts := make([]int, bw*bh)
	startX, startY, endX, endY := -1, -1, -1, -1
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if !s.At(x, y).Marked() {
				continue
			}
			cx, cy := x/q, y/q
			if startX < 0 {
				startX, startY, endX, endY = cx, cy, cx, cy
			} else {
				startX, startY = min(startX, cx), min(startY, cy)
				endX, endY = max(endX, cx), max(endY, cy)
			}
			if box.HasData {
				counts[cy*bw+cx]++
			}
		}
	}
	r := Rect{LeftX: box.X, RightX: box.X, TopY: box.Y, BottomY: box.Y}
	if startX < 0 {
		return r
	}
	w := min(endX-startX+1, box.Width, img.Rect.Max.X-box.X)
	h := min(endY-startY+1, box.Height, img.Rect.Max.Y-box.Y)
	if w <= 0 || h <= 0 {
		tracer().Errorf("glyph %v does not fit into atlas %v", box, img.Rect)
		return r
	}
	r.RightX, r.BottomY = box.X+w, box.Y+h
	if !box.HasData {
		return r
	}
	full := q * q
	for row := 0; row < h; row++ {
		src := endY - row
		line := img.Pix[(box.Y+row)*img.Stride+box.X:]
		for col := 0; col < w; col++ {
			v := min(counts[src*bw+startX+col]*255/full, 255)
			line[col] = uint8(v)
		}
	}
	return r
}
