/*
Package glyphatlas renders the glyphs for a text into a greyscale texture
atlas.

Clients hand in UTF-8 text, a font and a pixel size. Generate rasterizes the
glyphs of all distinct characters of the text and packs them into a single
image, the dimensions of which are powers of 2. For every character the
result holds the glyph's rectangle within the atlas and its horizontal
metrics, in pixels. If the font contains a 'kern' table, kerning values for
character pairs are available as well.

	res, err := glyphatlas.Generate("Hello World", "DejaVuSans.ttf", 32, 5)
	if err != nil {
	    return err
	}
	img := res.Image()
	h, _ := res.Glyph('H')
	fmt.Printf("'H' is at %d,%d, advance is %.1f\n", h.LeftX, h.TopY, h.AdvanceX)

The quality parameter is the supersampling factor: every atlas pixel is
computed from quality × quality drawing pixels. Values of 4 or 5 are a good
choice for text sizes.

Generate is synchronous. A Result is never modified after it is returned and
may be shared between goroutines.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package glyphatlas

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.atlas'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.atlas")
}
