/*
Package truetype decodes the tables of a TrueType font which are needed to
rasterize glyphs: 'head', 'maxp', 'loca', 'glyf', 'hhea', 'hmtx', 'cmap',
'name' and (optionally) 'kern'.

Tables are not copied out of the font binary. A truetype.Font keeps the font's
bytes and tables are views onto segments of it. Glyph outlines are handed out
as raw 'glyf' segments; decoding them into contours is the job of package
outline.

Fonts with CFF outlines ('OTTO') and font collections are not supported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package truetype

import (
	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/schuko/tracing"
)

// Valuable resource:
// https://docs.microsoft.com/en-us/typography/opentype/spec/

// tracer writes to trace with key 'glyphatlas.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.fonts")
}

// errFontFormat produces user level errors for font parsing.
func errFontFormat(x string) error {
	return core.Error(core.EINVALID, "TrueType font format: %s", x)
}
