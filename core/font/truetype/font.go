package truetype

import (
	"fmt"
	"sort"

	"golang.org/x/text/encoding/unicode"
)

// Font represents the tables of a TrueType font needed for rasterization.
// Shortcuts to the interpreted tables are set by Parse. Kern is nil if the font
// does not contain a 'kern' table.
type Font struct {
	Header *FontHeader
	tables map[Tag]Table
	Head   *HeadTable
	MaxP   *MaxPTable
	Loca   *LocaTable
	Glyf   *GlyfTable
	HHea   *HHeaTable
	HMtx   *HMtxTable
	CMap   *CMapTable
	Name   *NameTable
	Kern   *KernTable
}

// FontHeader is the offset table at the start of a font file.
//
// TrueType fonts use 0x00010000 as FontType, Apple also allows 'true'.
// Fonts with CFF data use 'OTTO' and are rejected.
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
// Tables which are not interpreted by this package are returned as generic tables.
func (ttf *Font) Table(tag Tag) Table {
	if t, ok := ttf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font,
// in ascending order.
func (ttf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(ttf.tables))
	for tag := range ttf.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// NumGlyphs returns the number of glyphs in the font.
func (ttf *Font) NumGlyphs() int {
	return ttf.MaxP.NumGlyphs
}

// UnitsPerEm returns the design units per em of the font.
func (ttf *Font) UnitsPerEm() uint16 {
	return ttf.Head.UnitsPerEm
}

// GlyphIndex returns the glyph for a character, or 0 (the missing glyph)
// if the font does not contain a mapping for r.
func (ttf *Font) GlyphIndex(r rune) GlyphIndex {
	return ttf.CMap.Lookup(r)
}

// Char returns the character mapped to glyph gid, or 0 if no character maps to gid.
func (ttf *Font) Char(gid GlyphIndex) rune {
	return ttf.CMap.Char(gid)
}

// GlyphBytes returns the 'glyf' data segment for a glyph. Glyphs without an
// outline (e.g., space) return an empty segment and no error.
func (ttf *Font) GlyphBytes(gid GlyphIndex) ([]byte, error) {
	if int(gid) >= ttf.MaxP.NumGlyphs {
		return nil, errFontFormat(fmt.Sprintf("glyph index %d out of range", gid))
	}
	from, to := ttf.Loca.Location(gid), ttf.Loca.Location(gid+1)
	if from == to {
		return nil, nil
	}
	if to < from || int(to) > len(ttf.Glyf.data) {
		return nil, errFontFormat(fmt.Sprintf("loca entries for glyph %d out of bounds", gid))
	}
	return ttf.Glyf.data[from:to], nil
}

// HasGlyphData is true if a glyph's entry in the 'glyf' table is non-empty.
func (ttf *Font) HasGlyphData(gid GlyphIndex) bool {
	if int(gid) >= ttf.MaxP.NumGlyphs {
		return false
	}
	return ttf.Loca.Location(gid) != ttf.Loca.Location(gid+1)
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is an array of four uint8s (length = 32 bits) used to identify a table.
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	return string([]byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	})
}

// --- Tables ----------------------------------------------------------------

// Table is the common interface of all font tables.
type Table interface {
	Tag() Tag
	Extent() (uint32, uint32) // offset and size within the font binary
	Binary() []byte
}

type tableBase struct {
	data   binarySegm
	name   Tag
	offset uint32
	length uint32
}

func makeTableBase(tag Tag, b binarySegm, offset, size uint32) tableBase {
	return tableBase{data: b, name: tag, offset: offset, length: size}
}

func (tb *tableBase) Tag() Tag {
	return tb.name
}

func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

func (tb *tableBase) Binary() []byte {
	return tb.data
}

type genericTable struct {
	tableBase
}

// HeadTable gives global information about the font.
type HeadTable struct {
	tableBase
	Flags            uint16
	UnitsPerEm       uint16 // values 16 … 16384 are valid
	XMin, YMin       int16  // bounding box over all glyphs
	XMax, YMax       int16
	IndexToLocFormat uint16 // 0 for short offsets, 1 for long
}

// MaxPTable contains the number of glyphs in the font.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

// LocaTable stores the offsets to the locations of the glyphs in the font,
// relative to the beginning of the 'glyf' table. It holds NumGlyphs+1 entries;
// the extent of glyph i is Location(i) … Location(i+1).
type LocaTable struct {
	tableBase
	long   bool // long (32 bit) offsets
	locCnt int  // number of locations
}

// Location returns the 'glyf' offset of glyph gid. In case of error it links
// to location 0.
func (t *LocaTable) Location(gid GlyphIndex) uint32 {
	if int(gid) >= t.locCnt {
		return 0
	}
	if t.long {
		return t.data.U32(int(gid) * 4)
	}
	return uint32(t.data.U16(int(gid)*2)) * 2
}

// GlyfTable holds the glyph outline data.
type GlyfTable struct {
	tableBase
}

// HHeaTable contains information for horizontal layout.
type HHeaTable struct {
	tableBase
	Ascender         int16
	Descender        int16
	LineGap          int16
	NumberOfHMetrics int
}

// HMtxTable contains metric information for the horizontal layout each of the glyphs in
// the font. The first NumberOfHMetrics glyphs have a pair of advance width and left side
// bearing, the remaining glyphs have a left side bearing only and share the advance
// width of the last pair.
type HMtxTable struct {
	tableBase
	NumberOfHMetrics int
	numGlyphs        int
}

// Metrics returns the advance width and left side bearing of a glyph, in font units.
func (t *HMtxTable) Metrics(g GlyphIndex) (advance uint16, lsb int16) {
	n := t.NumberOfHMetrics
	if n == 0 {
		return 0, 0
	}
	if int(g) < n {
		return t.data.U16(int(g) * 4), int16(t.data.U16(int(g)*4 + 2))
	}
	advance = t.data.U16((n - 1) * 4)
	lsb = int16(t.data.U16(n*4 + (int(g)-n)*2))
	return
}

// NameTable holds the naming strings of a font.
type NameTable struct {
	tableBase
	names map[uint16]string
}

// Name IDs used by this package
const (
	NameIDFamily   uint16 = 1
	NameIDFullName uint16 = 4
)

// Name returns the name string for a name ID, or "" if not present.
func (t *NameTable) Name(id uint16) string {
	if t == nil {
		return ""
	}
	return t.names[id]
}

func decodeUtf16(str []byte) (string, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	decoder := enc.NewDecoder()
	s, err := decoder.Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16 error: %v", err)
	}
	return string(s), nil
}
