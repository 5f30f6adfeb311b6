package truetype

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// Parse parses a TrueType font from a byte slice.
// A truetype.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the truetype.Font remains in use.
func Parse(font []byte) (*Font, error) {
	// Offset Table is 12 bytes, of which we need the first 6.
	r := bytes.NewReader(font)
	h := FontHeader{}
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, errFontFormat("offset table too short")
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	if h.FontType == 0x4f54544f { // OTTO
		return nil, errFontFormat("fonts with CFF outlines are not supported")
	}
	if !(h.FontType == 0x00010000 || // TrueType
		h.FontType == 0x74727565) { // true
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	ttf := &Font{Header: &h, tables: make(map[Tag]Table)}
	src := binarySegm(font)
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	buf, err := src.view(12, 16*int(h.TableCount))
	if err != nil {
		return nil, errFontFormat("table record entries")
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		if tag < prevTag {
			return nil, errFontFormat("table order")
		}
		prevTag = tag
		off, size := u32(b[8:12]), u32(b[12:16])
		if uint64(off)+uint64(size) > uint64(len(font)) {
			return nil, errFontFormat(fmt.Sprintf("table %s exceeds font size", tag))
		}
		if ttf.tables[tag], err = parseTable(tag, src[off:off+size], off, size); err != nil {
			return nil, err
		}
	}
	if err := connectTables(ttf); err != nil {
		return nil, err
	}
	return ttf, nil
}

// RequiredTables are the tables which must be present for glyphs to be
// rasterized.
var RequiredTables = []string{
	"cmap", "glyf", "head", "hhea", "hmtx", "loca", "maxp", "name",
}

// connectTables checks for required tables, stores shortcuts to them and
// resolves dependencies between tables.
func connectTables(ttf *Font) error {
	for _, tag := range RequiredTables {
		if ttf.tables[T(tag)] == nil {
			return errFontFormat("missing required table " + tag)
		}
	}
	ttf.Head = ttf.tables[T("head")].(*HeadTable)
	ttf.MaxP = ttf.tables[T("maxp")].(*MaxPTable)
	ttf.Loca = ttf.tables[T("loca")].(*LocaTable)
	ttf.Glyf = ttf.tables[T("glyf")].(*GlyfTable)
	ttf.HHea = ttf.tables[T("hhea")].(*HHeaTable)
	ttf.HMtx = ttf.tables[T("hmtx")].(*HMtxTable)
	ttf.CMap = ttf.tables[T("cmap")].(*CMapTable)
	ttf.Name = ttf.tables[T("name")].(*NameTable)
	if k, ok := ttf.tables[T("kern")].(*KernTable); ok && k != nil {
		ttf.Kern = k
	}
	if ttf.MaxP.NumGlyphs == 0 {
		return errFontFormat("font has no glyphs")
	}
	// The number of loca entries is numGlyphs+1, in the format set by 'head'.
	ttf.Loca.long = ttf.Head.IndexToLocFormat == 1
	entrySize := 2
	if ttf.Loca.long {
		entrySize = 4
	}
	if int(ttf.Loca.length) < (ttf.MaxP.NumGlyphs+1)*entrySize {
		return errFontFormat("size of loca table")
	}
	ttf.Loca.locCnt = ttf.MaxP.NumGlyphs + 1
	// 'hmtx' needs numberOfHMetrics from 'hhea'.
	n := ttf.HHea.NumberOfHMetrics
	if n > ttf.MaxP.NumGlyphs {
		tracer().Infof("hhea.numberOfHMetrics %d exceeds number of glyphs; fixing", n)
		n = ttf.MaxP.NumGlyphs
	}
	if int(ttf.HMtx.length) < n*4 {
		return errFontFormat("size of hmtx table")
	}
	ttf.HMtx.NumberOfHMetrics = n
	ttf.HMtx.numGlyphs = ttf.MaxP.NumGlyphs
	ttf.CMap.buildReverse(ttf.MaxP.NumGlyphs)
	return nil
}

func parseTable(t Tag, b binarySegm, offset, size uint32) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(t, b, offset, size)
	case T("glyf"):
		return &GlyfTable{tableBase: makeTableBase(t, b, offset, size)}, nil
	case T("head"):
		return parseHead(t, b, offset, size)
	case T("hhea"):
		return parseHHea(t, b, offset, size)
	case T("hmtx"):
		return &HMtxTable{tableBase: makeTableBase(t, b, offset, size)}, nil
	case T("kern"):
		return parseKern(t, b, offset, size)
	case T("loca"):
		return &LocaTable{tableBase: makeTableBase(t, b, offset, size)}, nil
	case T("maxp"):
		return parseMaxP(t, b, offset, size)
	case T("name"):
		return parseName(t, b, offset, size)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return &genericTable{makeTableBase(t, b, offset, size)}, nil
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 54 {
		return nil, errFontFormat("size of head table")
	}
	t := &HeadTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.Flags = b.U16(16)
	t.UnitsPerEm = b.U16(18)
	t.XMin, t.YMin = int16(b.U16(36)), int16(b.U16(38))
	t.XMax, t.YMax = int16(b.U16(40)), int16(b.U16(42))
	// IndexToLocFormat is needed to interpret the loca table:
	// 0 for short offsets, 1 for long
	t.IndexToLocFormat = b.U16(50)
	if t.UnitsPerEm == 0 {
		return nil, errFontFormat("head.unitsPerEm is 0")
	}
	return t, nil
}

// --- MaxP table ------------------------------------------------------------

// This table establishes the memory requirements for this font. Fonts with TrueType
// outlines must use Version 1.0 of this table; we only need numGlyphs.
func parseMaxP(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errFontFormat("size of maxp table")
	}
	t := &MaxPTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.NumGlyphs = int(b.U16(4))
	return t, nil
}

// --- HHea table ------------------------------------------------------------

func parseHHea(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 36 {
		return nil, errFontFormat("size of hhea table")
	}
	t := &HHeaTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.Ascender = int16(b.U16(4))
	t.Descender = int16(b.U16(6))
	t.LineGap = int16(b.U16(8))
	t.NumberOfHMetrics = int(b.U16(34))
	return t, nil
}

// --- Name table ------------------------------------------------------------

// parseName reads the name records we can decode: Unicode and Windows/Unicode-BMP
// strings (UTF-16BE), and Macintosh Roman strings, which we treat as Latin-1.
// Windows/Unicode strings take precedence.
func parseName(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errFontFormat("size of name table")
	}
	t := &NameTable{tableBase: makeTableBase(tag, b, offset, size), names: make(map[uint16]string)}
	count, strOffset := int(b.U16(2)), int(b.U16(4))
	prio := make(map[uint16]int)
	for i := 0; i < count; i++ {
		rec, err := b.view(6+i*12, 12)
		if err != nil {
			return nil, errFontFormat("name records")
		}
		pltf, enc, id := u16(rec), u16(rec[2:]), u16(rec[6:])
		length, off := int(u16(rec[8:])), int(u16(rec[10:]))
		str, err := b.view(strOffset+off, length)
		if err != nil {
			continue // empty or broken name string
		}
		var s string
		var p int
		switch {
		case pltf == 3 && (enc == 1 || enc == 10), pltf == 0:
			if s, err = decodeUtf16(str); err != nil {
				continue
			}
			p = 2
		case pltf == 1 && enc == 0:
			r := make([]rune, len(str))
			for j, c := range str {
				r[j] = rune(c)
			}
			s, p = string(r), 1
		default:
			continue
		}
		if p > prio[id] {
			t.names[id], prio[id] = s, p
		}
	}
	return t, nil
}
