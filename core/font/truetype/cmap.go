package truetype

import (
	"fmt"
	"sort"
)

// --- CMap table ------------------------------------------------------------

// CMapTable maps character codes to glyph indices, using one selected
// Unicode sub-table. It also holds the reverse mapping from glyphs to
// characters, which is needed to report kerning pairs as character pairs.
type CMapTable struct {
	tableBase
	Format   uint16 // format of the sub-table in use
	glyphs   map[rune]GlyphIndex
	reverse  []rune // glyph → character, 0 for unmapped glyphs
	platform uint16
	encoding uint16
}

// Lookup returns the glyph index for r, or 0 if r is not mapped.
func (t *CMapTable) Lookup(r rune) GlyphIndex {
	return t.glyphs[r]
}

// Char returns the character mapped to glyph gid. If more than one character
// maps to gid, the lowest code point is returned. Returns 0 for unmapped glyphs.
func (t *CMapTable) Char(gid GlyphIndex) rune {
	if int(gid) >= len(t.reverse) {
		return 0
	}
	return t.reverse[gid]
}

// Characters returns the characters of the reverse mapping, in glyph order.
// Glyphs without a character are skipped.
func (t *CMapTable) Characters() []rune {
	chars := make([]rune, 0, len(t.glyphs))
	for _, r := range t.reverse {
		if r != 0 {
			chars = append(chars, r)
		}
	}
	return chars
}

// Len returns the number of mapped characters.
func (t *CMapTable) Len() int {
	return len(t.glyphs)
}

func (t *CMapTable) buildReverse(numGlyphs int) {
	t.reverse = make([]rune, numGlyphs)
	chars := make([]rune, 0, len(t.glyphs))
	for r := range t.glyphs {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	for _, r := range chars {
		gid := t.glyphs[r]
		if int(gid) < numGlyphs && t.reverse[gid] == 0 {
			t.reverse[gid] = r
		}
	}
}

// This table defines mapping of character codes to a default glyph index. Different
// subtables may be defined that each contain mappings for different character encoding
// schemes.
//
// From the spec.: “If a font includes Unicode subtables for both 16-bit encoding
// (typically, format 4) and also 32-bit encoding (formats 10 or 12), then the characters
// supported by the subtable for 32-bit encoding should be a superset of the characters
// supported by the subtable for 16-bit encoding, and the 32-bit encoding should be used
// by applications.”
//
// We support formats 4, 6 and 12, preferring format 12 over 4 over 6. Unicode
// platforms (0 and Windows 3/1, 3/10) are preferred over others.
func parseCMap(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	n := int(b.U16(2)) // number of sub-tables
	tracer().Debugf("font cmap has %d sub-tables in %d|%d bytes", n, len(b), size)
	const headerSize, entrySize = 4, 8
	if size < headerSize+entrySize*uint32(n) {
		return nil, errFontFormat("size of cmap table")
	}
	t := &CMapTable{tableBase: makeTableBase(tag, b, offset, size)}
	best, bestRank := binarySegm(nil), 0
	for i := 0; i < n; i++ {
		rec, _ := b.view(headerSize+entrySize*i, entrySize)
		pid, psid, link := u16(rec), u16(rec[2:]), u32(rec[4:])
		if int(link)+2 > len(b) {
			tracer().Infof("cmap sub-table %d/%d has invalid offset", pid, psid)
			continue
		}
		sub := b[link:]
		format := sub.U16(0)
		tracer().Debugf("cmap table contains subtable with format %d for %d/%d", format, pid, psid)
		if rank := cmapRank(pid, psid, format); rank > bestRank {
			best, bestRank = sub, rank
			t.Format, t.platform, t.encoding = format, pid, psid
		}
	}
	if best == nil {
		return nil, errFontFormat("no supported cmap format found")
	}
	var err error
	switch t.Format {
	case 4:
		t.glyphs, err = parseCMapFormat4(best)
	case 6:
		t.glyphs, err = parseCMapFormat6(best)
	case 12:
		t.glyphs, err = parseCMapFormat12(best)
	}
	if err != nil {
		return nil, err
	}
	tracer().Debugf("cmap format %d maps %d characters", t.Format, len(t.glyphs))
	return t, nil
}

func cmapRank(pid, psid, format uint16) int {
	var r int
	switch format {
	case 12:
		r = 30
	case 4:
		r = 20
	case 6:
		r = 10
	default:
		return 0
	}
	if pid == 0 || (pid == 3 && (psid == 1 || psid == 10)) {
		r += 5
	}
	return r
}

// Format 4: segment mapping to delta values, for the Unicode BMP.
func parseCMapFormat4(b binarySegm) (map[rune]GlyphIndex, error) {
	segCountX2, err := b.u16(6)
	if err != nil || segCountX2&1 != 0 {
		return nil, errFontFormat("cmap format 4 segment count")
	}
	segCount := int(segCountX2 / 2)
	const endCodes = 14
	startCodes := endCodes + 2*segCount + 2 // skip reservedPad
	idDeltas := startCodes + 2*segCount
	idRangeOffsets := idDeltas + 2*segCount
	if _, err := b.view(idRangeOffsets, 2*segCount); err != nil {
		return nil, errFontFormat("cmap format 4 segment arrays")
	}
	m := make(map[rune]GlyphIndex)
	for i := 0; i < segCount; i++ {
		end := b.U16(endCodes + 2*i)
		start := b.U16(startCodes + 2*i)
		delta := b.U16(idDeltas + 2*i)
		rangeOffsetPos := idRangeOffsets + 2*i
		rangeOffset := b.U16(rangeOffsetPos)
		if start > end {
			continue
		}
		for c := uint32(start); c <= uint32(end); c++ {
			if c == 0xffff {
				break
			}
			var g uint16
			if rangeOffset == 0 {
				g = uint16(c) + delta
			} else {
				addr := rangeOffsetPos + int(rangeOffset) + 2*int(uint16(c)-start)
				gg, err := b.u16(addr)
				if err != nil {
					return nil, errFontFormat(fmt.Sprintf("cmap format 4 glyph array at %d", addr))
				}
				if gg != 0 {
					g = gg + delta
				}
			}
			if g != 0 {
				m[rune(c)] = GlyphIndex(g)
			}
		}
	}
	return m, nil
}

// Format 6: trimmed table mapping.
func parseCMapFormat6(b binarySegm) (map[rune]GlyphIndex, error) {
	first, count := int(b.U16(6)), int(b.U16(8))
	if count > 0 {
		if _, err := b.view(10, 2*count); err != nil {
			return nil, errFontFormat("cmap format 6 glyph array")
		}
	}
	m := make(map[rune]GlyphIndex, count)
	for i := 0; i < count; i++ {
		if g := b.U16(10 + 2*i); g != 0 {
			m[rune(first+i)] = GlyphIndex(g)
		}
	}
	return m, nil
}

// Format 12: segmented coverage, for the full Unicode range.
func parseCMapFormat12(b binarySegm) (map[rune]GlyphIndex, error) {
	numGroups, err := b.u32(12)
	if err != nil {
		return nil, errFontFormat("cmap format 12 header")
	}
	if _, err := b.view(16, int(numGroups)*12); numGroups > 0 && err != nil {
		return nil, errFontFormat("cmap format 12 groups")
	}
	m := make(map[rune]GlyphIndex)
	for i := 0; i < int(numGroups); i++ {
		g := 16 + 12*i
		start, end, startGlyph := b.U32(g), b.U32(g+4), b.U32(g+8)
		if end < start || end > 0x10ffff {
			return nil, errFontFormat("cmap format 12 group range")
		}
		for c := start; c <= end; c++ {
			if gid := startGlyph + (c - start); gid != 0 && gid <= 0xffff {
				m[rune(c)] = GlyphIndex(gid)
			}
		}
	}
	return m, nil
}
