package truetype

// --- Kern table ------------------------------------------------------------

// KernTable gives information about kerning and kern pairs.
// Only horizontal format 0 sub-tables with kerning (not minimum) values are
// interpreted.
type KernTable struct {
	tableBase
	pairs []KernPair
	index map[uint32]int16
}

// KernPair is a kerning value for a pair of glyphs, in font units.
// Positive values move the glyphs apart.
type KernPair struct {
	Left, Right GlyphIndex
	Value       int16
}

// Pairs returns all kern pairs in table order.
func (t *KernTable) Pairs() []KernPair {
	if t == nil {
		return nil
	}
	return t.pairs
}

// Kern returns the kerning value for a pair of glyphs, or 0.
func (t *KernTable) Kern(left, right GlyphIndex) int16 {
	if t == nil {
		return 0
	}
	return t.index[uint32(left)<<16|uint32(right)]
}

// TrueType and OpenType slightly differ on formats of kern tables:
// see https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6kern.html
// and https://docs.microsoft.com/en-us/typography/opentype/spec/kern

// parseKern parses the kern table. There is significant confusion with this table
// concerning format differences between OpenType, TrueType, and fonts in the wild.
// We only support kern table format 0, which should be supported on any
// platform. In the real world, fonts usually have just one kern sub-table, and
// older Windows versions cannot handle more than one.
func parseKern(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	t := &KernTable{tableBase: makeTableBase(tag, b, offset, size), index: make(map[uint32]int16)}
	if size <= 4 {
		return t, nil
	}
	var N, suboffset, subheaderlen int
	apple := false
	if version := u32(b); version == 0x00010000 {
		tracer().Debugf("font has Apple TTF kern table format")
		N, suboffset, subheaderlen = int(b.U32(4)), 8, 8
		apple = true
	} else {
		tracer().Debugf("font has OTF (MS) kern table format")
		N, suboffset, subheaderlen = int(b.U16(2)), 4, 6
	}
	tracer().Debugf("kern table has %d sub-tables", N)
	for i := 0; i < N; i++ {
		if suboffset+subheaderlen+8 > int(size) { // check for sub-table header size
			return nil, errFontFormat("kern table format")
		}
		var length int
		var format, coverage uint16
		if apple {
			length = int(b.U32(suboffset))
			coverage = b.U16(suboffset + 4)
			format = coverage & 0x00ff
			coverage = coverage >> 8 // 0x80 vertical, 0x40 cross-stream
		} else {
			length = int(b.U16(suboffset + 2))
			coverage = b.U16(suboffset + 4)
			format = coverage >> 8
			coverage = coverage & 0x00ff // 0x01 horizontal, 0x02 minimum, 0x04 cross-stream
		}
		horizontal := (apple && coverage&0xc0 == 0) || (!apple && coverage&0x01 != 0 && coverage&0x06 == 0)
		body := suboffset + subheaderlen
		kerncnt := int(b.U16(body))
		// For some fonts, size calculation of kern sub-tables is off; see
		// https://github.com/fonttools/fonttools/issues/314#issuecomment-118116527
		// We trust the number of pairs.
		sz := subheaderlen + 8 + kerncnt*6
		if sz != length {
			tracer().Infof("kern sub-table size should be 0x%x, but given as 0x%x; fixing",
				sz, length)
		}
		if suboffset+sz > int(size) {
			return nil, errFontFormat("kern sub-table size exceeds kern table bounds")
		}
		if format != 0 || !horizontal {
			tracer().Infof("kern sub-table format %d/coverage 0x%x not supported, ignoring sub-table",
				format, coverage)
		} else {
			pairs := b[body+8 : body+8+kerncnt*6]
			for j := 0; j < kerncnt; j++ {
				p := pairs[j*6:]
				kp := KernPair{
					Left:  GlyphIndex(u16(p)),
					Right: GlyphIndex(u16(p[2:])),
					Value: int16(u16(p[4:])),
				}
				t.pairs = append(t.pairs, kp)
				t.index[uint32(kp.Left)<<16|uint32(kp.Right)] = kp.Value
			}
		}
		suboffset += sz
	}
	tracer().Debugf("table kern has %d pairs", len(t.pairs))
	return t, nil
}
