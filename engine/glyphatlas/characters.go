package glyphatlas

import (
	"unicode/utf8"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font/fontregistry"
	"golang.org/x/text/unicode/norm"
)

// Characters decodes UTF-8 text into its sequence of code points, in order
// of the text and including duplicates. Invalid UTF-8 yields an error with
// code core.EINVALID.
func Characters(text string) ([]rune, error) {
	chars := make([]rune, 0, len(text))
	for i := 0; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && w <= 1 {
			return nil, core.Error(core.EINVALID, "invalid UTF-8 at byte position %d", i)
		}
		chars = append(chars, r)
		i += w
	}
	return chars, nil
}

// distinctCharacters returns the distinct code points of a text, in order of
// first occurrence.
func distinctCharacters(text string, normalize bool) ([]rune, error) {
	if normalize && utf8.ValidString(text) {
		text = norm.NFC.String(text)
	}
	chars, err := Characters(text)
	if err != nil {
		return nil, err
	}
	set := linkedhashset.New()
	for _, r := range chars {
		set.Add(r)
	}
	distinct := make([]rune, 0, set.Size())
	for _, v := range set.Values() {
		distinct = append(distinct, v.(rune))
	}
	return distinct, nil
}

// SupportedCharacters returns all characters a font has glyphs for, in order
// of glyph index. If more than one character maps to a glyph, the lowest code
// point is reported.
func SupportedCharacters(fontref string) ([]rune, error) {
	_, ttf, err := fontregistry.GlobalRegistry().Font(fontref)
	if err != nil {
		return nil, err
	}
	return ttf.CMap.Characters(), nil
}
