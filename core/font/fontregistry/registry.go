package fontregistry

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font"
	"github.com/npillmayer/glyphatlas/core/font/truetype"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
)

// Registry is a type for holding loaded fonts, together with their parsed
// TrueType tables.
type Registry struct {
	sync.Mutex
	fonts map[string]*font.ScalableFont
	faces map[string]*truetype.Font
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold loaded fonts.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty font registry.
func NewRegistry() *Registry {
	fr := &Registry{
		fonts: make(map[string]*font.ScalableFont),
		faces: make(map[string]*truetype.Font),
	}
	return fr
}

// StoreFont pushes a font into the registry if it isn't contained yet.
//
// The font will be stored using the normalized font name as a key. If this
// key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(name string, f *font.ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	key := font.NormalizeFontname(name)
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[key]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, key)
		fr.fonts[key] = f
	}
}

// Font returns a font for a font reference, which may be the name of a font
// stored previously, a file path or the name of a font installed on the
// system. Fonts are loaded and parsed once and cached afterwards.
//
// Fonts which cannot be found or read yield an error with code core.EMISSING,
// broken fonts yield core.EINVALID.
func (fr *Registry) Font(ref string) (*font.ScalableFont, *truetype.Font, error) {
	key := font.NormalizeFontname(ref)
	fr.Lock()
	defer fr.Unlock()
	f, ok := fr.fonts[key]
	if !ok {
		fpath, err := font.Locate(ref)
		if err != nil {
			return nil, nil, err
		}
		if f, err = font.LoadOpenTypeFont(fpath); err != nil {
			return nil, nil, err
		}
		tracer().Infof("registry loaded font %s from %s", f.Fontname, fpath)
		fr.fonts[key] = f
	}
	if ttf, ok := fr.faces[key]; ok {
		return f, ttf, nil
	}
	ttf, err := truetype.Parse(f.Binary)
	if err != nil {
		return nil, nil, core.WrapError(err, core.Code(err), "cannot use font %s", f.Fontname)
	}
	fr.faces[key] = ttf
	return f, ttf, nil
}

// LogFontList is a helper function to dump the list of known fonts in a
// registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	fr.Lock()
	defer fr.Unlock()
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	keys := make([]string, 0, len(fr.fonts))
	for k := range fr.fonts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		f := fr.fonts[k]
		style, weight := GuessStyleAndWeight(f.Filepath)
		_, parsed := fr.faces[k]
		tracer().Infof("font [%s] = %v (style %d, weight %d, parsed=%v)", k, f.Fontname,
			style, weight, parsed)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "xbold", "black":
			return xfont.StyleNormal, xfont.WeightExtraBold
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontfilename, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontfilename, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}
