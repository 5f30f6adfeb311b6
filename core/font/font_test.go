package font

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/image/font/gofont/goregular"
)

func TestNormalizeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	for k, v := range map[string]string{
		"fonts/Clarendon-bold.ttf":               "clarendon-bold",
		"Microsoft/Gill Sans MT Bold Italic.ttf": "gill_sans_mt_bold_italic",
		"  Cambria Math ":                        "cambria_math",
	} {
		if n := NormalizeFontname(k); n != v {
			t.Errorf("expected normalized name of %q to be %q, is %q", k, v, n)
		}
	}
}

func TestLoadFontFromFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "goregular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	f, err := LoadOpenTypeFont(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("loaded font %q", f.Fontname)
	if f.Filepath != path {
		t.Errorf("expected font path to be %s, is %s", path, f.Filepath)
	}
	if len(f.Binary) != len(goregular.TTF) {
		t.Errorf("expected binary of %d bytes, have %d", len(goregular.TTF), len(f.Binary))
	}
	if p, err := Locate(path); err != nil || p != path {
		t.Errorf("expected existing file to be located as-is, got %q, %v", p, err)
	}
}

func TestLoadMissingFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphatlas.fonts")
	defer teardown()
	//
	_, err := LoadOpenTypeFont(filepath.Join(t.TempDir(), "does-not-exist.ttf"))
	if core.Code(err) != core.EMISSING {
		t.Errorf("expected EMISSING for missing font file, got %v", err)
	}
	garbage := filepath.Join(t.TempDir(), "garbage.ttf")
	if err := os.WriteFile(garbage, []byte("no font at all"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadOpenTypeFont(garbage)
	if core.Code(err) != core.EINVALID {
		t.Errorf("expected EINVALID for broken font file, got %v", err)
	}
	if _, err := Locate(""); core.Code(err) != core.EMISSING {
		t.Errorf("expected EMISSING for empty font reference, got %v", err)
	}
}

func TestFallbackFont(t *testing.T) {
	f := FallbackFont()
	if f == nil || f.SFNT == nil {
		t.Fatal("fallback font should always be present")
	}
	if f.Fontname != "Go Sans" {
		t.Errorf("expected fallback font to be Go Sans, is %s", f.Fontname)
	}
}
