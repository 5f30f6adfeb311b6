/*
Atlascli renders a glyph atlas for a font and a text, writes it as a PNG
file and lets users inspect glyph metrics interactively.

	atlascli -font DejaVuSans -size 32 -quality 5 -text "Hello" -out atlas.png

Without -font, the built-in Go Sans font is used. Without -text, the atlas
contains the printable ASCII characters.
*/
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"
	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/font"
	"github.com/npillmayer/glyphatlas/core/font/fontregistry"
	"github.com/npillmayer/glyphatlas/engine/glyphatlas"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/image/draw"
	"golang.org/x/text/unicode/runenames"
)

// tracer traces with key 'glyphatlas.atlas'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.atlas")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load, file path or name of installed font")
	size := flag.String("size", "32", "Font size in pixels")
	quality := flag.String("quality", "5", "Supersampling factor, 2 or more")
	rotate := flag.String("rotate", "", "Rotation of glyphs in radians")
	text := flag.String("text", "", "Text to render glyphs for")
	out := flag.String("out", "atlas.png", "Output PNG file")
	zoom := flag.Int("zoom", 1, "Scaling factor for output file")
	flag.Parse()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":        "go",
		"trace.glyphatlas.atlas": *tlevel,
		"trace.glyphatlas.fonts": *tlevel,
		"glyphatlas.size":        *size,
		"glyphatlas.quality":     *quality,
		"glyphatlas.rotate":      *rotate,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	pterm.Info.Println("Welcome to the glyph atlas CLI")
	tracer().Infof("Trace level is %s", *tlevel)
	//
	settings, err := glyphatlas.FromConfig(conf)
	if err != nil {
		pterm.Error.Println(core.UserMessage(err))
		os.Exit(2)
	}
	fontref := *fontname
	if fontref == "" {
		fontref = "Go Sans"
		fontregistry.GlobalRegistry().StoreFont(fontref, font.FallbackFont())
	}
	if *text == "" {
		var b strings.Builder
		for r := ' '; r <= '~'; r++ {
			b.WriteRune(r)
		}
		*text = b.String()
	}
	res, err := glyphatlas.Generate(*text, fontref, settings.Size, settings.Quality, settings.Options...)
	if err != nil {
		pterm.Error.Println(core.UserMessage(err))
		os.Exit(3)
	}
	intp := &Intp{atlas: res, zoom: *zoom}
	intp.summary()
	if err := intp.save(*out); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(4)
	}
	//
	// set up REPL
	repl, err := readline.New("atlas > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(5)
	}
	intp.repl = repl
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	atlas *glyphatlas.Result
	repl  *readline.Instance
	zoom  int
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.execute(strings.Fields(line))
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(args []string) (bool, error) {
	tracer().Debugf("command = %v", args)
	switch strings.ToLower(args[0]) {
	case "quit", "exit":
		return true, nil
	case "glyph", "g":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: glyph <character>")
		}
		r, err := parseChar(args[1])
		if err != nil {
			return false, err
		}
		intp.showGlyph(r)
	case "kern", "k":
		if len(args) < 3 {
			return false, fmt.Errorf("usage: kern <left> <right>")
		}
		l, err := parseChar(args[1])
		if err != nil {
			return false, err
		}
		r, err := parseChar(args[2])
		if err != nil {
			return false, err
		}
		pterm.Printfln("kerning %q %q = %.2f px", l, r, intp.atlas.Kerning(l, r))
	case "chars", "c":
		intp.listGlyphs()
	case "info", "i":
		intp.summary()
		fontregistry.GlobalRegistry().LogFontList()
	case "save", "s":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: save <file.png>")
		}
		return false, intp.save(args[1])
	default:
		help()
	}
	return false, nil
}

// parseChar accepts a single character or a code point, e.g. "U+00E9" or "0xe9".
func parseChar(arg string) (rune, error) {
	if utf8.RuneCountInString(arg) == 1 {
		r, _ := utf8.DecodeRuneInString(arg)
		return r, nil
	}
	s := strings.ToLower(arg)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "u+"), "0x")
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("not a character: %s", arg)
	}
	return rune(n), nil
}

func (intp *Intp) summary() {
	img := intp.atlas.Image()
	pterm.Printfln("font %s at %.1f px, quality %d", intp.atlas.Fontname, intp.atlas.Size, intp.atlas.Quality)
	pterm.Printfln("atlas of %d × %d pixels holds %d glyphs, utilisation %.1f%%",
		img.Rect.Dx(), img.Rect.Dy(), len(intp.atlas.Glyphs()), 100*intp.atlas.Utilisation())
}

func (intp *Intp) showGlyph(r rune) {
	gd, ok := intp.atlas.Glyph(r)
	if !ok {
		pterm.Error.Printfln("%#U is not contained in atlas", r)
		return
	}
	pterm.Info.Printfln("%#U %s (glyph %d)", r, runenames.Name(r), gd.Glyph)
	pterm.Printfln("  rect     = (%d,%d) – (%d,%d)", gd.LeftX, gd.TopY, gd.RightX, gd.BottomY)
	pterm.Printfln("  baseline = %d", gd.OffsetLineY)
	pterm.Printfln("  advance  = %.2f, bearing = %.2f", gd.AdvanceX, gd.Bearing)
}

func (intp *Intp) listGlyphs() {
	data := pterm.TableData{{"char", "name", "glyph", "rect", "advance"}}
	for _, gd := range intp.atlas.Glyphs() {
		data = append(data, []string{
			fmt.Sprintf("%q", gd.Char),
			runenames.Name(gd.Char),
			strconv.Itoa(int(gd.Glyph)),
			fmt.Sprintf("%d×%d @ %d,%d", gd.Dx(), gd.Dy(), gd.LeftX, gd.TopY),
			fmt.Sprintf("%.2f", gd.AdvanceX),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
}

// save writes the atlas as a PNG file, scaled up by the zoom factor.
func (intp *Intp) save(path string) error {
	var img image.Image = intp.atlas.Image()
	if z := intp.zoom; z > 1 {
		src := intp.atlas.Image()
		dst := image.NewGray(image.Rect(0, 0, src.Rect.Dx()*z, src.Rect.Dy()*z))
		draw.NearestNeighbor.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
		img = dst
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err == nil {
		pterm.Info.Printfln("atlas written to %s", path)
	}
	return err
}

func help() {
	pterm.Info.Println("Commands")
	pterm.Println(`
	glyph <c>        show placement and metrics of a character's glyph
	kern <l> <r>     show kerning of a character pair
	chars            list all glyphs of the atlas
	info             show atlas summary and loaded fonts
	save <file.png>  write atlas to a PNG file
	quit             leave the CLI

	Characters may be given literally or as code points, e.g. U+00E9.
	`)
}
