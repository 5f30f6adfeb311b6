package glyphatlas

import (
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/schuko"
)

// Option configures atlas generation.
type Option func(*options)

type options struct {
	rotation     float32 // radians, clockwise
	moveX, moveY float32 // pixels
	normalize    bool
}

// WithRotation rotates every glyph clockwise by an angle, in radians, about
// the glyph origin. Angles ≤ 0 leave glyphs unrotated.
func WithRotation(angle float32) Option {
	return func(o *options) {
		o.rotation = angle
	}
}

// WithMove shifts every glyph by a sub-pixel offset, given in atlas pixels.
// The offset translates the glyph outline before rasterization, so it changes
// the coverage values of the glyph's pixels, not the placement of the
// rendered bitmap within the atlas. Glyph rectangles, baseline offsets and
// metrics are computed from the shifted outline; advance and bearing remain
// unchanged.
func WithMove(dx, dy float32) Option {
	return func(o *options) {
		o.moveX, o.moveY = dx, dy
	}
}

// WithNormalization converts the input text to Unicode normal form C before
// characters are extracted from it.
func WithNormalization(on bool) Option {
	return func(o *options) {
		o.normalize = on
	}
}

// Settings are generation parameters read from a configuration.
type Settings struct {
	Size    float32
	Quality int
	Options []Option
}

// Default settings
const (
	DefaultSize    float32 = 32
	DefaultQuality int     = 5
)

// FromConfig reads generation settings from a configuration. Keys are
//
//	glyphatlas.size        pixel size of glyphs (float)
//	glyphatlas.quality     supersampling factor (int)
//	glyphatlas.rotate      rotation in radians (float)
//	glyphatlas.move-x      horizontal offset in pixels (float)
//	glyphatlas.move-y      vertical offset in pixels (float)
//	glyphatlas.normalize   NFC-normalize input text (bool)
//
// Missing keys keep their defaults. Malformed values result in an error with
// code core.EINVALID.
func FromConfig(conf schuko.Configuration) (Settings, error) {
	s := Settings{Size: DefaultSize, Quality: DefaultQuality}
	if conf == nil {
		return s, nil
	}
	var err error
	float := func(key string, v *float32) {
		str := strings.TrimSpace(conf.GetString(key))
		if str == "" || err != nil {
			return
		}
		f, e := strconv.ParseFloat(str, 32)
		if e != nil {
			err = core.WrapError(e, core.EINVALID, "configuration key %s: not a number", key)
			return
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			err = core.Error(core.EINVALID, "configuration key %s: not a finite number", key)
			return
		}
		*v = float32(f)
	}
	float("glyphatlas.size", &s.Size)
	if str := strings.TrimSpace(conf.GetString("glyphatlas.quality")); str != "" && err == nil {
		q, e := strconv.Atoi(str)
		if e != nil {
			err = core.WrapError(e, core.EINVALID, "configuration key glyphatlas.quality: not an integer")
		}
		s.Quality = q
	}
	var rot, dx, dy float32
	float("glyphatlas.rotate", &rot)
	float("glyphatlas.move-x", &dx)
	float("glyphatlas.move-y", &dy)
	if rot != 0 {
		s.Options = append(s.Options, WithRotation(rot))
	}
	if dx != 0 || dy != 0 {
		s.Options = append(s.Options, WithMove(dx, dy))
	}
	if str := strings.TrimSpace(conf.GetString("glyphatlas.normalize")); str != "" && err == nil {
		on, e := strconv.ParseBool(str)
		if e != nil {
			err = core.WrapError(e, core.EINVALID, "configuration key glyphatlas.normalize: not a boolean")
		}
		s.Options = append(s.Options, WithNormalization(on))
	}
	if err != nil {
		return Settings{Size: DefaultSize, Quality: DefaultQuality}, err
	}
	tracer().Debugf("settings from configuration: size=%.2f, quality=%d, %d options",
		s.Size, s.Quality, len(s.Options))
	return s, nil
}
