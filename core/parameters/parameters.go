/*
Package parameters holds render parameters and the configurable policy of
the plate pipeline.

Export-time paint repair and drawing sanitizing encode assumptions about the
quirks of authoring tools. These assumptions are collected in a Policy,
which is read from a schuko configuration, so that clients may adapt them
without touching the pipeline.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/dimen"
	"github.com/npillmayer/nameplate/core/percent"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nameplate.render'
func tracer() tracing.Trace {
	return tracing.Select("nameplate.render")
}

// Render holds the parameters of a single render request.
// Empty paths mean "no drawing" or "no font", respectively.
type Render struct {
	DrawingPath string  // path of drawing asset, optional
	FontPath    string  // path of font asset, optional
	Message     string  // text to set
	FontSize    float64 // target glyph height in canvas units, > 0
	Kerning     float64 // extra gap between glyphs in canvas units
}

// Validate checks r for usable values.
func (r Render) Validate() error {
	if r.FontSize <= 0 || math.IsNaN(r.FontSize) || math.IsInf(r.FontSize, 0) {
		return core.Error(core.EINVALID, "font size must be a positive number, is %g", r.FontSize)
	}
	if math.IsNaN(r.Kerning) || math.IsInf(r.Kerning, 0) {
		return core.Error(core.EINVALID, "kerning must be a finite number, is %g", r.Kerning)
	}
	return nil
}

// WantsDrawing is true if r requests a drawing.
func (r Render) WantsDrawing() bool {
	return strings.TrimSpace(r.DrawingPath) != ""
}

// WantsText is true if r requests text to be set with a font.
func (r Render) WantsText() bool {
	return strings.TrimSpace(r.FontPath) != ""
}

// --- Policy ----------------------------------------------------------------

// Policy collects the tunable constants of the pipeline.
type Policy struct {
	StrokeColor        string          // visible outline colour for repaired shapes
	StrokeFloor        float64         // minimum stroke width of shapes, canvas units
	GlyphStrokeFloor   float64         // minimum stroke width of glyph outlines
	BackgroundCoverage percent.Percent // rect coverage of viewport to count as background
	OffCanvasFactor    float64         // rects farther away than factor × viewport are dropped
	Anchor             dimen.Point     // target center of laid out text
	MissingAdvance     float64         // cursor advance for missing glyphs
	Debounce           time.Duration   // quiet period before re-rendering
	AppKey             string          // application key for cache directories
}

// Configuration keys
const (
	KeyStrokeColor        = "export.stroke-color"
	KeyStrokeFloor        = "export.stroke-floor"
	KeyGlyphStrokeFloor   = "export.glyph-stroke-floor"
	KeyBackgroundCoverage = "sanitize.background-coverage"
	KeyOffCanvasFactor    = "sanitize.offcanvas-factor"
	KeyAnchorX            = "layout.anchor-x"
	KeyAnchorY            = "layout.anchor-y"
	KeyMissingAdvance     = "layout.missing-advance"
	KeyDebounce           = "render.debounce-ms"
	KeyAppKey             = "app-key"
)

// Defaults returns the default configuration. Values are strings, as they
// would be if read from a NestedText configuration file.
func Defaults() testconfig.Conf {
	return testconfig.Conf{
		KeyStrokeColor:        "#000000",
		KeyStrokeFloor:        "0.3",
		KeyGlyphStrokeFloor:   "0.3",
		KeyBackgroundCoverage: "99%",
		KeyOffCanvasFactor:    "2",
		KeyAnchorX:            "270",
		KeyAnchorY:            "60",
		KeyMissingAdvance:     "10",
		KeyDebounce:           "250",
		KeyAppKey:             "nameplate",
	}
}

// DefaultPolicy returns the policy for the default configuration.
func DefaultPolicy() Policy {
	return PolicyFromConfig(Defaults())
}

// PolicyFromConfig reads a policy from a configuration. Keys not set or
// not parsable fall back to their defaults.
func PolicyFromConfig(conf schuko.Configuration) Policy {
	def := Defaults()
	str := func(key string) string {
		if conf != nil && conf.IsSet(key) {
			if s := strings.TrimSpace(conf.GetString(key)); s != "" {
				return s
			}
		}
		return def.GetString(key)
	}
	num := func(key string, min float64) float64 {
		s := str(key)
		if f, err := strconv.ParseFloat(strings.TrimSuffix(s, "mm"), 64); err == nil &&
			!math.IsNaN(f) && !math.IsInf(f, 0) && f >= min {
			return f
		}
		tracer().Errorf("config %s has invalid value %q, using default", key, s)
		f, _ := strconv.ParseFloat(def.GetString(key), 64)
		return f
	}
	p := Policy{
		StrokeColor:      str(KeyStrokeColor),
		StrokeFloor:      num(KeyStrokeFloor, 0),
		GlyphStrokeFloor: num(KeyGlyphStrokeFloor, 0),
		OffCanvasFactor:  num(KeyOffCanvasFactor, 0),
		Anchor:           dimen.Point{X: num(KeyAnchorX, math.Inf(-1)), Y: num(KeyAnchorY, math.Inf(-1))},
		MissingAdvance:   num(KeyMissingAdvance, 0),
		Debounce:         time.Duration(num(KeyDebounce, 0)) * time.Millisecond,
		AppKey:           str(KeyAppKey),
	}
	cov, err := percent.FromString(str(KeyBackgroundCoverage))
	if err != nil || cov == 0 {
		tracer().Errorf("config %s has invalid value, using default", KeyBackgroundCoverage)
		cov, _ = percent.FromString(def.GetString(KeyBackgroundCoverage))
	}
	p.BackgroundCoverage = cov
	return p
}
