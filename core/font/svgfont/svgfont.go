/*
Package svgfont reads glyph tables from SVG fonts.

An SVG font is an SVG document containing a <font> element with metric
attributes, an optional <font-face> child, and zero or more <glyph>
entries:

	<font horiz-adv-x="500">
	  <font-face units-per-em="1000" ascent="800" descent="-200"/>
	  <glyph unicode="A" d="M0 0 L300 700 L600 0" horiz-adv-x="600"/>
	</font>

Stroke fonts exported by plotter tools use this format, with glyph outlines
meant to be stroked rather than filled.

Glyph entries lacking a character mapping or an outline are skipped. Real
world font exports often contain decorative or non-printable entries, and
these are simply absent from the resulting table.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package svgfont

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/xpath"
	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/font"
	"github.com/npillmayer/nameplate/core/svgdom"
	"github.com/npillmayer/nameplate/core/svgdom/xpathadapter"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
)

// tracer traces with key 'nameplate.fonts'
func tracer() tracing.Trace {
	return tracing.Select("nameplate.fonts")
}

var (
	xpFont     = xpath.MustCompile("//font")
	xpFontFace = xpath.MustCompile("font-face")
	xpGlyphs   = xpath.MustCompile(".//glyph")
)

// Parse reads an SVG font and returns its glyph table.
// If the input contains no <font> element, a core.ParseError is returned.
// If there is more than one font, the first one is used.
func Parse(data []byte) (*font.Table, error) {
	doc, err := svgdom.Parse(data)
	if err != nil {
		if errors.Is(err, svgdom.ErrNoSVGRoot) || errors.Is(err, svgdom.ErrNotWellFormed) {
			return nil, core.ParseError("font description is not an SVG document: %v", err)
		}
		return nil, core.WrapError(err, core.EPARSE, "cannot read font description")
	}
	fnt := xpathadapter.FindOne(doc.Root(), xpFont)
	if fnt == nil {
		return nil, core.ParseError("font description has no <font> element")
	}
	metrics := font.DefaultMetrics()
	metrics.DefaultAdvance = number(fnt, "horiz-adv-x", 0, false)
	name := svgdom.AttrOr(fnt, "id", "")
	if face := xpathadapter.FindOne(fnt, xpFontFace); face != nil {
		metrics.UnitsPerEm = number(face, "units-per-em", font.DefaultUnitsPerEm, true)
		metrics.Ascent = number(face, "ascent", font.DefaultAscent, true)
		metrics.Descent = number(face, "descent", font.DefaultDescent, true)
		if family := strings.TrimSpace(svgdom.AttrOr(face, "font-family", "")); family != "" {
			name = family
		}
	}
	b := font.NewBuilder(name, font.SVGFont, metrics)
	skipped := 0
	for _, g := range xpathadapter.Find(fnt, xpGlyphs) {
		if !addGlyph(b, g) {
			skipped++
		}
	}
	t := b.Table()
	tracer().Infof("SVG font %q: %d glyphs, %d entries skipped", t.Name, t.Len(), skipped)
	return t, nil
}

func addGlyph(b *font.Builder, g *html.Node) bool {
	u, ok := svgdom.Attr(g, "unicode")
	if !ok || u == "" {
		return false
	}
	r, size := utf8.DecodeRuneInString(u)
	if r == utf8.RuneError || size != len(u) {
		// ligature entries map more than one code point to a glyph
		tracer().Debugf("glyph for %q is not a single code point, skipped", u)
		return false
	}
	d, ok := svgdom.Attr(g, "d")
	if !ok {
		return false
	}
	adv := number(g, "horiz-adv-x", font.NoAdvance, false)
	return b.Add(r, d, adv)
}

// number reads a numeric attribute. Missing or malformed values yield dflt;
// so do negative values, unless signed is set.
func number(n *html.Node, key string, dflt float64, signed bool) float64 {
	s, ok := svgdom.Attr(n, key)
	if !ok {
		return dflt
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || (!signed && f < 0) {
		tracer().Debugf("attribute %s=%q unusable, using %g", key, s, dflt)
		return dflt
	}
	return f
}
