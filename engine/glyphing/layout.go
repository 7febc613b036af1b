package glyphing

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/nameplate/backend/gfx/svgpath"
	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/dimen"
	"github.com/npillmayer/nameplate/core/font"
	"github.com/npillmayer/nameplate/core/geom"
)

// Layout places the glyphs for message along a cursor line, flips the
// group into canvas space, measures it and computes the translation which
// centers it around p.Anchor.
//
// Layout fails with a core.LayoutError for degenerate metrics or a
// non-positive font size. Code points without a glyph are not an error:
// they advance the cursor by p.MissingAdvance and produce no geometry.
// If glyphs are present but their bounding box has no extent, the result
// carries a core.RenderAnomaly as an advisory.
func Layout(t *font.Table, message string, p Params) (*Result, error) {
	if t == nil {
		return nil, core.LayoutError("no glyph table to lay out message")
	}
	upem := t.Metrics.UnitsPerEm
	if upem <= 0 || math.IsNaN(upem) || math.IsInf(upem, 0) {
		return nil, core.LayoutError("font %q has units-per-em %g", t.Name, upem)
	}
	if p.FontSize <= 0 || math.IsNaN(p.FontSize) || math.IsInf(p.FontSize, 0) {
		return nil, core.LayoutError("font size must be positive, is %g", p.FontSize)
	}
	scale := p.FontSize / upem
	r := &Result{
		Scale:    scale,
		Flip:     geom.Translate(0, t.Metrics.Ascent*scale).Multiply(geom.Scale(1, -1)),
		Center:   geom.Identity,
		Clusters: clusters(message),
	}
	cursor := 0.0
	i := 0
	for _, cp := range message {
		g, ok := t.Lookup(cp)
		if !ok {
			tracer().Debugf("no glyph for %#U", cp)
			r.Missing = append(r.Missing, cp)
			cursor += p.MissingAdvance + p.Kerning
			i++
			continue
		}
		r.Glyphs = append(r.Glyphs, PositionedGlyph{
			ClusterID: i,
			CodePoint: cp,
			Glyph:     g,
			Origin:    cursor,
			Transform: geom.Translate(cursor, 0).Multiply(geom.Scale(scale, scale)),
		})
		cursor += g.Advance*scale + p.Kerning
		i++
	}
	r.Advance = cursor
	if len(r.Glyphs) == 0 {
		r.Empty = true
		tracer().Debugf("layout of %q is empty", message)
		return r, nil
	}
	bbox, ok := r.measure()
	if !ok || bbox.Width() == 0 || bbox.Height() == 0 {
		r.Anomaly = core.RenderAnomaly("glyphs for %q have no visible extent (bbox %s)",
			message, bbox)
		tracer().Infof("render anomaly: %v", r.Anomaly)
	}
	r.BBox = bbox
	c := bbox.Center()
	r.Center = geom.Translate(p.Anchor.X-c.X, p.Anchor.Y-c.Y)
	tracer().Debugf("laid out %d glyphs, bbox %s, centered with %s", len(r.Glyphs), bbox, r.Center)
	return r, nil
}

// measure computes the tight bounding box of the flipped glyph group.
func (r *Result) measure() (dimen.Rect, bool) {
	paths := make([]svgpath.Path, 0, len(r.Glyphs))
	for _, g := range r.Glyphs {
		outline, err := svgpath.Parse(g.Glyph.Outline)
		if err != nil {
			// render what is valid up to the error, as SVG viewers do
			tracer().Errorf("glyph %#U: %v", g.CodePoint, err)
		}
		paths = append(paths, outline.Transform(r.Flip.Multiply(g.Transform)))
	}
	return svgpath.Bounds(paths...)
}

// clusters returns the grapheme clusters of s which consist of more than
// one code point. Line breaks CR LF are not counted.
func clusters(s string) []string {
	if utf8.RuneCountInString(s) < 2 {
		return nil
	}
	var multi []string
	splitter := graphemeSplitter()
	splitter.Init(strings.NewReader(s))
	for splitter.Next() {
		grphm := splitter.Bytes()
		if utf8.RuneCount(grphm) > 1 && string(grphm) != "\r\n" {
			multi = append(multi, string(grphm))
		}
	}
	if len(multi) > 0 {
		tracer().Infof("message contains %d multi-code-point clusters, laid out per code point", len(multi))
	}
	return multi
}
