/*
Package scene composes the canvas of a name plate.

A Scene is an SVG document of fixed size 360mm × 120mm with a viewBox of
0 0 360 120, i.e. user units are millimeters. It holds at most one sanitized
drawing and at most one group of laid out glyphs. Scenes are built for
interactive preview: they carry a background fill and inline stroke styling
for glyphs, both of which are marked as preview-only and are stripped on
export.

Scenes are built fresh for every render pass and are not modified by export.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scene

import (
	"fmt"
	"io"

	"github.com/npillmayer/nameplate/core/dimen"
	"github.com/npillmayer/nameplate/core/geom"
	"github.com/npillmayer/nameplate/core/svgdom"
	"github.com/npillmayer/nameplate/engine/glyphing"
	"github.com/npillmayer/nameplate/engine/sanitize"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
)

// tracer traces with key 'nameplate.render'
func tracer() tracing.Trace {
	return tracing.Select("nameplate.render")
}

// Markers for preview-only content.
const (
	// PreviewOnlyAttr marks elements which are stripped on export.
	PreviewOnlyAttr = "data-preview-only"
	// PreviewStrokeClass marks elements whose inline style is preview-only.
	PreviewStrokeClass = "preview-stroke"
)

// IDs of the scene's groups.
const (
	BackgroundID = "background"
	DrawingID    = "drawing"
	TextID       = "text"
)

// Preview styling, not configurable.
const (
	backgroundFill = "#fdfdf8"
	glyphStyle     = "fill:none;stroke:#1f2937;stroke-width:1.5;stroke-linecap:round;" +
		"stroke-linejoin:round;vector-effect:non-scaling-stroke"
)

// Scene is a composed canvas.
type Scene struct {
	doc     *svgdom.Document
	drawing *sanitize.Drawing
	layout  *glyphing.Result
}

// New creates an empty canvas with a preview background.
func New() *Scene {
	w, h := dimen.CanvasWidth, dimen.CanvasHeight
	doc := svgdom.New(
		"xmlns", svgdom.NamespaceSVG,
		"xmlns:xlink", svgdom.NamespaceXLink,
		"version", "1.1",
		"width", fmt.Sprintf("%gmm", w.Millimeters()),
		"height", fmt.Sprintf("%gmm", h.Millimeters()),
		"viewBox", fmt.Sprintf("0 0 %s %s", geom.Num(dimen.Canvas.Width()), geom.Num(dimen.Canvas.Height())),
	)
	bg := svgdom.Element("rect",
		"id", BackgroundID,
		"x", "0", "y", "0",
		"width", geom.Num(dimen.Canvas.Width()),
		"height", geom.Num(dimen.Canvas.Height()),
		"fill", backgroundFill,
		PreviewOnlyAttr, "true",
	)
	doc.Root().AppendChild(bg)
	return &Scene{doc: doc}
}

// Document returns the SVG document of the scene. Clients must not modify
// it; use Clone for this.
func (s *Scene) Document() *svgdom.Document {
	return s.doc
}

// Clone returns a deep copy of the scene's document.
func (s *Scene) Clone() *svgdom.Document {
	return s.doc.Clone()
}

// Drawing returns the placed drawing, or nil.
func (s *Scene) Drawing() *sanitize.Drawing {
	return s.drawing
}

// Layout returns the placed text layout, or nil.
func (s *Scene) Layout() *glyphing.Result {
	return s.layout
}

// HasDrawing is true if a drawing is placed on the canvas.
func (s *Scene) HasDrawing() bool {
	return s.drawing != nil
}

// HasText is true if glyphs are placed on the canvas.
func (s *Scene) HasText() bool {
	return s.layout != nil && !s.layout.Empty
}

// PlaceDrawing puts a sanitized drawing onto the canvas, at the origin and
// unscaled. A scene holds at most one drawing; a second call replaces it.
func (s *Scene) PlaceDrawing(d *sanitize.Drawing) {
	if d == nil {
		return
	}
	s.remove(DrawingID)
	g := svgdom.Clone(d.Group)
	svgdom.SetAttr(g, "id", DrawingID)
	s.insert(g)
	s.drawing = d
	tracer().Debugf("placed drawing with %d elements", d.Len())
}

// PlaceText puts a glyph group onto the canvas. Empty layouts do not
// produce a group. A scene holds at most one glyph group; a second call
// replaces it.
func (s *Scene) PlaceText(r *glyphing.Result) {
	if r == nil {
		return
	}
	s.remove(TextID)
	s.layout = r
	if r.Empty {
		tracer().Debugf("empty layout, no glyph group placed")
		return
	}
	g := svgdom.Element("g",
		"id", TextID,
		"transform", geom.Chain(r.Center, geom.Translate(r.Flip.Translation()), geom.Scale(1, -1)),
	)
	for _, pg := range r.Glyphs {
		p := svgdom.Element("path",
			"d", pg.Glyph.Outline,
			"transform", geom.Chain(geom.Translate(pg.Origin, 0), geom.Scale(r.Scale, r.Scale)),
			"data-codepoint", fmt.Sprintf("U+%04X", pg.CodePoint),
			"class", PreviewStrokeClass,
			"style", glyphStyle,
		)
		g.AppendChild(p)
	}
	s.doc.Root().AppendChild(g)
	tracer().Debugf("placed %d glyphs, transform %q", len(r.Glyphs), svgdom.AttrOr(g, "transform", ""))
}

// insert puts the drawing group behind the glyphs, above the background.
func (s *Scene) insert(g *html.Node) {
	root := s.doc.Root()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if svgdom.AttrOr(c, "id", "") == TextID {
			root.InsertBefore(g, c)
			return
		}
	}
	root.AppendChild(g)
}

func (s *Scene) remove(id string) {
	svgdom.Remove(s.doc.Root(), func(n *html.Node) bool {
		return n.Parent == s.doc.Root() && svgdom.AttrOr(n, "id", "") == id
	})
}

// Render writes the preview document as XML.
func (s *Scene) Render(w io.Writer) error {
	return s.doc.Render(w)
}

// Bytes returns the preview document as XML.
func (s *Scene) Bytes() ([]byte, error) {
	return s.doc.Bytes()
}
