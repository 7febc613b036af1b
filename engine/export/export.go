/*
Package export normalizes a composed scene for archival and fabrication.

The preview of a scene relies on rendering defaults and affordances which
downstream viewers and plotting tools do not share. Export works on a copy
of the scene's document and applies these rewrites:

  - elements marked preview-only are removed, as is preview-only inline
    styling of glyph outlines
  - remaining full-canvas rectangles are removed anywhere in the tree
  - elements and attributes with undeclared namespace prefixes are removed
  - shapes with both fill and stroke set to "none", and shapes without any
    paint at all, are drawn as visible outlines
  - stroke widths are held at a minimum and enforced strokes are marked as
    non-scaling

Paint is resolved from presentation attributes and inline style, including
inherited values. Normalization is idempotent.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package export

import (
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/nameplate/core/dimen"
	"github.com/npillmayer/nameplate/core/geom"
	"github.com/npillmayer/nameplate/core/parameters"
	"github.com/npillmayer/nameplate/core/svgdom"
	"github.com/npillmayer/nameplate/engine/sanitize"
	"github.com/npillmayer/nameplate/engine/scene"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
)

// tracer traces with key 'nameplate.svg'
func tracer() tracing.Trace {
	return tracing.Select("nameplate.svg")
}

var (
	previewOnly   = cascadia.MustCompile("[" + scene.PreviewOnlyAttr + "]")
	previewStroke = cascadia.MustCompile("." + scene.PreviewStrokeClass)
	rects         = cascadia.MustCompile("rect")
	shapes        = cascadia.MustCompile("path, rect, circle, ellipse, line, polyline, polygon")
)

// Stats reports the rewrites of a normalization run.
type Stats struct {
	PreviewRemoved    int // preview-only elements removed
	PreviewUnstyled   int // elements with preview-only styling removed
	BackgroundRemoved int // full-canvas rectangles removed
	ForeignRemoved    int // elements and attributes with undeclared prefixes
	Outlined          int // shapes repainted as visible outlines
	StrokesEnforced   int // strokes raised to the floor
}

// Changes returns the total number of rewrites.
func (s Stats) Changes() int {
	return s.PreviewRemoved + s.PreviewUnstyled + s.BackgroundRemoved + s.ForeignRemoved +
		s.Outlined + s.StrokesEnforced
}

// Document is a normalized export document.
type Document struct {
	doc   *svgdom.Document
	Stats Stats
}

// Export normalizes a copy of a scene. The scene is not modified.
func Export(s *scene.Scene, policy parameters.Policy) *Document {
	doc := s.Clone()
	stats := Normalize(doc, policy)
	tracer().Infof("export: %+v", stats)
	return &Document{doc: doc, Stats: stats}
}

// SVG returns the normalized SVG document.
func (d *Document) SVG() *svgdom.Document {
	return d.doc
}

// Render writes the export document as XML.
func (d *Document) Render(w io.Writer) error {
	return d.doc.Render(w)
}

// Bytes returns the export document as XML.
func (d *Document) Bytes() ([]byte, error) {
	return d.doc.Bytes()
}

// Normalize applies the export rewrites to doc, in place.
func Normalize(doc *svgdom.Document, policy parameters.Policy) Stats {
	var stats Stats
	root := doc.Root()
	stats.PreviewRemoved = svgdom.Remove(root, previewOnly.Match)
	for _, n := range svgdom.Select(root, previewStroke) {
		svgdom.RemoveAttr(n, "style")
		removeClass(n, scene.PreviewStrokeClass)
		stats.PreviewUnstyled++
	}
	stats.BackgroundRemoved = svgdom.Remove(root, func(n *html.Node) bool {
		return rects.Match(n) && sanitize.IsBackground(n, dimen.Canvas, policy)
	})
	stats.ForeignRemoved = removeUndeclared(root, declared(nil, root))
	for _, n := range svgdom.Select(root, shapes) {
		if !rendered(n) {
			continue
		}
		if repaint(n, policy) {
			stats.Outlined++
		}
		if enforceStroke(n, policy) {
			stats.StrokesEnforced++
		}
	}
	return stats
}

// --- Paint -----------------------------------------------------------------

// resolve finds the value of an inheritable property for n, looking at n
// and its ancestors.
func resolve(n *html.Node, prop string) (string, bool) {
	for ; n != nil && n.Type == html.ElementNode; n = n.Parent {
		if v, ok := svgdom.Property(n, prop); ok && v != "inherit" {
			return v, true
		}
	}
	return "", false
}

// repaint turns shapes with double-none or missing paint into outlines.
func repaint(n *html.Node, policy parameters.Policy) bool {
	fill, hasFill := resolve(n, "fill")
	stroke, hasStroke := resolve(n, "stroke")
	doubleNone := hasFill && hasStroke && fill == "none" && stroke == "none"
	unpainted := !hasFill && !hasStroke
	if !doubleNone && !unpainted {
		return false
	}
	tracer().Debugf("outlining <%s id=%q>", n.Data, svgdom.AttrOr(n, "id", ""))
	svgdom.SetProperty(n, "fill", "none")
	svgdom.SetProperty(n, "stroke", policy.StrokeColor)
	return true
}

// enforceStroke holds the visible stroke width of a stroked shape at the
// floor. Widths are measured in canvas units, i.e. scaled by the transforms
// of the shape and its ancestors, unless the stroke is non-scaling.
func enforceStroke(n *html.Node, policy parameters.Policy) bool {
	if stroke, ok := resolve(n, "stroke"); !ok || stroke == "none" {
		return false
	}
	floor := policy.StrokeFloor
	if inText(n) {
		floor = policy.GlyphStrokeFloor
	}
	if floor <= 0 {
		return false
	}
	width, ok := strokeWidth(n)
	if ok {
		if ve, _ := svgdom.Property(n, "vector-effect"); ve != "non-scaling-stroke" {
			width *= ctm(n).MeanScale()
		}
		if width >= floor-1e-9 {
			return false
		}
	}
	svgdom.SetProperty(n, "stroke-width", geom.Num(floor))
	svgdom.SetProperty(n, "vector-effect", "non-scaling-stroke")
	return true
}

// strokeWidth resolves the stroke width of n, in the user units of n.
// Widths which cannot be read are reported as not ok.
func strokeWidth(n *html.Node) (float64, bool) {
	s, ok := resolve(n, "stroke-width")
	if !ok {
		return 1, true // SVG initial value
	}
	w, err := svgdom.ParseLength(s)
	if err != nil || w < 0 {
		return 0, false
	}
	return w, true
}

// ctm returns the accumulated transformation of n. Unreadable transform
// attributes are ignored.
func ctm(n *html.Node) geom.Matrix {
	m := geom.Identity
	for ; n != nil && n.Type == html.ElementNode; n = n.Parent {
		if t, ok := svgdom.Attr(n, "transform"); ok {
			tm, err := geom.ParseTransform(t)
			if err != nil {
				tracer().Debugf("ignoring transform: %v", err)
				continue
			}
			m = tm.Multiply(m)
		}
	}
	return m
}

// rendered is false for shapes which are only referenced, e.g. clip paths.
func rendered(n *html.Node) bool {
	for p := n.Parent; p != nil && p.Type == html.ElementNode; p = p.Parent {
		switch svgdom.LocalName(p) {
		case "defs", "clipPath", "mask", "marker", "pattern", "symbol":
			return false
		}
	}
	return true
}

func inText(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if svgdom.AttrOr(n, "id", "") == scene.TextID && n.Parent != nil &&
			svgdom.LocalName(n.Parent) == "svg" {
			return true
		}
	}
	return false
}

func removeClass(n *html.Node, cl string) {
	var keep []string
	for _, c := range strings.Fields(svgdom.AttrOr(n, "class", "")) {
		if c != cl {
			keep = append(keep, c)
		}
	}
	if len(keep) == 0 {
		svgdom.RemoveAttr(n, "class")
		return
	}
	svgdom.SetAttr(n, "class", strings.Join(keep, " "))
}

// --- Namespaces ------------------------------------------------------------

// declared returns the namespace prefixes in scope for n, given the
// prefixes in scope for its parent.
func declared(outer map[string]bool, n *html.Node) map[string]bool {
	var scope map[string]bool
	for _, a := range n.Attr {
		qname := svgdom.QName(a)
		if prefix := strings.TrimPrefix(qname, "xmlns:"); prefix != qname {
			if scope == nil {
				scope = map[string]bool{"xml": true, "xmlns": true}
				for p := range outer {
					scope[p] = true
				}
			}
			scope[prefix] = true
		}
	}
	if scope == nil {
		if outer == nil {
			return map[string]bool{"xml": true, "xmlns": true}
		}
		return outer
	}
	return scope
}

// removeUndeclared removes elements and attributes below n which use a
// namespace prefix not declared in scope.
func removeUndeclared(n *html.Node, scope map[string]bool) int {
	count := 0
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			inner := declared(scope, c)
			if p := svgdom.Prefix(c.Data); p != "" && !inner[p] {
				tracer().Debugf("removing element <%s> with undeclared prefix", c.Data)
				n.RemoveChild(c)
				count++
			} else {
				if svgdom.RemoveAttrFunc(c, func(a html.Attribute) bool {
					p := svgdom.Prefix(svgdom.QName(a))
					return p != "" && !inner[p]
				}) {
					count++
				}
				count += removeUndeclared(c, inner)
			}
		}
		c = next
	}
	return count
}
