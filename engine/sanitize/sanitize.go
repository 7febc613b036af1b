/*
Package sanitize prepares foreign SVG drawings for embedding on the canvas.

Drawings are authored with vector editors, which leave artifacts in their
documents: metadata, definition blocks, view state of the editor, and
rectangles serving as page backgrounds or as off-page scratch content.
Sanitize filters the top-level children of a drawing's <svg> root and
imports everything else verbatim into a group element. The coordinate
system of the drawing is kept as is; drawings are expected to be authored
at canvas scale.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sanitize

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/dimen"
	"github.com/npillmayer/nameplate/core/parameters"
	"github.com/npillmayer/nameplate/core/svgdom"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
)

// tracer traces with key 'nameplate.svg'
func tracer() tracing.Trace {
	return tracing.Select("nameplate.svg")
}

// Drawing is a sanitized drawing, ready to be put onto the canvas.
type Drawing struct {
	Group      *html.Node        // <g> holding the imported elements
	Viewport   dimen.Rect        // viewport of the source document, user units
	Namespaces map[string]string // namespace declarations of the source root, by prefix
	Dropped    []string          // descriptions of dropped elements
}

// Len returns the number of imported top-level elements.
func (d *Drawing) Len() int {
	return len(svgdom.Elements(d.Group))
}

// Sanitize parses drawing bytes and filters its top-level elements.
// Bytes which are not a well-formed SVG document result in a
// core.DrawingLoadError.
func Sanitize(data []byte, policy parameters.Policy) (*Drawing, error) {
	src, err := svgdom.Parse(data)
	if err != nil {
		return nil, core.DrawingLoadError(err, "drawing cannot be read as SVG")
	}
	root := src.Root()
	d := &Drawing{
		Group:      svgdom.Element("g", "id", "drawing"),
		Viewport:   svgdom.Viewport(root, dimen.Canvas),
		Namespaces: namespaces(root),
	}
	for _, prefix := range sortedKeys(d.Namespaces) {
		svgdom.SetAttr(d.Group, "xmlns:"+prefix, d.Namespaces[prefix])
	}
	tracer().Debugf("drawing viewport is %s", d.Viewport)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue // comments and inter-element whitespace
		}
		if reason := d.artifact(c, policy); reason != "" {
			tracer().Debugf("dropping %s", reason)
			d.Dropped = append(d.Dropped, reason)
			continue
		}
		d.Group.AppendChild(svgdom.Clone(c))
	}
	tracer().Infof("sanitized drawing: %d elements imported, %d dropped", d.Len(), len(d.Dropped))
	return d, nil
}

// artifact checks if a top-level element is an editor artifact. It returns
// a description of the artifact, or "" for drawn content.
func (d *Drawing) artifact(n *html.Node, policy parameters.Policy) string {
	switch name := svgdom.LocalName(n); {
	case name == "metadata" || name == "defs":
		return describe(n)
	case name == "namedview" && svgdom.Prefix(n.Data) != "":
		return describe(n)
	case name == "rect":
		if IsBackground(n, d.Viewport, policy) {
			return describe(n) + " (background)"
		}
		if IsOffCanvas(n, d.Viewport, policy) {
			return describe(n) + " (off-canvas)"
		}
	}
	return ""
}

// IsBackground is a predicate: does a rectangle cover a viewport, i.e. do
// its width and height each cover at least policy.BackgroundCoverage of the
// viewport's dimensions?
func IsBackground(rect *html.Node, viewport dimen.Rect, policy parameters.Policy) bool {
	vw, vh := viewport.Width(), viewport.Height()
	w, wok := svgdom.Length(rect, "width", vw)
	h, hok := svgdom.Length(rect, "height", vh)
	if !wok || !hok || vw <= 0 || vh <= 0 {
		return false
	}
	cov := policy.BackgroundCoverage
	return w >= cov.Of(vw) && h >= cov.Of(vh)
}

// IsOffCanvas is a predicate: is a rectangle positioned farther away from
// the viewport's origin than policy.OffCanvasFactor times the viewport's
// dimensions? The viewport's origin is its top left corner, which is the
// user-space origin only for viewBoxes starting at 0 0.
func IsOffCanvas(rect *html.Node, viewport dimen.Rect, policy parameters.Policy) bool {
	if policy.OffCanvasFactor <= 0 {
		return false
	}
	vw, vh := viewport.Width(), viewport.Height()
	x, _ := svgdom.Length(rect, "x", vw)
	y, _ := svgdom.Length(rect, "y", vh)
	dx, dy := x-viewport.TopL.X, y-viewport.TopL.Y
	return math.Abs(dx) > policy.OffCanvasFactor*vw || math.Abs(dy) > policy.OffCanvasFactor*vh
}

// namespaces collects the prefixed namespace declarations of an element.
func namespaces(n *html.Node) map[string]string {
	ns := make(map[string]string)
	for _, a := range n.Attr {
		qname := svgdom.QName(a)
		if prefix := strings.TrimPrefix(qname, "xmlns:"); prefix != qname && prefix != "" {
			ns[prefix] = a.Val
		}
	}
	return ns
}

func describe(n *html.Node) string {
	if id, ok := svgdom.Attr(n, "id"); ok {
		return fmt.Sprintf("<%s id=%q>", n.Data, id)
	}
	return fmt.Sprintf("<%s>", n.Data)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
