package svgdom

import (
	"errors"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const inkscapeDrawing = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
     xmlns:xlink="http://www.w3.org/1999/xlink" width="360mm" height="120mm" viewBox="0 0 360 120">
  <!-- a comment -->
  <linearGradient id="lg"/>
  <g inkscape:label="Layer 1" inkscape:groupmode="layer">
    <path d="M10 10 L80 80" style="fill:none;stroke:#ff0000"/>
    <use xlink:href="#lg"/>
  </g>
</svg>`

func TestCheckWellFormed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.svg")
	defer teardown()
	//
	root, err := CheckWellFormed([]byte(inkscapeDrawing))
	require.NoError(t, err)
	assert.Equal(t, "svg", root)
	for _, bad := range []string{
		"",
		"this is not a drawing",
		"<svg><g></svg>",
		"<svg></svg><svg></svg>",
		"<svg><path d='M0 0'/>",
	} {
		_, err := CheckWellFormed([]byte(bad))
		assert.True(t, errors.Is(err, ErrNotWellFormed), "expected %q to be rejected", bad)
	}
}

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.svg")
	defer teardown()
	//
	d, err := Parse([]byte(inkscapeDrawing))
	require.NoError(t, err)
	assert.Equal(t, "0 0 360 120", AttrOr(d.Root(), "viewBox", ""), "viewBox should keep its SVG spelling")
	lg := Elements(d.Root())[0]
	assert.Equal(t, "linearGradient", lg.Data)
	g := Elements(d.Root())[1]
	v, ok := Attr(g, "inkscape:label")
	assert.True(t, ok)
	assert.Equal(t, "Layer 1", v)
	use := cascadia.MustCompile("use").MatchFirst(d.Root())
	require.NotNil(t, use)
	href, _ := Attr(use, "xlink:href")
	assert.Equal(t, "#lg", href)
	_, err = Parse([]byte(`<html><body/></html>`))
	assert.True(t, errors.Is(err, ErrNoSVGRoot))
}

func TestPropertyPrecedence(t *testing.T) {
	d, err := Parse([]byte(`<svg><path fill="red" style="fill: blue; stroke-width: 2"/></svg>`))
	require.NoError(t, err)
	p := Elements(d.Root())[0]
	fill, _ := Property(p, "fill")
	assert.Equal(t, "blue", fill, "inline style wins over presentation attribute")
	SetProperty(p, "fill", "none")
	fill, _ = Property(p, "fill")
	assert.Equal(t, "none", fill)
	assert.Equal(t, "stroke-width:2", AttrOr(p, "style", ""))
	SetProperty(p, "stroke-width", "0.3")
	_, ok := Attr(p, "style")
	assert.False(t, ok, "empty style attribute should be removed")
}

func TestRenderRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.svg")
	defer teardown()
	//
	d, err := Parse([]byte(inkscapeDrawing))
	require.NoError(t, err)
	out, err := d.Clone().Bytes()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "<?xml"))
	assert.Contains(t, string(out), `viewBox="0 0 360 120"`)
	assert.Contains(t, string(out), `xlink:href="#lg"`)
	_, err = CheckWellFormed(out)
	assert.NoError(t, err)
	again, err := Parse(out)
	require.NoError(t, err)
	assert.Len(t, Elements(again.Root()), 2)
}

func TestNewAndRemove(t *testing.T) {
	d := New("width", "360mm", "viewBox", "0 0 360 120")
	g := Element("g", "id", "glyphs")
	g.AppendChild(Element("path", "d", "M0 0", "class", "preview-stroke x"))
	g.AppendChild(Element("rect", "width", "1"))
	d.Root().AppendChild(g)
	assert.True(t, HasClass(g.FirstChild, "preview-stroke"))
	n := Remove(d.Root(), func(e *html.Node) bool { return IsElement(e, "rect") })
	assert.Equal(t, 1, n)
	assert.Len(t, Elements(g), 1)
	c := Clone(g)
	SetAttr(c, "id", "copy")
	assert.Equal(t, "glyphs", AttrOr(g, "id", ""), "clone must not share attributes")
}
