package scene

import (
	"strings"
	"testing"

	"github.com/npillmayer/nameplate/core/font"
	"github.com/npillmayer/nameplate/core/parameters"
	"github.com/npillmayer/nameplate/core/svgdom"
	"github.com/npillmayer/nameplate/engine/glyphing"
	"github.com/npillmayer/nameplate/engine/sanitize"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func layout(t *testing.T, msg string) *glyphing.Result {
	b := font.NewBuilder("test", font.SVGFont, font.Metrics{UnitsPerEm: 1000, Ascent: 800})
	b.Add('A', "M0 0 L300 700 L600 0", 600)
	b.Add('B', "M100 0 L100 700 L400 700 L400 0 Z", 500)
	r, err := glyphing.Layout(b.Table(), msg, glyphing.DefaultParams(24))
	require.NoError(t, err)
	return r
}

func drawing(t *testing.T) *sanitize.Drawing {
	d, err := sanitize.Sanitize([]byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 360 120">
  <circle id="sun" cx="90" cy="60" r="30" fill="none" stroke="#000"/>
</svg>`), parameters.DefaultPolicy())
	require.NoError(t, err)
	return d
}

func topLevelIDs(s *Scene) []string {
	var ids []string
	for _, n := range svgdom.Elements(s.Document().Root()) {
		ids = append(ids, svgdom.AttrOr(n, "id", "?"))
	}
	return ids
}

func TestEmptyCanvas(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	s := New()
	root := s.Document().Root()
	assert.Equal(t, "360mm", svgdom.AttrOr(root, "width", ""))
	assert.Equal(t, "120mm", svgdom.AttrOr(root, "height", ""))
	assert.Equal(t, "0 0 360 120", svgdom.AttrOr(root, "viewBox", ""))
	assert.Equal(t, []string{BackgroundID}, topLevelIDs(s))
	bg := svgdom.Elements(root)[0]
	assert.Equal(t, "true", svgdom.AttrOr(bg, PreviewOnlyAttr, ""))
	assert.False(t, s.HasDrawing())
	assert.False(t, s.HasText())
}

func TestPlaceText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	s := New()
	r := layout(t, "AB")
	s.PlaceText(r)
	require.True(t, s.HasText())
	root := s.Document().Root()
	g := svgdom.Elements(root)[1]
	assert.Equal(t, TextID, svgdom.AttrOr(g, "id", ""))
	transform := svgdom.AttrOr(g, "transform", "")
	assert.True(t, strings.HasSuffix(transform, "translate(0,19.2) scale(1,-1)"), transform)
	paths := svgdom.Elements(g)
	require.Len(t, paths, 2)
	assert.Equal(t, "scale(0.024)", svgdom.AttrOr(paths[0], "transform", ""))
	assert.Equal(t, "translate(14.4,0) scale(0.024)", svgdom.AttrOr(paths[1], "transform", ""))
	assert.True(t, svgdom.HasClass(paths[0], PreviewStrokeClass))
	assert.Equal(t, "U+0041", svgdom.AttrOr(paths[0], "data-codepoint", ""))
	//
	s.PlaceText(layout(t, "A"))
	assert.Equal(t, []string{BackgroundID, TextID}, topLevelIDs(s), "text is replaced")
	s.PlaceText(layout(t, ""))
	assert.Equal(t, []string{BackgroundID}, topLevelIDs(s), "empty layouts leave no group")
	assert.False(t, s.HasText())
}

func TestDrawingBelowText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	s := New()
	s.PlaceText(layout(t, "A"))
	s.PlaceDrawing(drawing(t))
	assert.Equal(t, []string{BackgroundID, DrawingID, TextID}, topLevelIDs(s))
	s.PlaceDrawing(drawing(t))
	assert.Equal(t, []string{BackgroundID, DrawingID, TextID}, topLevelIDs(s))
	assert.True(t, s.HasDrawing())
}

func TestSceneIsWellFormed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.render")
	defer teardown()
	//
	s := New()
	s.PlaceDrawing(drawing(t))
	s.PlaceText(layout(t, "BAB"))
	data, err := s.Bytes()
	require.NoError(t, err)
	_, err = svgdom.CheckWellFormed(data)
	require.NoError(t, err, string(data))
	doc, err := svgdom.Parse(data)
	require.NoError(t, err)
	assert.Len(t, svgdom.Elements(doc.Root()), 3)
	// clones are independent
	c := s.Clone()
	svgdom.Remove(c.Root(), func(n *html.Node) bool { return true })
	assert.Len(t, topLevelIDs(s), 3)
}
