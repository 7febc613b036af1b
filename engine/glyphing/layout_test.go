package glyphing

import (
	"errors"
	"testing"

	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/dimen"
	"github.com/npillmayer/nameplate/core/font"
	"github.com/npillmayer/nameplate/core/geom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFont(t *testing.T) *font.Table {
	m := font.Metrics{UnitsPerEm: 1000, Ascent: 800, Descent: -200}
	b := font.NewBuilder("test", font.SVGFont, m)
	b.Add('A', "M0 0 L300 700 L600 0 M150 250 L450 250", 600)
	b.Add('B', "M100 0 L100 700 C400 700 400 350 100 350 C450 350 450 0 100 0", 500)
	b.Add('o', "M300 0 A200 250 0 1 1 300 500 A200 250 0 1 1 300 0 Z", 600)
	b.Add('\u00e9', "M100 0 L500 500 M300 600 L400 700", 600)
	b.Add('-', "M50 300 L450 300", 500) // no height
	return b.Table()
}

func TestScenarioSingleGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.glyphs")
	defer teardown()
	//
	r, err := Layout(testFont(t), "A", DefaultParams(24))
	require.NoError(t, err)
	assert.InDelta(t, 0.024, r.Scale, 1e-12)
	require.Len(t, r.Glyphs, 1)
	assert.Equal(t, 0.0, r.Glyphs[0].Origin)
	flip := geom.Translate(0, 19.2).Multiply(geom.Scale(1, -1))
	for i := range flip {
		assert.InDelta(t, flip[i], r.Flip[i], 1e-12)
	}
	// outline spans x 0…600, y 0…700 in design units: flipped about y=19.2
	assert.InDelta(t, 0, r.BBox.TopL.X, 1e-9)
	assert.InDelta(t, 14.4, r.BBox.BotR.X, 1e-9)
	assert.InDelta(t, 19.2-16.8, r.BBox.TopL.Y, 1e-9)
	assert.InDelta(t, 19.2, r.BBox.BotR.Y, 1e-9)
	c := r.CenteredBBox().Center()
	assert.InDelta(t, 270, c.X, 1e-9)
	assert.InDelta(t, 60, c.Y, 1e-9)
	assert.False(t, r.Empty)
	assert.NoError(t, r.Anomaly)
}

func TestCenteredOnAnchor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.glyphs")
	defer teardown()
	//
	tab := testFont(t)
	for _, msg := range []string{"A", "AB", "oAo", "BoA A", "A?B", "\u00e9o"} {
		for _, kern := range []float64{0, 1.5, 7} {
			for _, size := range []float64{5, 24, 80} {
				p := DefaultParams(size)
				p.Kerning = kern
				r, err := Layout(tab, msg, p)
				require.NoError(t, err)
				c := r.CenteredBBox().Center()
				assert.InDelta(t, dimen.TextAnchor.X, c.X, 1e-9, "message %q", msg)
				assert.InDelta(t, dimen.TextAnchor.Y, c.Y, 1e-9, "message %q", msg)
				mc := r.Center.Apply(r.BBox.Center())
				assert.InDelta(t, dimen.TextAnchor.X, mc.X, 1e-9)
			}
		}
	}
}

func TestAdvanceAccumulation(t *testing.T) {
	tab := testFont(t)
	for _, kern := range []float64{0, 0.5, 3} {
		p := DefaultParams(24)
		p.Kerning = kern
		r, err := Layout(tab, "AB", p)
		require.NoError(t, err)
		require.Len(t, r.Glyphs, 2)
		assert.InDelta(t, 600*0.024+kern, r.Glyphs[1].Origin-r.Glyphs[0].Origin, 1e-12)
		assert.InDelta(t, 600*0.024+500*0.024+2*kern, r.Advance, 1e-12)
	}
}

func TestMissingGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.glyphs")
	defer teardown()
	//
	tab := testFont(t)
	p := DefaultParams(24)
	p.Kerning = 1
	r, err := Layout(tab, "A?A", p)
	require.NoError(t, err)
	require.Len(t, r.Glyphs, 2)
	assert.Equal(t, []rune{'?'}, r.Missing)
	assert.InDelta(t, (14.4+1)+(10+1), r.Glyphs[1].Origin, 1e-12)
	//
	r, err = Layout(tab, "???", p)
	require.NoError(t, err)
	assert.True(t, r.Empty, "only missing glyphs should yield an empty layout")
	assert.Len(t, r.Glyphs, 0)
	assert.NoError(t, r.Anomaly)
}

func TestEmptyMessage(t *testing.T) {
	r, err := Layout(testFont(t), "", DefaultParams(24))
	require.NoError(t, err)
	assert.True(t, r.Empty)
	assert.Len(t, r.Glyphs, 0)
	assert.True(t, r.BBox.IsZero())
	assert.NoError(t, r.Anomaly, "empty is expected, not anomalous")
}

func TestCaseFallback(t *testing.T) {
	tab := testFont(t)
	lower, err := Layout(tab, "o", DefaultParams(24))
	require.NoError(t, err)
	upper, err := Layout(tab, "O", DefaultParams(24))
	require.NoError(t, err)
	require.Len(t, upper.Glyphs, 1)
	assert.Equal(t, lower.Glyphs[0].Glyph.Outline, upper.Glyphs[0].Glyph.Outline)
	assert.Equal(t, 'O', upper.Glyphs[0].CodePoint)
	assert.Equal(t, lower.BBox, upper.BBox)
}

func TestDegenerateMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.glyphs")
	defer teardown()
	//
	b := font.NewBuilder("broken", font.SVGFont, font.Metrics{UnitsPerEm: 0, Ascent: 800})
	b.Add('A', "M0 0 L1 1", 1)
	_, err := Layout(b.Table(), "A", DefaultParams(24))
	assert.True(t, errors.Is(err, core.ErrLayout))
	_, err = Layout(testFont(t), "A", DefaultParams(0))
	assert.True(t, errors.Is(err, core.ErrLayout))
	_, err = Layout(nil, "A", DefaultParams(24))
	assert.True(t, errors.Is(err, core.ErrLayout))
}

func TestRenderAnomaly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.glyphs")
	defer teardown()
	//
	r, err := Layout(testFont(t), "-", DefaultParams(24))
	require.NoError(t, err, "anomalies are advisories, not errors")
	assert.False(t, r.Empty)
	assert.True(t, errors.Is(r.Anomaly, core.ErrRenderAnomaly))
	assert.True(t, core.IsAdvisory(r.Anomaly))
}

func TestClustersLaidOutPerCodePoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.glyphs")
	defer teardown()
	//
	m := font.Metrics{UnitsPerEm: 1000, Ascent: 800, Descent: -200}
	b := font.NewBuilder("accents", font.SVGFont, m)
	b.Add('e', "M100 0 L400 500", 500)
	b.Add('\u00e9', "M100 0 L400 500 M300 600 L400 700", 500)
	tab := b.Table()
	p := DefaultParams(24)
	p.Kerning = 1
	r, err := Layout(tab, "e\u0301", p)
	require.NoError(t, err)
	require.Len(t, r.Glyphs, 1, "combining mark must not be composed")
	assert.Equal(t, 'e', r.Glyphs[0].CodePoint)
	assert.Equal(t, []rune{'\u0301'}, r.Missing)
	assert.Equal(t, []string{"e\u0301"}, r.Clusters)
	assert.InDelta(t, 500*0.024+p.Kerning+p.MissingAdvance+p.Kerning, r.Advance, 1e-12)
	//
	r, err = Layout(tab, "\u00e9", p)
	require.NoError(t, err)
	require.Len(t, r.Glyphs, 1)
	assert.Equal(t, '\u00e9', r.Glyphs[0].CodePoint)
	assert.Len(t, r.Missing, 0)
	assert.Len(t, r.Clusters, 0)
	//
	r, err = Layout(testFont(t), "Ao\u0331", DefaultParams(24))
	require.NoError(t, err)
	assert.Equal(t, []string{"o\u0331"}, r.Clusters)
	assert.Equal(t, []rune{'\u0331'}, r.Missing)
}

func TestZeroAdvanceGlyph(t *testing.T) {
	m := font.Metrics{UnitsPerEm: 1000, Ascent: 800, DefaultAdvance: 500}
	b := font.NewBuilder("zero", font.SVGFont, m)
	b.Add('A', "M0 0 L300 700 L600 0", 0)
	r, err := Layout(b.Table(), "AA", DefaultParams(24))
	require.NoError(t, err)
	require.Len(t, r.Glyphs, 2)
	assert.InDelta(t, 500*0.024, r.Glyphs[1].Origin, 1e-12)
}
