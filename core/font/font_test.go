package font

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestBuilderInvariants(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.fonts")
	defer teardown()
	//
	m := DefaultMetrics()
	m.DefaultAdvance = 500
	b := NewBuilder("test", SVGFont, m)
	assert.True(t, b.Add('a', "M0 0 L10 10", 420))
	assert.True(t, b.Add('b', "M0 0 L10 10", NoAdvance))
	assert.False(t, b.Add('c', "   ", 300), "empty outline must be skipped")
	tab := b.Table()
	assert.Equal(t, 2, tab.Len())
	g, ok := tab.Glyph('a')
	assert.True(t, ok)
	assert.Equal(t, 420.0, g.Advance)
	g, _ = tab.Glyph('b')
	assert.Equal(t, 500.0, g.Advance, "advance should fall back to font default")
	_, ok = tab.Glyph('c')
	assert.False(t, ok)
	assert.Panics(t, func() { b.Add('d', "M0 0", 1) })
}

func TestAdvanceFallsBackToHardDefault(t *testing.T) {
	b := NewBuilder("test", SVGFont, DefaultMetrics())
	b.Add('x', "M0 0 L1 1", -20)
	b.Add('y', "M0 0 L1 1", 0)
	tab := b.Table()
	g, _ := tab.Glyph('x')
	assert.Equal(t, float64(DefaultAdvance), g.Advance)
	g, _ = tab.Glyph('y')
	assert.Equal(t, float64(DefaultAdvance), g.Advance)
}

func TestZeroAdvanceUsesFontDefault(t *testing.T) {
	m := DefaultMetrics()
	m.DefaultAdvance = 500
	b := NewBuilder("test", SVGFont, m)
	b.Add('A', "M0 0 L1 1", 0)
	g, ok := b.Table().Glyph('A')
	assert.True(t, ok)
	assert.Equal(t, 500.0, g.Advance, "zero advance counts as no advance")
}

func TestLookupLowercaseFallback(t *testing.T) {
	b := NewBuilder("lower", SVGFont, DefaultMetrics())
	b.Add('a', "M0 0 L5 5", 300)
	b.Add('B', "M1 1 L5 5", 300)
	tab := b.Table()
	lower, ok := tab.Lookup('a')
	assert.True(t, ok)
	upper, ok := tab.Lookup('A')
	assert.True(t, ok)
	assert.Equal(t, lower.Outline, upper.Outline)
	_, ok = tab.Lookup('b')
	assert.False(t, ok, "fallback is lowercase only")
	_, ok = tab.Glyph('A')
	assert.False(t, ok, "exact lookup is case sensitive")
}

func TestRunesOrdered(t *testing.T) {
	b := NewBuilder("ordered", SVGFont, DefaultMetrics())
	for _, r := range "zyxCBA" {
		b.Add(r, "M0 0 L1 0", 1)
	}
	assert.Equal(t, []rune("ABCxyz"), b.Table().Runes())
}

func TestSniff(t *testing.T) {
	assert.Equal(t, SFNT, Sniff([]byte("\x00\x01\x00\x00rest")))
	assert.Equal(t, SFNT, Sniff([]byte("OTTO....")))
	assert.Equal(t, SVGFont, Sniff([]byte("<svg><font/></svg>")))
	assert.Equal(t, UnknownFormat, Sniff([]byte("  ")))
}

func TestNormalizeFontname(t *testing.T) {
	assert.Equal(t, "hershey_sans", NormalizeFontname("fonts/Hershey Sans.svg"))
	assert.Equal(t, "caf\u00e9_serif", NormalizeFontname("Caf\u00e9 Serif.ttf"))
	assert.Equal(t, "caf\u00e9_serif", NormalizeFontname("/fonts/CAFE\u0301 SERIF.svg"))
	assert.Equal(t, "strasse", NormalizeFontname("Stra\u00dfe.otf"))
}
