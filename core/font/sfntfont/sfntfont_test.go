package sfntfont

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func TestParseGoRegular(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nameplate.fonts")
	defer teardown()
	//
	tab, err := Parse(goregular.TTF)
	require.NoError(t, err)
	assert.Greater(t, tab.Len(), 150)
	assert.Equal(t, 2048.0, tab.Metrics.UnitsPerEm)
	assert.Greater(t, tab.Metrics.Ascent, 0.0)
	_, ok := tab.Glyph(' ')
	assert.False(t, ok, "space has no outline")
	a, ok := tab.Glyph('A')
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(a.Outline, "M"))
	assert.True(t, strings.HasSuffix(a.Outline, "Z"))
	assert.Greater(t, a.Advance, 0.0)
}

func TestRanges(t *testing.T) {
	tab, err := Parse(goregular.TTF, Range{'0', '9'})
	require.NoError(t, err)
	assert.Equal(t, []rune("0123456789"), tab.Runes())
}

func TestNotAFont(t *testing.T) {
	_, err := Parse([]byte("\x00\x01\x00\x00garbage"))
	assert.True(t, errors.Is(err, core.ErrParse))
}

func TestPathData(t *testing.T) {
	p := func(x, y int) fixed.Point26_6 { return fixed.P(x, y) }
	segs := sfnt.Segments{
		{Op: sfnt.SegmentOpMoveTo, Args: [3]fixed.Point26_6{p(0, 0)}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{p(10, -20)}},
		{Op: sfnt.SegmentOpQuadTo, Args: [3]fixed.Point26_6{p(15, -25), p(20, 0)}},
		{Op: sfnt.SegmentOpMoveTo, Args: [3]fixed.Point26_6{p(1, 1)}},
	}
	assert.Equal(t, "M0 0 L10 20 Q15 25 20 0 Z M1 -1 Z", PathData(segs))
}
