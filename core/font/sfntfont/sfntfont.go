/*
Package sfntfont reads glyph tables from TrueType and OpenType fonts.

Outlines are extracted with golang.org/x/image/font/sfnt and converted to
SVG path data in design units, y-up, just as if they had been read from an
SVG font. Only a configurable set of code point ranges is converted, as
plates carry short Latin messages and a CJK font would otherwise produce
tens of thousands of entries.

Glyphs with empty outlines (e.g., space) are not put into the table. They
render as blank gaps, like they do for SVG stroke fonts lacking them.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sfntfont

import (
	"strconv"
	"strings"

	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/font"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// tracer traces with key 'nameplate.fonts'
func tracer() tracing.Trace {
	return tracing.Select("nameplate.fonts")
}

// Range is an inclusive range of code points.
type Range struct {
	From, To rune
}

// Latin is the default coverage: Basic Latin, Latin-1 Supplement and
// Latin Extended-A.
var Latin = []Range{
	{0x0020, 0x007e},
	{0x00a0, 0x00ff},
	{0x0100, 0x017f},
}

// Parse reads a TrueType or OpenType font and converts the glyphs for code
// points in ranges to a glyph table. If ranges is empty, Latin is used.
func Parse(data []byte, ranges ...Range) (*font.Table, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, core.WrapError(core.ErrParse, core.EPARSE, "cannot parse font: %v", err)
	}
	if len(ranges) == 0 {
		ranges = Latin
	}
	var buf sfnt.Buffer
	upem := f.UnitsPerEm()
	ppem := fixed.I(int(upem)) // scale 1:1 to design units
	metrics := font.Metrics{UnitsPerEm: float64(upem)}
	if m, err := f.Metrics(&buf, ppem, xfont.HintingNone); err == nil {
		metrics.Ascent = fromFixed(m.Ascent)
		metrics.Descent = -fromFixed(m.Descent) // y-up
	} else {
		tracer().Errorf("font has no usable metrics: %v", err)
		metrics.Ascent, metrics.Descent = font.DefaultAscent, font.DefaultDescent
	}
	name, err := f.Name(&buf, sfnt.NameIDFull)
	if err != nil {
		name, _ = f.Name(&buf, sfnt.NameIDFamily)
	}
	b := font.NewBuilder(name, font.SFNT, metrics)
	for _, rng := range ranges {
		for r := rng.From; r <= rng.To; r++ {
			gid, err := f.GlyphIndex(&buf, r)
			if err != nil || gid == 0 {
				continue
			}
			segs, err := f.LoadGlyph(&buf, gid, ppem, nil)
			if err != nil {
				tracer().Debugf("cannot load glyph for %#U: %v", r, err)
				continue
			}
			adv := font.NoAdvance
			if a, err := f.GlyphAdvance(&buf, gid, ppem, xfont.HintingNone); err == nil {
				adv = fromFixed(a)
			}
			b.Add(r, PathData(segs), adv)
		}
	}
	t := b.Table()
	tracer().Infof("SFNT font %q: %d glyphs converted", t.Name, t.Len())
	return t, nil
}

// PathData converts glyph segments to SVG path data, flipping the y-down
// segment coordinates to y-up design space. Every contour is closed.
func PathData(segs sfnt.Segments) string {
	var sb strings.Builder
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				sb.WriteString("Z ")
			}
			sb.WriteString("M")
			point(&sb, seg.Args[0])
			open = true
		case sfnt.SegmentOpLineTo:
			sb.WriteString("L")
			point(&sb, seg.Args[0])
		case sfnt.SegmentOpQuadTo:
			sb.WriteString("Q")
			point(&sb, seg.Args[0])
			point(&sb, seg.Args[1])
		case sfnt.SegmentOpCubeTo:
			sb.WriteString("C")
			point(&sb, seg.Args[0])
			point(&sb, seg.Args[1])
			point(&sb, seg.Args[2])
		}
	}
	if open {
		sb.WriteString("Z")
	}
	return strings.TrimSpace(sb.String())
}

func point(sb *strings.Builder, p fixed.Point26_6) {
	sb.WriteString(strconv.FormatFloat(fromFixed(p.X), 'f', -1, 64))
	sb.WriteByte(' ')
	y := -fromFixed(p.Y)
	if y == 0 {
		y = 0 // no negative zero
	}
	sb.WriteString(strconv.FormatFloat(y, 'f', -1, 64))
	sb.WriteByte(' ')
}

func fromFixed(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
