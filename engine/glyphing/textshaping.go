/*
Package glyphing lays out a message with the glyphs of a glyph table.

Layout is a flat one-glyph-per-code-point advance-width model: the message
is walked one code point at a time, glyphs are placed along a horizontal
cursor and scaled from design units to canvas units. The glyph group is
then flipped from y-up design space to y-down canvas space exactly once,
measured, and centered around an anchor point of the canvas.

There is no kerning table, no ligature substitution and no complex script
shaping. Grapheme clusters consisting of more than one code point are
laid out code point by code point and reported to the caller.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphing

import (
	"fmt"

	"github.com/npillmayer/nameplate/core/dimen"
	"github.com/npillmayer/nameplate/core/font"
	"github.com/npillmayer/nameplate/core/geom"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nameplate.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("nameplate.glyphs")
}

// Params collects layout parameters. All values are in canvas units.
type Params struct {
	FontSize       float64     // target glyph height, i.e. size of the em square
	Kerning        float64     // extra gap between glyphs
	Anchor         dimen.Point // target center of the laid out text
	MissingAdvance float64     // cursor advance for code points without glyph
}

// DefaultParams returns parameters for a font size, with default anchor
// and missing-glyph advance.
func DefaultParams(fontSize float64) Params {
	return Params{
		FontSize:       fontSize,
		Anchor:         dimen.TextAnchor,
		MissingAdvance: 10,
	}
}

// A PositionedGlyph is a glyph placed on the cursor line. Its outline lives
// in design space; Transform maps it to the (unflipped) canvas space of the
// glyph group.
type PositionedGlyph struct {
	ClusterID int         // position of the code point in the message
	CodePoint rune        // code point of the message
	Glyph     font.Glyph  // glyph from the table, possibly a lowercase fallback
	Origin    float64     // cursor position of the glyph, canvas units
	Transform geom.Matrix // translate(origin,0) scale(scale)
}

func (g PositionedGlyph) String() string {
	return fmt.Sprintf("(%q at %.3f)", g.CodePoint, g.Origin)
}

// Result is the outcome of a layout. It is never modified after creation.
type Result struct {
	Glyphs   []PositionedGlyph // positioned glyphs in message order
	Scale    float64           // design units to canvas units
	Advance  float64           // total cursor advance
	BBox     dimen.Rect        // bounding box of the flipped group, before centering
	Flip     geom.Matrix       // group flip at the ascent line
	Center   geom.Matrix       // translation of the bbox center to the anchor
	Empty    bool              // no geometry has been produced
	Missing  []rune            // code points without a glyph
	Clusters []string          // grapheme clusters of more than one code point
	Anomaly  error             // advisory, if glyphs are present but not visible
}

// Transform returns the complete group transformation, i.e. the centering
// translation applied after the flip.
func (r *Result) Transform() geom.Matrix {
	return r.Center.Multiply(r.Flip)
}

// CenteredBBox returns the bounding box of the group after centering.
func (r *Result) CenteredBBox() dimen.Rect {
	if r.Empty {
		return dimen.Rect{}
	}
	return dimen.Rect{
		TopL: r.Center.Apply(r.BBox.TopL),
		BotR: r.Center.Apply(r.BBox.BotR),
	}
}
