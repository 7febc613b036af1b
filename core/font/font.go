/*
Package font is for stroke-font and glyph-table handling.

We will stick to the following definitions:

* A "glyph" is a single character's outline description plus its horizontal
advance width, in font design units.

* A "glyph table" maps code points to glyphs. It is built once per font
load and is immutable thereafter, so it may be shared freely between
render passes.

* "Design units" are the font's internal coordinate space, which is
conventionally y-up. Layout scales them to canvas units by
fontSize / unitsPerEm.

The font model is a flat one-glyph-per-code-point model with advance widths.
There is no kerning, no ligature substitution and no hinting.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"bytes"
	"fmt"
	"math"
	"path"
	"strings"
	"unicode"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// tracer traces with key 'nameplate.fonts'
func tracer() tracing.Trace {
	return tracing.Select("nameplate.fonts")
}

// Fallback values for font metrics and advance widths, in design units.
const (
	DefaultUnitsPerEm = 1024
	DefaultAscent     = 800
	DefaultDescent    = 0
	DefaultAdvance    = 600
)

// NoAdvance denotes a glyph without an advance width of its own.
const NoAdvance = -1.0

// Metrics holds the font-wide metric values in design units.
// DefaultAdvance <= 0 means the font does not define one.
type Metrics struct {
	UnitsPerEm     float64
	Ascent         float64
	Descent        float64
	DefaultAdvance float64
}

// DefaultMetrics returns metrics with documented fallback values.
func DefaultMetrics() Metrics {
	return Metrics{
		UnitsPerEm: DefaultUnitsPerEm,
		Ascent:     DefaultAscent,
		Descent:    DefaultDescent,
	}
}

func (m Metrics) String() string {
	return fmt.Sprintf("[upem=%g ascent=%g descent=%g adv=%g]",
		m.UnitsPerEm, m.Ascent, m.Descent, m.DefaultAdvance)
}

// Glyph is a single code point's outline plus its advance width.
// Outline is SVG path data in design units, y-up.
type Glyph struct {
	Rune    rune
	Outline string
	Advance float64
}

// Format identifies a font container format.
type Format int

const (
	UnknownFormat Format = iota
	SVGFont
	SFNT
)

func (f Format) String() string {
	switch f {
	case SVGFont:
		return "SVG font"
	case SFNT:
		return "SFNT"
	}
	return "unknown"
}

// Sniff guesses the container format of font bytes.
// Everything not starting with an SFNT tag is taken to be an SVG font.
func Sniff(data []byte) Format {
	if len(data) >= 4 {
		switch string(data[:4]) {
		case "OTTO", "true", "ttcf", "\x00\x01\x00\x00":
			return SFNT
		}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return UnknownFormat
	}
	return SVGFont
}

// --- Glyph table -----------------------------------------------------------

// Table is an immutable glyph table. Entries are kept in code point order.
type Table struct {
	Name    string
	Format  Format
	Metrics Metrics
	glyphs  *treemap.Map // rune -> Glyph
}

// Builder collects glyphs for a table. A builder must not be used after
// Table() has been called.
type Builder struct {
	t    *Table
	done bool
}

// NewBuilder creates a builder for a table with given name and metrics.
func NewBuilder(name string, format Format, metrics Metrics) *Builder {
	return &Builder{
		t: &Table{
			Name:    name,
			Format:  format,
			Metrics: metrics,
			glyphs:  treemap.NewWith(utils.RuneComparator),
		},
	}
}

// Add puts a glyph into the table under construction. Glyphs with an empty
// outline are skipped and Add returns false. An advance of NoAdvance, or
// any other non-positive or non-numeric value, falls back to the font's
// default advance, then to DefaultAdvance.
// A later entry for the same code point replaces an earlier one.
func (b *Builder) Add(r rune, outline string, advance float64) bool {
	if b.done {
		panic("font table builder used after table creation")
	}
	outline = strings.TrimSpace(outline)
	if outline == "" {
		tracer().Debugf("glyph %#U has no outline, skipped", r)
		return false
	}
	if advance <= 0 || math.IsNaN(advance) || math.IsInf(advance, 0) {
		advance = b.t.Metrics.DefaultAdvance
		if advance <= 0 || math.IsNaN(advance) || math.IsInf(advance, 0) {
			advance = DefaultAdvance
		}
	}
	b.t.glyphs.Put(r, Glyph{Rune: r, Outline: outline, Advance: advance})
	return true
}

// Table returns the finished table.
func (b *Builder) Table() *Table {
	b.done = true
	tracer().Debugf("font %q has %d glyphs, metrics %s", b.t.Name, b.t.Len(), b.t.Metrics)
	return b.t
}

// Len returns the number of glyphs in t.
func (t *Table) Len() int {
	if t == nil || t.glyphs == nil {
		return 0
	}
	return t.glyphs.Size()
}

// Glyph returns the glyph for code point r, if present. Matching is case
// sensitive.
func (t *Table) Glyph(r rune) (Glyph, bool) {
	if t == nil || t.glyphs == nil {
		return Glyph{}, false
	}
	if g, ok := t.glyphs.Get(r); ok {
		return g.(Glyph), true
	}
	return Glyph{}, false
}

// Lookup finds the glyph for code point r, trying an exact match first, then
// the lowercase form of r. This way fonts providing only lowercase glyphs
// still render uppercase input.
func (t *Table) Lookup(r rune) (Glyph, bool) {
	if g, ok := t.Glyph(r); ok {
		return g, true
	}
	if lower := unicode.ToLower(r); lower != r {
		return t.Glyph(lower)
	}
	return Glyph{}, false
}

// Runes returns all code points of t in ascending order.
func (t *Table) Runes() []rune {
	if t.Len() == 0 {
		return nil
	}
	keys := t.glyphs.Keys()
	runes := make([]rune, len(keys))
	for i, k := range keys {
		runes[i] = k.(rune)
	}
	return runes
}

// Each calls f for every glyph of t, in code point order.
func (t *Table) Each(f func(g Glyph)) {
	if t.Len() == 0 {
		return
	}
	t.glyphs.Each(func(_ interface{}, v interface{}) {
		f(v.(Glyph))
	})
}

func (t *Table) String() string {
	if t == nil {
		return "<no font>"
	}
	return fmt.Sprintf("font %q (%s, %d glyphs)", t.Name, t.Format, t.Len())
}

// ---------------------------------------------------------------------------

// NormalizeFontname creates a registry key from a font name or file path.
// Keys are case folded and in NFC, so file names from file systems which
// store decomposed names map to the same key.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(path.Base(fname))
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	return cases.Fold().String(norm.NFC.String(fname))
}
