/*
Package svgpath reads, transforms and measures SVG path data.

Path data is normalized on parsing: all coordinates become absolute,
horizontal and vertical lines become lines, smooth curves get explicit
control points, and elliptical arcs are approximated by cubic Bézier
curves. The resulting paths consist of move-to, line-to, quadratic and
cubic curve segments and close-path markers only, which makes them easy to
transform by an affine matrix and to measure.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package svgpath

import (
	"fmt"
	"strings"

	"github.com/npillmayer/nameplate/core/dimen"
	"github.com/npillmayer/nameplate/core/geom"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nameplate.glyphs'
func tracer() tracing.Trace {
	return tracing.Select("nameplate.glyphs")
}

// Op is a path segment operation.
type Op int8

// Path segment operations.
const (
	MoveTo Op = iota
	LineTo
	QuadTo
	CubeTo
	Close
)

var opNames = [...]string{"M", "L", "Q", "C", "Z"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "?"
	}
	return opNames[op]
}

// Segment is a path segment with absolute coordinates. The last used
// argument is the end point of the segment: Args[0] for MoveTo and LineTo,
// Args[1] for QuadTo and Args[2] for CubeTo. Close carries the start point
// of its subpath in Args[0].
type Segment struct {
	Op   Op
	Args [3]dimen.Point
}

// End returns the end point of s.
func (s Segment) End() dimen.Point {
	switch s.Op {
	case QuadTo:
		return s.Args[1]
	case CubeTo:
		return s.Args[2]
	}
	return s.Args[0]
}

func (s Segment) argc() int {
	switch s.Op {
	case QuadTo:
		return 2
	case CubeTo:
		return 3
	}
	return 1
}

// Path is a sequence of normalized segments.
type Path []Segment

// Transform returns a copy of p with all coordinates transformed by m.
func (p Path) Transform(m geom.Matrix) Path {
	q := make(Path, len(p))
	for i, seg := range p {
		q[i].Op = seg.Op
		for j := 0; j < seg.argc(); j++ {
			q[i].Args[j] = m.Apply(seg.Args[j])
		}
	}
	return q
}

// IsEmpty is true if p does not draw anything, i.e. consists of move-to
// segments only.
func (p Path) IsEmpty() bool {
	for _, seg := range p {
		if seg.Op != MoveTo {
			return false
		}
	}
	return true
}

// String returns p as SVG path data.
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(seg.Op.String())
		if seg.Op == Close {
			continue
		}
		for j := 0; j < seg.argc(); j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(geom.Num(seg.Args[j].X))
			sb.WriteByte(' ')
			sb.WriteString(geom.Num(seg.Args[j].Y))
		}
	}
	return sb.String()
}

// MustParse parses path data and panics on error. For tests and constants.
func MustParse(d string) Path {
	p, err := Parse(d)
	if err != nil {
		panic(fmt.Sprintf("invalid path data %q: %v", d, err))
	}
	return p
}
