// Package dimen implements dimensions and units.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

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
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Dimen is a dimension type.
// Values are in millimeters, which are the user units of a plate canvas.
type Dimen float64

// Some pre-defined dimensions, CSS semantics.
const (
	Zero Dimen = 0
	MM   Dimen = 1             // millimeters
	CM   Dimen = 10            // centimeters
	IN   Dimen = 25.4          // inch
	PT   Dimen = 25.4 / 72     // point = 1/72 inch
	BP   Dimen = 25.4 / 72     // big point (PDF) = 1/72 inch
	PC   Dimen = 25.4 / 6      // pica = 12pt
	PX   Dimen = 25.4 / 96     // CSS pixel = 1/96 inch
	Q    Dimen = 25.4 / 40 / 4 // quarter-millimeter
)

// The plate canvas. Its viewport is exactly `0 0 360 120` and user units are
// millimeters, i.e. the output is physically accurate for a 360×120mm plot.
const (
	CanvasWidth  Dimen = 360 * MM
	CanvasHeight Dimen = 120 * MM
)

// Canvas is the fixed output frame.
var Canvas = Rect{Origin, Point{float64(CanvasWidth), float64(CanvasHeight)}}

// TextAnchor is the point where the center of a text's bounding box is placed:
// centered in the right two thirds of the canvas, vertically centered.
var TextAnchor = Point{270, 60}

// Stringer implementation.
func (d Dimen) String() string {
	return strconv.FormatFloat(float64(d), 'f', -1, 64) + "mm"
}

// Millimeters returns a dimension as a plain float.
func (d Dimen) Millimeters() float64 {
	return float64(d)
}

// UserUnits returns a dimension in SVG user units of a document without a
// viewBox, i.e. in CSS pixels.
func (d Dimen) UserUnits() float64 {
	return float64(d / PX)
}

// Point is a point on a canvas.
type Point struct {
	X, Y float64
}

// Origin is origin
var Origin = Point{0, 0}

// Shift a point along a vector.
func (p *Point) Shift(vector Point) *Point {
	p.X += vector.X
	p.Y += vector.Y
	return p
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Rect is a rectangle (on a canvas).
type Rect struct {
	TopL, BotR Point
}

// Width returns the width of a rectangle, i.e. the difference between x-coordinates
// of bottom-right and top-left corner.
func (r Rect) Width() float64 {
	return r.BotR.X - r.TopL.X
}

// Height returns the height of a rectangle, i.e. the difference between y-coordinates
// of bottom-right and top-left corner.
func (r Rect) Height() float64 {
	return r.BotR.Y - r.TopL.Y
}

// Center returns the center point of r.
func (r Rect) Center() Point {
	return Point{(r.TopL.X + r.BotR.X) / 2, (r.TopL.Y + r.BotR.Y) / 2}
}

// IsZero is a predicate: does r have neither width nor height and sits at
// the origin?
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// Degenerate is true if r has zero (or negative) width or height.
func (r Rect) Degenerate() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Extend returns the smallest rectangle containing r and p.
func (r Rect) Extend(p Point) Rect {
	return Rect{
		TopL: Point{math.Min(r.TopL.X, p.X), math.Min(r.TopL.Y, p.Y)},
		BotR: Point{math.Max(r.BotR.X, p.X), math.Max(r.BotR.Y, p.Y)},
	}
}

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	return r.Extend(s.TopL).Extend(s.BotR)
}

func (r Rect) String() string {
	return fmt.Sprintf("[%s,%s]", r.TopL, r.BotR)
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(
	`^\s*([+\-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+\-]?[0-9]+)?)\s*(%|[a-zA-Z]{1,2})?\s*$`)

// ParseDimen parses a string to return a dimension. Syntax is CSS Unit.
// Unit-less values are taken to be CSS pixels, as SVG does for user units.
// If a percentage value is given (`80%`), the second return value will be true
// and the dimension holds the plain percentage number.
func ParseDimen(s string) (Dimen, bool, error) {
	d := dimenPattern.FindStringSubmatch(s)
	if len(d) < 2 {
		return 0, false, errors.New("format error parsing dimension")
	}
	scale := PX
	ispcnt := false
	if len(d) > 2 {
		switch d[2] {
		case "mm", "MM":
			scale = MM
		case "cm", "CM":
			scale = CM
		case "in", "IN":
			scale = IN
		case "pt", "PT":
			scale = PT
		case "bp", "BP":
			scale = BP
		case "pc", "PC":
			scale = PC
		case "q", "Q":
			scale = Q
		case "px", "PX", "":
			scale = PX
		case "%":
			scale, ispcnt = 1, true
		default:
			return 0, false, errors.New("format error parsing dimension")
		}
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, false, errors.New("format error parsing dimension")
	}
	return Dimen(n) * scale, ispcnt, nil
}

// ---------------------------------------------------------------------------

// Min returns the smaller of two dimensions.
func Min(a, b Dimen) Dimen {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of two dimensions.
func Max(a, b Dimen) Dimen {
	if a > b {
		return a
	}
	return b
}
