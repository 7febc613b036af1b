/*
Package geom implements affine transformations for plate geometry.

Matrices are x/image `f64.Aff3` values, i.e. the first two rows of a 3×3
matrix, with

	x' = A[0]*x + A[1]*y + A[2]
	y' = A[3]*x + A[4]*y + A[5]

This corresponds to the SVG `matrix(a b c d e f)` notation with
A = [a c e b d f].

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/nameplate/core/dimen"
	"golang.org/x/image/math/f64"
)

// Matrix is an affine transformation.
type Matrix f64.Aff3

// Identity is the identity transformation.
var Identity = Matrix{1, 0, 0, 0, 1, 0}

// Translate returns a translation by (tx,ty).
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, tx, 0, 1, ty}
}

// Scale returns a scaling by (sx,sy).
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, 0, sy, 0}
}

// Rotate returns a rotation by deg degrees (clockwise in a y-down system).
func Rotate(deg float64) Matrix {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Matrix{c, -s, 0, s, c, 0}
}

// Multiply returns m·n, i.e. the transformation which first applies n, then m.
// This is the order in which SVG nests transforms: `transform="m n"`.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[1]*n[3],
		m[0]*n[1] + m[1]*n[4],
		m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3],
		m[3]*n[1] + m[4]*n[4],
		m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

// Apply transforms a point.
func (m Matrix) Apply(p dimen.Point) dimen.Point {
	return dimen.Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// ApplyVector transforms a vector, i.e. without translation.
func (m Matrix) ApplyVector(p dimen.Point) dimen.Point {
	return dimen.Point{
		X: m[0]*p.X + m[1]*p.Y,
		Y: m[3]*p.X + m[4]*p.Y,
	}
}

// IsIdentity is a predicate.
func (m Matrix) IsIdentity() bool {
	return m == Identity
}

// Translation returns the translation part of m.
func (m Matrix) Translation() (float64, float64) {
	return m[2], m[5]
}

// Determinant of the linear part of m.
func (m Matrix) Determinant() float64 {
	return m[0]*m[4] - m[1]*m[3]
}

// MeanScale returns the geometric mean of the scaling factors of m. It is
// used to convert stroke widths between coordinate systems.
func (m Matrix) MeanScale() float64 {
	return math.Sqrt(math.Abs(m.Determinant()))
}

// String returns m in SVG notation, using the shortest equivalent form.
func (m Matrix) String() string {
	switch {
	case m.IsIdentity():
		return ""
	case m[0] == 1 && m[1] == 0 && m[3] == 0 && m[4] == 1:
		return "translate(" + num(m[2]) + "," + num(m[5]) + ")"
	case m[1] == 0 && m[2] == 0 && m[3] == 0 && m[5] == 0:
		if m[0] == m[4] {
			return "scale(" + num(m[0]) + ")"
		}
		return "scale(" + num(m[0]) + "," + num(m[4]) + ")"
	}
	return fmt.Sprintf("matrix(%s,%s,%s,%s,%s,%s)",
		num(m[0]), num(m[3]), num(m[1]), num(m[4]), num(m[2]), num(m[5]))
}

// Chain renders a sequence of transformations as one SVG transform attribute
// value, leftmost applied last.
func Chain(ms ...Matrix) string {
	var parts []string
	for _, m := range ms {
		if s := m.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Num formats a coordinate compactly for SVG output.
func Num(x float64) string {
	return num(x)
}

func num(x float64) string {
	if x == 0 || math.Abs(x) < 1e-9 {
		return "0"
	}
	return strconv.FormatFloat(round(x), 'f', -1, 64)
}

// round to 6 decimal places, which is far below plotter resolution.
func round(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}
