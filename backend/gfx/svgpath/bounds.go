package svgpath

import (
	"math"

	"github.com/npillmayer/nameplate/core/dimen"
)

// Bounds returns the tight bounding box of the geometry drawn by p. Curve
// extrema are found analytically at the roots of the curve's derivative,
// so control points off the curve do not widen the box.
//
// Move-to points which start no drawing segment do not contribute. If p
// draws nothing, the second return value is false.
func (p Path) Bounds() (dimen.Rect, bool) {
	var bbox dimen.Rect
	var cur dimen.Point
	found := false
	add := func(q dimen.Point) {
		if !found {
			bbox = dimen.Rect{TopL: q, BotR: q}
			found = true
			return
		}
		bbox = bbox.Extend(q)
	}
	for _, seg := range p {
		switch seg.Op {
		case MoveTo:
			cur = seg.Args[0]
			continue
		case LineTo, Close:
			add(cur)
			add(seg.Args[0])
		case QuadTo:
			add(cur)
			add(seg.Args[1])
			for _, t := range quadExtrema(cur, seg.Args[0], seg.Args[1]) {
				add(quadAt(cur, seg.Args[0], seg.Args[1], t))
			}
		case CubeTo:
			add(cur)
			add(seg.Args[2])
			for _, t := range cubicExtrema(cur, seg.Args[0], seg.Args[1], seg.Args[2]) {
				add(cubicAt(cur, seg.Args[0], seg.Args[1], seg.Args[2], t))
			}
		}
		cur = seg.End()
	}
	return bbox, found
}

// Bounds returns the union of the bounding boxes of a set of paths.
func Bounds(paths ...Path) (dimen.Rect, bool) {
	var bbox dimen.Rect
	found := false
	for _, p := range paths {
		if r, ok := p.Bounds(); ok {
			if !found {
				bbox, found = r, true
			} else {
				bbox = bbox.Union(r)
			}
		}
	}
	return bbox, found
}

// --- Curve extrema ---------------------------------------------------------

// quadExtrema returns the parameters t in (0,1) where a quadratic curve has
// a horizontal or vertical tangent.
func quadExtrema(p0, p1, p2 dimen.Point) []float64 {
	var ts []float64
	for _, c := range [][3]float64{{p0.X, p1.X, p2.X}, {p0.Y, p1.Y, p2.Y}} {
		// B'(t) = 2(1-t)(p1-p0) + 2t(p2-p1) = 0
		den := c[0] - 2*c[1] + c[2]
		if den != 0 {
			if t := (c[0] - c[1]) / den; t > 0 && t < 1 {
				ts = append(ts, t)
			}
		}
	}
	return ts
}

// cubicExtrema returns the parameters t in (0,1) where a cubic curve has a
// horizontal or vertical tangent.
func cubicExtrema(p0, p1, p2, p3 dimen.Point) []float64 {
	var ts []float64
	for _, c := range [][4]float64{{p0.X, p1.X, p2.X, p3.X}, {p0.Y, p1.Y, p2.Y, p3.Y}} {
		// B'(t)/3 = a t² + b t + c
		a := -c[0] + 3*c[1] - 3*c[2] + c[3]
		b := 2 * (c[0] - 2*c[1] + c[2])
		cc := c[1] - c[0]
		for _, t := range solveQuadratic(a, b, cc) {
			if t > 0 && t < 1 {
				ts = append(ts, t)
			}
		}
	}
	return ts
}

// solveQuadratic returns the real roots of a t² + b t + c.
func solveQuadratic(a, b, c float64) []float64 {
	const eps = 1e-12
	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	switch {
	case disc < 0:
		return nil
	case disc == 0:
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(disc)
	// numerically stable form
	q := -0.5 * (b + math.Copysign(sq, b))
	roots := []float64{q / a}
	if q != 0 {
		roots = append(roots, c/q)
	}
	return roots
}

func quadAt(p0, p1, p2 dimen.Point, t float64) dimen.Point {
	mt := 1 - t
	return dimen.Point{
		X: mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
		Y: mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
	}
}

func cubicAt(p0, p1, p2, p3 dimen.Point, t float64) dimen.Point {
	mt := 1 - t
	a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
	return dimen.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}
