package svgpath

import (
	"fmt"
	"math"

	"github.com/npillmayer/nameplate/core/dimen"
	"github.com/tdewolff/parse/v2/strconv"
)

// Parse reads SVG path data. Following the SVG error handling rules for
// path data, Parse returns all segments up to the first error, together
// with the error.
func Parse(d string) (Path, error) {
	s := &scanner{b: []byte(d)}
	var path Path
	var cur, start, ctrl dimen.Point // ctrl is the last control point for S and T
	var last byte
	for {
		s.skipSpace()
		if s.eof() {
			break
		}
		cmd := s.b[s.pos]
		if !isCommand(cmd) {
			return path, s.errorf("expected command, have %q", cmd)
		}
		s.pos++
		if len(path) == 0 && cmd|0x20 != 'm' {
			return nil, s.errorf("path data must start with moveto")
		}
		if cmd|0x20 == 'z' { // takes no arguments
			path = append(path, Segment{Op: Close, Args: [3]dimen.Point{start}})
			cur, ctrl = start, start
			last = 'z'
			continue
		}
		rel := cmd >= 'a'
		first := true
		for first || s.hasNumber() {
			var off dimen.Point
			if rel {
				off = cur
			}
			var seg Segment
			switch cmd | 0x20 { // lowercase
			case 'm':
				p, ok := s.point(off)
				if !ok {
					return path, s.errorf("moveto needs a coordinate pair")
				}
				if first {
					seg = Segment{Op: MoveTo, Args: [3]dimen.Point{p}}
					start = p
				} else { // implicit lineto
					seg = Segment{Op: LineTo, Args: [3]dimen.Point{p}}
				}
			case 'l':
				p, ok := s.point(off)
				if !ok {
					return path, s.errorf("lineto needs a coordinate pair")
				}
				seg = Segment{Op: LineTo, Args: [3]dimen.Point{p}}
			case 'h':
				x, ok := s.number()
				if !ok {
					return path, s.errorf("horizontal lineto needs a coordinate")
				}
				seg = Segment{Op: LineTo, Args: [3]dimen.Point{{X: x + off.X, Y: cur.Y}}}
			case 'v':
				y, ok := s.number()
				if !ok {
					return path, s.errorf("vertical lineto needs a coordinate")
				}
				seg = Segment{Op: LineTo, Args: [3]dimen.Point{{X: cur.X, Y: y + off.Y}}}
			case 'c':
				c1, ok1 := s.point(off)
				c2, ok2 := s.point(off)
				p, ok3 := s.point(off)
				if !ok1 || !ok2 || !ok3 {
					return path, s.errorf("curveto needs three coordinate pairs")
				}
				seg = Segment{Op: CubeTo, Args: [3]dimen.Point{c1, c2, p}}
			case 's':
				c2, ok1 := s.point(off)
				p, ok2 := s.point(off)
				if !ok1 || !ok2 {
					return path, s.errorf("smooth curveto needs two coordinate pairs")
				}
				c1 := cur
				if last == 'c' || last == 's' {
					c1 = reflect(ctrl, cur)
				}
				seg = Segment{Op: CubeTo, Args: [3]dimen.Point{c1, c2, p}}
			case 'q':
				c, ok1 := s.point(off)
				p, ok2 := s.point(off)
				if !ok1 || !ok2 {
					return path, s.errorf("quadratic curveto needs two coordinate pairs")
				}
				seg = Segment{Op: QuadTo, Args: [3]dimen.Point{c, p}}
			case 't':
				p, ok := s.point(off)
				if !ok {
					return path, s.errorf("smooth quadratic curveto needs a coordinate pair")
				}
				c := cur
				if last == 'q' || last == 't' {
					c = reflect(ctrl, cur)
				}
				seg = Segment{Op: QuadTo, Args: [3]dimen.Point{c, p}}
			case 'a':
				rx, ok1 := s.number()
				ry, ok2 := s.number()
				phi, ok3 := s.number()
				large, ok4 := s.flag()
				sweep, ok5 := s.flag()
				p, ok6 := s.point(off)
				if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
					return path, s.errorf("elliptical arc has malformed arguments")
				}
				arc := arcToCubics(cur, rx, ry, phi, large, sweep, p)
				path = append(path, arc...)
				cur, ctrl = p, p
				last = 'a'
				first = false
				continue
			}
			path = append(path, seg)
			cur = seg.End()
			switch seg.Op {
			case CubeTo:
				ctrl = seg.Args[1]
			case QuadTo:
				ctrl = seg.Args[0]
			default:
				ctrl = cur
			}
			last = cmd | 0x20
			if last == 'm' && !first {
				last = 'l'
			}
			first = false
		}
	}
	return path, nil
}

func reflect(ctrl, about dimen.Point) dimen.Point {
	return dimen.Point{X: 2*about.X - ctrl.X, Y: 2*about.Y - ctrl.Y}
}

func isCommand(c byte) bool {
	switch c | 0x20 {
	case 'm', 'z', 'l', 'h', 'v', 'c', 's', 'q', 't', 'a':
		return true
	}
	return false
}

// --- Scanner ---------------------------------------------------------------

type scanner struct {
	b   []byte
	pos int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.b)
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.b[s.pos] {
		case ' ', '\t', '\n', '\r', '\f':
			s.pos++
		default:
			return
		}
	}
}

// skipSep skips white space with at most one comma.
func (s *scanner) skipSep() {
	s.skipSpace()
	if !s.eof() && s.b[s.pos] == ',' {
		s.pos++
		s.skipSpace()
	}
}

func (s *scanner) hasNumber() bool {
	save := s.pos
	s.skipSep()
	ok := !s.eof() && isNumberStart(s.b[s.pos])
	s.pos = save
	return ok
}

func isNumberStart(c byte) bool {
	return c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

func (s *scanner) number() (float64, bool) {
	s.skipSep()
	if s.eof() || !isNumberStart(s.b[s.pos]) {
		return 0, false
	}
	f, n := strconv.ParseFloat(s.b[s.pos:])
	if n == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	s.pos += n
	return f, true
}

// flag reads an arc flag, which may be written without separator, as in
// `a25 25 0 01 50 0`.
func (s *scanner) flag() (bool, bool) {
	s.skipSep()
	if s.eof() {
		return false, false
	}
	switch s.b[s.pos] {
	case '0':
		s.pos++
		return false, true
	case '1':
		s.pos++
		return true, true
	}
	return false, false
}

func (s *scanner) point(off dimen.Point) (dimen.Point, bool) {
	x, ok1 := s.number()
	y, ok2 := s.number()
	return dimen.Point{X: x + off.X, Y: y + off.Y}, ok1 && ok2
}

func (s *scanner) errorf(format string, v ...interface{}) error {
	tracer().Debugf("path data error at position %d", s.pos)
	return fmt.Errorf("path data, position %d: %s", s.pos, fmt.Sprintf(format, v...))
}

// --- Arcs ------------------------------------------------------------------

// arcToCubics converts an elliptical arc from p0 to p1 to cubic Bézier
// segments of at most 90° each, using the endpoint to center
// parameterization of SVG (implementation notes, F.6.5).
func arcToCubics(p0 dimen.Point, rx, ry, phiDeg float64, large, sweep bool, p1 dimen.Point) []Segment {
	if p0 == p1 {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return []Segment{{Op: LineTo, Args: [3]dimen.Point{p1}}}
	}
	sinPhi, cosPhi := math.Sincos(phiDeg * math.Pi / 180)
	dx, dy := (p0.X-p1.X)/2, (p0.Y-p1.Y)/2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy
	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		rx, ry = rx*math.Sqrt(lambda), ry*math.Sqrt(lambda)
	}
	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := math.Sqrt(math.Max(0, num/den))
	if large == sweep {
		coef = -coef
	}
	cxp, cyp := coef*rx*y1/ry, -coef*ry*x1/rx
	cx := cosPhi*cxp - sinPhi*cyp + (p0.X+p1.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (p0.Y+p1.Y)/2
	theta1 := angle(1, 0, (x1-cxp)/rx, (y1-cyp)/ry)
	delta := angle((x1-cxp)/rx, (y1-cyp)/ry, (-x1-cxp)/rx, (-y1-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}
	n := int(math.Ceil(math.Abs(delta)/(math.Pi/2) - 1e-9))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)
	mapPoint := func(x, y float64) dimen.Point {
		return dimen.Point{
			X: cx + rx*x*cosPhi - ry*y*sinPhi,
			Y: cy + rx*x*sinPhi + ry*y*cosPhi,
		}
	}
	segs := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		t1 := theta1 + float64(i)*step
		t2 := t1 + step
		s1, c1 := math.Sincos(t1)
		s2, c2 := math.Sincos(t2)
		end := mapPoint(c2, s2)
		if i == n-1 {
			end = p1
		}
		segs = append(segs, Segment{Op: CubeTo, Args: [3]dimen.Point{
			mapPoint(c1-k*s1, s1+k*c1),
			mapPoint(c2+k*s2, s2-k*c2),
			end,
		}})
	}
	return segs
}

func angle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
