package geom

import (
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// ParseTransform reads an SVG transform list, e.g.
//
//	translate(10,20) scale(2) rotate(45 5 5)
//
// and returns the resulting matrix. Supported functions are matrix,
// translate, scale, rotate, skewX and skewY. An empty list is the identity.
func ParseTransform(s string) (Matrix, error) {
	m := Identity
	b := []byte(s)
	pos := 0
	skip := func() {
		for pos < len(b) && (b[pos] == ' ' || b[pos] == ',' || b[pos] == '\t' ||
			b[pos] == '\n' || b[pos] == '\r') {
			pos++
		}
	}
	for {
		skip()
		if pos >= len(b) {
			return m, nil
		}
		start := pos
		for pos < len(b) && (b[pos] >= 'a' && b[pos] <= 'z' || b[pos] >= 'A' && b[pos] <= 'Z') {
			pos++
		}
		name := string(b[start:pos])
		skip()
		if pos >= len(b) || b[pos] != '(' {
			return Identity, fmt.Errorf("transform %q: expected '(' after %q", s, name)
		}
		pos++
		var args []float64
		for {
			skip()
			if pos >= len(b) {
				return Identity, fmt.Errorf("transform %q: missing ')'", s)
			}
			if b[pos] == ')' {
				pos++
				break
			}
			f, n := strconv.ParseFloat(b[pos:])
			if n == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
				return Identity, fmt.Errorf("transform %q: bad number at position %d", s, pos)
			}
			args = append(args, f)
			pos += n
		}
		t, err := transformFunc(strings.ToLower(name), args)
		if err != nil {
			return Identity, fmt.Errorf("transform %q: %w", s, err)
		}
		m = m.Multiply(t)
	}
}

func transformFunc(name string, a []float64) (Matrix, error) {
	argc := func(counts ...int) bool {
		for _, c := range counts {
			if len(a) == c {
				return true
			}
		}
		return false
	}
	switch name {
	case "matrix":
		if argc(6) {
			return Matrix{a[0], a[2], a[4], a[1], a[3], a[5]}, nil
		}
	case "translate":
		if argc(1) {
			return Translate(a[0], 0), nil
		} else if argc(2) {
			return Translate(a[0], a[1]), nil
		}
	case "scale":
		if argc(1) {
			return Scale(a[0], a[0]), nil
		} else if argc(2) {
			return Scale(a[0], a[1]), nil
		}
	case "rotate":
		if argc(1) {
			return Rotate(a[0]), nil
		} else if argc(3) {
			return Translate(a[1], a[2]).Multiply(Rotate(a[0])).Multiply(Translate(-a[1], -a[2])), nil
		}
	case "skewx":
		if argc(1) {
			return Matrix{1, math.Tan(a[0] * math.Pi / 180), 0, 0, 1, 0}, nil
		}
	case "skewy":
		if argc(1) {
			return Matrix{1, 0, 0, math.Tan(a[0] * math.Pi / 180), 1, 0}, nil
		}
	default:
		return Identity, fmt.Errorf("unknown function %q", name)
	}
	return Identity, fmt.Errorf("%s takes other number of arguments than %d", name, len(a))
}
