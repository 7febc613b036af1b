package svgdom

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/nameplate/core/dimen"
	"golang.org/x/net/html"
)

// ViewBox returns the viewBox of an element, if it has a valid one.
// Width and height of a valid viewBox are positive.
func ViewBox(n *html.Node) (dimen.Rect, bool) {
	s, ok := Attr(n, "viewBox")
	if !ok {
		return dimen.Rect{}, false
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return dimen.Rect{}, false
	}
	var v [4]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return dimen.Rect{}, false
		}
		v[i] = x
	}
	if v[2] <= 0 || v[3] <= 0 {
		return dimen.Rect{}, false
	}
	return dimen.Rect{
		TopL: dimen.Point{X: v[0], Y: v[1]},
		BotR: dimen.Point{X: v[0] + v[2], Y: v[1] + v[3]},
	}, true
}

// Length reads a length property of an element in user units. Unit-less
// values are user units, absolute units are converted as CSS does
// (96 user units per inch) and percentages are taken relative to ref.
func Length(n *html.Node, prop string, ref float64) (float64, bool) {
	s, ok := Property(n, prop)
	if !ok {
		return 0, false
	}
	d, pcnt, err := dimen.ParseDimen(s)
	if err != nil {
		return 0, false
	}
	if pcnt {
		return float64(d) / 100 * ref, true
	}
	return d.UserUnits(), true
}

// ParseLength reads an absolute length in user units. Unit-less values are
// user units. Percentages are not absolute and result in an error.
func ParseLength(s string) (float64, error) {
	d, pcnt, err := dimen.ParseDimen(s)
	if err != nil {
		return 0, err
	}
	if pcnt {
		return 0, fmt.Errorf("length %q is relative", s)
	}
	return d.UserUnits(), nil
}

// Viewport returns the coordinate frame an SVG root element declares for
// its content, in its own user units: the viewBox if present, else a frame
// at the origin sized by the width and height attributes. If neither is
// usable, fallback is returned.
func Viewport(root *html.Node, fallback dimen.Rect) dimen.Rect {
	if vb, ok := ViewBox(root); ok {
		return vb
	}
	w, wok := Length(root, "width", fallback.Width())
	h, hok := Length(root, "height", fallback.Height())
	if wok && hok && w > 0 && h > 0 {
		return dimen.Rect{BotR: dimen.Point{X: w, Y: h}}
	}
	return fallback
}
