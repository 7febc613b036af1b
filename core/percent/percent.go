// percent implements a simple and straightforward type for percentage values
package percent

import (
	"math"
	"strconv"
	"strings"
)

// Percent is a simple and straightforward type for percentage values
type Percent uint8

func FromInt(n int) Percent {
	switch {
	case n <= 0:
		return Percent(0)
	case n >= 100:
		return Percent(100)
	}
	return Percent(n)
}

func FromFloat(f float64) Percent {
	switch {
	case f <= 0 || math.IsNaN(f) || math.IsInf(f, -1):
		return Percent(0)
	case f >= 100 || math.IsInf(f, 1):
		return Percent(100)
	}
	return Percent(math.Round(f))
}

// FromString parses values like "99%", "99" or "99.4%".
// Values outside of 0…100 are clamped.
func FromString(s string) (Percent, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return FromFloat(f), nil
}

// Fraction returns p as a factor in 0…1.
func (p Percent) Fraction() float64 {
	return float64(p) / 100
}

// Of returns p percent of x.
func (p Percent) Of(x float64) float64 {
	return x * p.Fraction()
}

func (p Percent) String() string {
	return strconv.Itoa(int(p)) + "%"
}
