// Package attractor derives shape parameters from a palindrome and advances
// the particle field through one of six dynamical systems.
package attractor

import (
	"math"

	"github.com/lixenwraith/soundbox/parameter"
	"github.com/lixenwraith/soundbox/vmath"
)

// Coeffs are the five shape coefficients shared by every kind
type Coeffs struct {
	A, B, C, D, K float64
}

// Params is the full visual signature of a palindrome
type Params struct {
	Coeffs
	Hue          float64 // degrees, [0,360)
	WingRatio    float64 // horizontal stretch
	PatternScale float64 // overall size multiplier
	Seed         uint32  // particle field seed, 0 only for the empty string
}

// DefaultParams is the signature shown when no palindrome is active
func DefaultParams() Params {
	return Params{
		Coeffs: Coeffs{
			A: parameter.DefaultCoeffA,
			B: parameter.DefaultCoeffB,
			C: parameter.DefaultCoeffC,
			D: parameter.DefaultCoeffD,
			K: parameter.DefaultCoeffK,
		},
		Hue:          0,
		WingRatio:    1.0,
		PatternScale: 1.0,
		Seed:         0,
	}
}

// Derive computes the signature of s; it is a pure function of s
// Each coefficient mixes a literal digit with a hash-seeded offset so that both contribute
func Derive(s string) Params {
	if s == "" {
		return DefaultParams()
	}

	n := len(s)
	h := vmath.Hash(s)
	d := func(i int) float64 { return float64(digitAt(s, i)) }
	r := func(offset uint32) float64 { return vmath.SeededRandom(h + offset) }

	p := Params{
		Coeffs: Coeffs{
			A: 1.0 + d(0)*0.06 + r(1)*0.8,
			B: 1.1 + d(1%n)*0.06 + r(2)*0.9,
			C: 1.2 + d(2%n)*0.05 + r(3)*0.8,
			D: 0.9 + d(3%n)*0.06 + r(4)*0.9,
			K: 0.6 + d(n/2)*0.04 + r(5)*0.5,
		},
		Hue:          float64(h % 360),
		WingRatio:    1.0 + r(6)*0.6,
		PatternScale: 0.9 + r(7)*0.2 + math.Min(float64(n), 32)*0.01,
		Seed:         h,
	}
	if p.Seed == 0 {
		p.Seed = 1
	}
	return p
}

// digitAt returns the numeric value of s[i], non-digits count as 0
func digitAt(s string, i int) int {
	c := s[i]
	if c < '0' || c > '9' {
		return 0
	}
	return int(c - '0')
}
