package vmath

import "math"

// Lerp interpolates a toward b by t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Approach is one EMA step: state += (target - state) * rate
func Approach(state, target, rate float64) float64 {
	return state + (target-state)*rate
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to [0,1], NaN maps to 0
func Clamp01(v float64) float64 {
	if v != v {
		return 0
	}
	return Clamp(v, 0, 1)
}

// Fract returns the fractional part in [0,1)
func Fract(v float64) float64 {
	return v - math.Floor(v)
}

// Finite reports whether v is neither NaN nor infinite
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// WrapDegrees folds an angle in degrees into [0,360)
func WrapDegrees(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}
