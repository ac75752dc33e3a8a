package render

// RGB is an 8-bit color without alpha
type RGB struct {
	R, G, B uint8
}

// RGBA pairs a color with a straight alpha in [0,1]
type RGBA struct {
	RGB
	A float64
}

// Predefined colors
var (
	RGBBlack = RGB{0, 0, 0}
	RGBWhite = RGB{255, 255, 255}
)

// clamp converts float to uint8 efficiently
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v)
}

// Blend optimizes alpha blending
// If alpha is 1.0 or 0.0, we return early to save math
func Blend(c, src RGB, alpha float64) RGB {
	if alpha >= 1.0 {
		return src
	}
	if alpha <= 0.0 {
		return c
	}

	// Pre-calculate invariant
	inv := 1.0 - alpha

	return RGB{
		R: clamp(float64(src.R)*alpha + float64(c.R)*inv + 0.5),
		G: clamp(float64(src.G)*alpha + float64(c.G)*inv + 0.5),
		B: clamp(float64(src.B)*alpha + float64(c.B)*inv + 0.5),
	}
}

// Over is the Porter-Duff "over" operator on straight alpha
// outA = a1 + a2*(1-a1); each channel is the alpha-weighted mix divided by outA
func Over(src, dst RGBA) RGBA {
	a1 := src.A
	if a1 >= 1.0 {
		return RGBA{RGB: src.RGB, A: 1}
	}
	if a1 <= 0.0 {
		return dst
	}
	w2 := dst.A * (1 - a1)
	outA := a1 + w2
	if outA <= 0 {
		return RGBA{}
	}
	return RGBA{
		RGB: RGB{
			R: clamp((float64(src.R)*a1+float64(dst.R)*w2)/outA + 0.5),
			G: clamp((float64(src.G)*a1+float64(dst.G)*w2)/outA + 0.5),
			B: clamp((float64(src.B)*a1+float64(dst.B)*w2)/outA + 0.5),
		},
		A: outA,
	}
}

// Scale multiplies the color by f, clamped
func Scale(c RGB, f float64) RGB {
	return RGB{
		R: clamp(float64(c.R)*f + 0.5),
		G: clamp(float64(c.G)*f + 0.5),
		B: clamp(float64(c.B)*f + 0.5),
	}
}
