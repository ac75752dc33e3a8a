package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/soundbox/core"
	"github.com/lixenwraith/soundbox/vmath"
)

// ShadeInput carries everything a palette needs for one particle
type ShadeInput struct {
	Dist      float64 // distance from center, 0 at center, ~1 at attractor edge
	Angle     float64 // radians around center
	HueOffset float64 // palindrome hue, degrees
	Time      float64 // seconds since start

	Beat      float64
	Flap      float64
	Bass      float64
	Mid       float64
	High      float64
	Highlight float64 // 0-1 flash from the sequencer's current note
	HighHue   float64 // hue shift contributed by the highlighted digit
}

// HSL is a hue in degrees with saturation and lightness in [0,1]
type HSL struct {
	H, S, L float64
}

type paletteFunc func(in ShadeInput) HSL

var palettes = [core.ColorModeCount]paletteFunc{
	core.ColorDefault:   paletteDefault,
	core.ColorButterfly: paletteButterfly,
	core.ColorMonarch:   paletteMonarch,
	core.ColorBlue:      paletteBlue,
	core.ColorRainbow:   paletteRainbow,
	core.ColorFire:      paletteFire,
	core.ColorOcean:     paletteOcean,
	core.ColorNeon:      paletteNeon,
}

// Shade computes the HSL for a particle under mode, including highlight flash
func Shade(mode core.ColorMode, in ShadeInput) HSL {
	fn := paletteDefault
	if mode >= 0 && mode < core.ColorModeCount {
		fn = palettes[mode]
	}
	c := fn(in)
	if in.Highlight > 0 {
		c.H += in.HighHue * in.Highlight
		c.L += in.Highlight * 0.12
	}
	c.H = vmath.WrapDegrees(c.H)
	c.S = vmath.Clamp01(c.S)
	c.L = vmath.Clamp01(c.L)
	return c
}

// ToRGB converts through go-colorful and clamps to the displayable gamut
func (c HSL) ToRGB() RGB {
	r, g, b := colorful.Hsl(c.H, c.S, c.L).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func paletteDefault(in ShadeInput) HSL {
	return HSL{
		H: in.HueOffset + in.Dist*120 + in.Time*10,
		S: 0.8,
		L: 0.5 + in.Beat*0.2,
	}
}

func paletteButterfly(in ShadeInput) HSL {
	return HSL{
		H: in.HueOffset + degrees(in.Angle)*0.5 + in.Dist*60,
		S: 0.85,
		L: 0.45 + 0.2*(1-in.Dist) + in.Flap*0.15,
	}
}

// paletteMonarch is orange wings with dark veined edges
func paletteMonarch(in ShadeInput) HSL {
	l := 0.5 + in.Beat*0.1
	if in.Dist > 0.8 {
		l = 0.15
	} else if math.Abs(math.Sin(in.Angle*6)) < 0.08 {
		l = 0.2
	}
	return HSL{
		H: 20 + in.Dist*25 + in.HueOffset*0.05,
		S: 0.95,
		L: l,
	}
}

func paletteBlue(in ShadeInput) HSL {
	return HSL{
		H: 200 + in.Dist*40 + in.Mid*30,
		S: 0.8,
		L: 0.5 + in.High*0.15,
	}
}

func paletteRainbow(in ShadeInput) HSL {
	return HSL{
		H: degrees(in.Angle) + in.Time*30 + in.HueOffset,
		S: 1.0,
		L: 0.55,
	}
}

func paletteFire(in ShadeInput) HSL {
	return HSL{
		H: 10 + (1-in.Dist)*40 + in.Bass*20,
		S: 1.0,
		L: 0.35 + (1-in.Dist)*0.3,
	}
}

func paletteOcean(in ShadeInput) HSL {
	return HSL{
		H: 180 + in.Dist*50 + math.Sin(in.Angle*3)*10,
		S: 0.7,
		L: 0.45 + in.High*0.2,
	}
}

func paletteNeon(in ShadeInput) HSL {
	return HSL{
		H: in.HueOffset + 300*in.Dist + in.Beat*60,
		S: 1.0,
		L: 0.6,
	}
}
