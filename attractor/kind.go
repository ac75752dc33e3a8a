package attractor

import (
	"math"

	"github.com/lixenwraith/soundbox/core"
	"github.com/lixenwraith/soundbox/parameter"
	"github.com/lixenwraith/soundbox/vmath"
)

// UpdateFunc advances one particle by one step; implementations are pure and leave Age untouched
type UpdateFunc func(p Particle, c Coeffs) Particle

// Kind is one variant of the closed attractor set
type Kind struct {
	Mode   core.PatternMode
	Update UpdateFunc
	// Project maps simulation space onto the view plane, roughly unit extent
	Project func(p Particle) (x, y float64)
	// ThreeD marks kinds that integrate Z
	ThreeD bool
}

var kinds = [core.PatternModeCount]Kind{
	core.PatternButterfly: {Mode: core.PatternButterfly, Update: updateButterfly, Project: scaledXY(1.0 / 2.6)},
	core.PatternClifford:  {Mode: core.PatternClifford, Update: updateClifford, Project: scaledXY(1.0 / 2.6)},
	core.PatternDeJong:    {Mode: core.PatternDeJong, Update: updateDeJong, Project: scaledXY(1.0 / 2.0)},
	core.PatternLorenz:    {Mode: core.PatternLorenz, Update: updateLorenz, Project: projectLorenz, ThreeD: true},
	core.PatternSpiral:    {Mode: core.PatternSpiral, Update: updateSpiral, Project: scaledXY(1.0 / parameter.SpiralResetRadius)},
	core.PatternFlower:    {Mode: core.PatternFlower, Update: updateFlower, Project: scaledXY(1.0 / parameter.FlowerResetRadius)},
}

// KindOf returns the variant for mode, falling back to butterfly
func KindOf(mode core.PatternMode) Kind {
	if mode < 0 || mode >= core.PatternModeCount {
		return kinds[core.PatternButterfly]
	}
	return kinds[mode]
}

func scaledXY(s float64) func(Particle) (float64, float64) {
	return func(p Particle) (float64, float64) {
		return p.X * s, p.Y * s
	}
}

// --- 2-D iterated maps ---

func updateButterfly(p Particle, c Coeffs) Particle {
	x, y := p.X, p.Y
	p.X = math.Sin(c.A*y) + c.C*math.Sin(c.A*x)*math.Cos(c.K*y)
	p.Y = math.Sin(c.B*x)*math.Cos(c.K*x) + c.D*math.Cos(c.B*y)
	return p
}

func updateClifford(p Particle, c Coeffs) Particle {
	x, y := p.X, p.Y
	p.X = math.Sin(c.A*y) + c.C*math.Cos(c.A*x)
	p.Y = math.Sin(c.B*x) + c.D*math.Cos(c.B*y)
	return p
}

func updateDeJong(p Particle, c Coeffs) Particle {
	x, y := p.X, p.Y
	p.X = math.Sin(c.A*y) - math.Cos(c.B*x)
	p.Y = math.Sin(c.C*x) - math.Cos(c.D*y)
	return p
}

// --- Lorenz: Euler-integrated ODE ---

func updateLorenz(p Particle, c Coeffs) Particle {
	sigma := parameter.LorenzSigma + (c.A-parameter.DefaultCoeffA)*2
	rho := parameter.LorenzRho + (c.B-parameter.DefaultCoeffB)*4
	beta := parameter.LorenzBeta + (c.C-parameter.DefaultCoeffC)*0.2

	dx := sigma * (p.Y - p.X)
	dy := p.X*(rho-p.Z) - p.Y
	dz := p.X*p.Y - beta*p.Z

	p.X += dx * parameter.LorenzStep
	p.Y += dy * parameter.LorenzStep
	p.Z += dz * parameter.LorenzStep
	return p
}

// projectLorenz shows the x-z plane with the wings centered
func projectLorenz(p Particle) (float64, float64) {
	const s = 1.0 / 25.0
	return p.X * s, (p.Z - parameter.LorenzRho + 3) * s
}

// --- Polar kinds ---

func updateSpiral(p Particle, c Coeffs) Particle {
	r := math.Hypot(p.X, p.Y)
	th := math.Atan2(p.Y, p.X)

	th += 0.05*c.A + 0.02*c.K
	r = r*(1+0.01*c.B) + 0.002*c.C
	if r > parameter.SpiralResetRadius {
		r = restartRadius(r, th)
	}

	warp := 1 + 0.1*math.Sin(c.D*th)
	p.X = r * math.Cos(th) * warp
	p.Y = r * math.Sin(th) * warp
	return p
}

func updateFlower(p Particle, c Coeffs) Particle {
	r := math.Hypot(p.X, p.Y)
	th := math.Atan2(p.Y, p.X)

	petals := math.Round(3 + c.D*2)
	rose := math.Abs(math.Cos(petals*th/2)) * 1.5 * c.C / parameter.DefaultCoeffC

	th += 0.02*c.A + 0.01*c.K
	r += (rose-r)*0.08*c.B + 0.001
	if r > parameter.FlowerResetRadius {
		r = restartRadius(r, th)
	}

	p.X = r * math.Cos(th)
	p.Y = r * math.Sin(th)
	return p
}

// restartRadius picks a small radius from the escaping state so polar kinds stay pure
func restartRadius(r, th float64) float64 {
	return 0.05 + 0.1*vmath.Fract(r*7.31+th)
}
