package attractor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/harmonica"

	"github.com/lixenwraith/soundbox/parameter"
	"github.com/lixenwraith/soundbox/vmath"
)

// InterpolationMode selects how current parameters chase the target
type InterpolationMode int

const (
	InterpolateLerp InterpolationMode = iota
	InterpolateSpring
)

func (m InterpolationMode) String() string {
	if m == InterpolateSpring {
		return "spring"
	}
	return "lerp"
}

// ParseInterpolationMode resolves "lerp" or "spring"; empty selects lerp
func ParseInterpolationMode(s string) (InterpolationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lerp":
		return InterpolateLerp, nil
	case "spring":
		return InterpolateSpring, nil
	}
	return InterpolateLerp, fmt.Errorf("unknown interpolation mode %q", s)
}

const scalarCount = 8 // A, B, C, D, K, Hue, WingRatio, PatternScale

// Interpolator moves the live parameters toward the derived target once per frame
type Interpolator struct {
	mode    InterpolationMode
	current Params
	target  Params

	spring   harmonica.Spring
	velocity [scalarCount]float64
}

// NewInterpolator starts at the default signature
// fps sets the spring time step, ignored in lerp mode
func NewInterpolator(mode InterpolationMode, fps int) *Interpolator {
	if fps <= 0 {
		fps = parameter.DefaultFPS
	}
	p := DefaultParams()
	return &Interpolator{
		mode:    mode,
		current: p,
		target:  p,
		spring:  harmonica.NewSpring(harmonica.FPS(fps), parameter.ParamSpringFrequency, parameter.ParamSpringDamping),
	}
}

// SetTarget replaces the target; the seed switches immediately
func (ip *Interpolator) SetTarget(p Params) {
	ip.target = p
	ip.current.Seed = p.Seed
}

// Snap jumps straight to the target
func (ip *Interpolator) Snap() {
	ip.current = ip.target
	ip.velocity = [scalarCount]float64{}
}

// Current returns the live parameters
func (ip *Interpolator) Current() Params { return ip.current }

// Target returns the parameters being approached
func (ip *Interpolator) Target() Params { return ip.target }

// Step advances one frame and returns the new current parameters
func (ip *Interpolator) Step() Params {
	cur := ip.current.scalars()
	tgt := ip.target.scalars()

	// Hue travels the short way around the wheel
	tgt[5] = cur[5] + shortestArc(cur[5], tgt[5])

	for i := range cur {
		switch ip.mode {
		case InterpolateSpring:
			cur[i], ip.velocity[i] = ip.spring.Update(cur[i], ip.velocity[i], tgt[i])
		default:
			cur[i] = vmath.Lerp(cur[i], tgt[i], parameter.ParamLerpRate)
		}
	}
	cur[5] = vmath.WrapDegrees(cur[5])

	ip.current.setScalars(cur)
	return ip.current
}

func (p Params) scalars() [scalarCount]float64 {
	return [scalarCount]float64{p.A, p.B, p.C, p.D, p.K, p.Hue, p.WingRatio, p.PatternScale}
}

func (p *Params) setScalars(v [scalarCount]float64) {
	p.A, p.B, p.C, p.D, p.K = v[0], v[1], v[2], v[3], v[4]
	p.Hue, p.WingRatio, p.PatternScale = v[5], v[6], v[7]
}

// shortestArc returns the signed hue delta in (-180,180]
func shortestArc(from, to float64) float64 {
	d := vmath.WrapDegrees(to - from)
	if d > 180 {
		d -= 360
	}
	return d
}
