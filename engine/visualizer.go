package engine

import (
	"io"
	"log/slog"
	"math"

	"github.com/lixenwraith/soundbox/attractor"
	"github.com/lixenwraith/soundbox/core"
	"github.com/lixenwraith/soundbox/modulation"
	"github.com/lixenwraith/soundbox/parameter"
	"github.com/lixenwraith/soundbox/render"
	"github.com/lixenwraith/soundbox/vmath"
)

// VisualConfig selects the visual behavior of one Visualizer
type VisualConfig struct {
	Particles     int
	PatternMode   core.PatternMode
	ColorMode     core.ColorMode
	Interpolation attractor.InterpolationMode

	// HalfStep advances only the particles whose index parity matches the frame parity
	// Halves per-frame cost; the field then depends on frame count, not wall time
	HalfStep bool

	Wave     bool // audio-driven horizontal wave distortion
	Rotation bool // audio-driven rotation of the field
	FPS      int
}

// DefaultVisualConfig returns the stock visual settings
func DefaultVisualConfig() VisualConfig {
	return VisualConfig{
		Particles:     parameter.DefaultParticleCount,
		PatternMode:   core.PatternButterfly,
		ColorMode:     core.ColorButterfly,
		Interpolation: attractor.InterpolateLerp,
		HalfStep:      true,
		Wave:          true,
		Rotation:      false,
		FPS:           parameter.DefaultFPS,
	}
}

// Visualizer owns the particle pool, pixel buffer, and modulation state of one visual instance
// Not safe for concurrent use; a single host loop drives every method
type Visualizer struct {
	cfg    VisualConfig
	logger *slog.Logger

	pool   *attractor.Pool
	interp *attractor.Interpolator
	mod    *modulation.State
	buf    *render.PixelBuffer

	palindrome string
	frame      uint64
	time       float64 // seconds of simulated time, advanced by 1/FPS per frame

	highlight float64
	highHue   float64
}

// NewVisualizer creates an instance sized width x height
func NewVisualizer(cfg VisualConfig, width, height int, logger *slog.Logger) *Visualizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.FPS <= 0 {
		cfg.FPS = parameter.DefaultFPS
	}
	return &Visualizer{
		cfg:    cfg,
		logger: logger,
		pool:   attractor.NewPool(cfg.Particles, cfg.PatternMode),
		interp: attractor.NewInterpolator(cfg.Interpolation, cfg.FPS),
		mod:    modulation.NewState(),
		buf:    render.NewPixelBuffer(width, height),
	}
}

// SetPalindrome retargets the signature; the field is reseeded only for a new non-zero seed
func (v *Visualizer) SetPalindrome(s string) {
	p := attractor.Derive(s)
	v.palindrome = s
	v.interp.SetTarget(p)
	if p.Seed != 0 && p.Seed != v.pool.SeedValue() {
		v.pool.Seed(p.Seed)
		v.logger.Debug("particle field reseeded", "palindrome", s, "seed", p.Seed)
	}
	v.logger.Debug("palindrome set", "palindrome", s, "hue", p.Hue)
}

// SetPatternMode switches the attractor kind
func (v *Visualizer) SetPatternMode(mode core.PatternMode) {
	v.cfg.PatternMode = mode
	v.pool.SetMode(mode)
	v.logger.Debug("pattern mode", "mode", mode.String())
}

// SetColorMode switches the palette
func (v *Visualizer) SetColorMode(mode core.ColorMode) {
	v.cfg.ColorMode = mode
	v.logger.Debug("color mode", "mode", mode.String())
}

// Resize clears the buffer and re-lays the particle field from the current seed
func (v *Visualizer) Resize(width, height int) {
	v.buf.Resize(width, height)
	v.pool.Seed(v.pool.SeedValue())
	v.logger.Debug("resize", "width", width, "height", height)
}

// Highlight flashes the field toward the hue of the sounding digit; negative digits are ignored
func (v *Visualizer) Highlight(digit int) {
	if digit < 0 || digit > 9 {
		return
	}
	v.highlight = 1
	v.highHue = float64(digit) * parameter.HighlightHueShift
}

// Buffer returns the pixel buffer filled by Frame
func (v *Visualizer) Buffer() *render.PixelBuffer { return v.buf }

// Params returns the live interpolated signature
func (v *Visualizer) Params() attractor.Params { return v.interp.Current() }

// Modulation returns the smoothed audio signals of the last frame
func (v *Visualizer) Modulation() *modulation.State { return v.mod }

// Palindrome returns the active palindrome
func (v *Visualizer) Palindrome() string { return v.palindrome }

// PatternMode returns the active kind
func (v *Visualizer) PatternMode() core.PatternMode { return v.cfg.PatternMode }

// ColorMode returns the active palette
func (v *Visualizer) ColorMode() core.ColorMode { return v.cfg.ColorMode }

// FrameCount returns the number of frames rendered
func (v *Visualizer) FrameCount() uint64 { return v.frame }

// Pool exposes the particle field for inspection
func (v *Visualizer) Pool() *attractor.Pool { return v.pool }

// view is the per-frame screen mapping
type view struct {
	cx, cy         float64
	scaleX, scaleY float64
	kind           attractor.Kind
	waveAmp        float64
	waveFreq       float64
	rotSin, rotCos float64
	clearRadius2   float64
}

// Frame renders one tick: interpolate, modulate, decay, advance and composite
func (v *Visualizer) Frame(src modulation.Source) *render.PixelBuffer {
	params := v.interp.Step()
	v.mod.Sample(src)
	m := v.mod

	trail := math.Min(parameter.TrailMaxDecay, parameter.TrailBaseDecay+m.SmoothedVolume*parameter.TrailVolumeDecay)
	v.buf.Decay(trail)

	coeffs := params.Coeffs
	coeffs.A += m.Wobble * math.Sin(v.time*1.3)
	coeffs.B += m.Wobble * math.Cos(v.time*0.9)

	w, h := float64(v.buf.Width()), float64(v.buf.Height())
	base := math.Min(w, h) * parameter.ViewFill * params.PatternScale
	breath := 1 + parameter.BreathAmount*math.Sin(v.time*parameter.BreathSpeed*2*math.Pi)
	pulse := 1 + m.Pulse*parameter.PulseScale

	vw := view{
		cx:           w / 2,
		cy:           h / 2,
		scaleX:       base * params.WingRatio * breath * pulse,
		scaleY:       base * breath * pulse,
		kind:         v.pool.Kind(),
		rotCos:       1,
		clearRadius2: parameter.CenterClearRadius * parameter.CenterClearRadius,
	}
	if v.cfg.Wave {
		vw.waveAmp, vw.waveFreq = m.WaveAmp, m.WaveFreq
	}
	if v.cfg.Rotation {
		vw.rotSin, vw.rotCos = math.Sincos(m.Rotation)
	}

	start, stride := 0, 1
	if v.cfg.HalfStep {
		start, stride = int(v.frame&1), 2
	}
	if v.buf.Width() > 0 && v.buf.Height() > 0 {
		for i := start; i < v.pool.Len(); i += stride {
			pt := v.pool.Advance(i, coeffs)
			v.plot(pt, &vw, params.Hue)
		}
	} else {
		for i := start; i < v.pool.Len(); i += stride {
			v.pool.Advance(i, coeffs)
		}
	}

	v.highlight *= parameter.HighlightDecay
	v.frame++
	v.time += 1.0 / float64(v.cfg.FPS)
	return v.buf
}

// plot maps one particle to screen space and composites it at the four mirrored positions
func (v *Visualizer) plot(pt attractor.Particle, vw *view, hue float64) {
	px, py := vw.kind.Project(pt)
	if vw.waveAmp > 0 {
		px += math.Sin(py*vw.waveFreq+v.time*2) * vw.waveAmp
	}
	if vw.rotSin != 0 {
		px, py = px*vw.rotCos-py*vw.rotSin, px*vw.rotSin+py*vw.rotCos
	}

	dx := px * vw.scaleX
	dy := py * vw.scaleY
	if dx*dx+dy*dy < vw.clearRadius2 {
		return
	}
	sx := int(vw.cx + dx)
	sy := int(vw.cy + dy)

	m := v.mod
	dist := vmath.Clamp01(math.Hypot(px, py))
	hsl := render.Shade(v.cfg.ColorMode, render.ShadeInput{
		Dist:      dist,
		Angle:     math.Atan2(py, px),
		HueOffset: hue,
		Time:      v.time,
		Beat:      m.Beat,
		Flap:      m.Flap,
		Bass:      m.Bass,
		Mid:       m.Mid,
		High:      m.High,
		Highlight: v.highlight,
		HighHue:   v.highHue,
	})
	alpha := vmath.Clamp(
		parameter.ParticleBaseAlpha*(1-dist*0.5)+m.Beat*parameter.ParticleBeatAlpha,
		parameter.ParticleMinAlpha, 1)

	c := hsl.ToRGB()
	v.buf.PlotMirrored(sx, sy, c, alpha)
	if m.SizeBoost > parameter.SizeBoostThreshold {
		v.buf.PlotMirrored(sx+1, sy, c, alpha*0.5)
	}
}
