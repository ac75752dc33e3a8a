package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/soundbox/core"
	"github.com/lixenwraith/soundbox/parameter"
)

// floatBuffer is mono float64 samples at unity gain
type floatBuffer []float64

// StepTrigger defines a trigger at a step with velocity
type StepTrigger struct {
	Step     int
	Velocity float64
}

// BeatPattern defines drum triggers per step of one bar
type BeatPattern struct {
	Style core.BeatStyle
	Kick  []StepTrigger
	Hihat []StepTrigger
	Snare []StepTrigger
	Clap  []StepTrigger
}

// triggers returns the trigger list for instr
func (p *BeatPattern) triggers(instr core.InstrumentType) []StepTrigger {
	switch instr {
	case core.InstrKick:
		return p.Kick
	case core.InstrHihat:
		return p.Hihat
	case core.InstrSnare:
		return p.Snare
	case core.InstrClap:
		return p.Clap
	}
	return nil
}

func every(start, stride int, vel float64) []StepTrigger {
	var out []StepTrigger
	for s := start; s < parameter.StepsPerBar; s += stride {
		out = append(out, StepTrigger{Step: s, Velocity: vel})
	}
	return out
}

// beatPatterns holds the built-in grooves, indexed by style; BeatNone has no pattern
var beatPatterns = [core.BeatStyleCount]*BeatPattern{
	core.BeatBasic: {
		Style: core.BeatBasic,
		Kick:  every(0, 4, 1.0),
		Hihat: every(2, 4, 0.6),
		Snare: []StepTrigger{{Step: 4, Velocity: 0.9}, {Step: 12, Velocity: 0.9}},
	},
	core.BeatDriving: {
		Style: core.BeatDriving,
		Kick:  every(0, 4, 1.0),
		Hihat: append(every(0, 4, 0.4), every(2, 4, 0.7)...),
		Clap:  []StepTrigger{{Step: 4, Velocity: 0.6}, {Step: 12, Velocity: 0.6}},
	},
	core.BeatBreakbeat: {
		Style: core.BeatBreakbeat,
		Kick:  []StepTrigger{{Step: 0, Velocity: 1.0}, {Step: 10, Velocity: 0.9}},
		Hihat: every(0, 2, 0.5),
		Snare: []StepTrigger{{Step: 4, Velocity: 0.9}, {Step: 7, Velocity: 0.4}, {Step: 12, Velocity: 0.9}, {Step: 15, Velocity: 0.4}},
	},
	core.BeatHalftime: {
		Style: core.BeatHalftime,
		Kick:  []StepTrigger{{Step: 0, Velocity: 1.0}, {Step: 3, Velocity: 0.6}},
		Hihat: every(0, 4, 0.5),
		Snare: []StepTrigger{{Step: 8, Velocity: 1.0}},
	},
}

// PatternFor returns the groove for style, nil for BeatNone
func PatternFor(style core.BeatStyle) *BeatPattern {
	if style < 0 || style >= core.BeatStyleCount {
		return nil
	}
	return beatPatterns[style]
}

// drumVoice plays one pre-rendered hit
type drumVoice struct {
	buffer   floatBuffer
	pos      int
	velocity float64
	active   bool
}

func (v *drumVoice) trigger(velocity float64) {
	v.velocity = velocity
	v.pos = 0
	v.active = true
}

func (v *drumVoice) sample() float64 {
	if !v.active || v.pos >= len(v.buffer) {
		v.active = false
		return 0
	}
	s := v.buffer[v.pos] * v.velocity
	v.pos++
	return s
}

// DrumTrack renders the groove on the absolute sample clock
// A step begins where floor(t / stepDuration) changes, so bars start on multiples of the bar length
// from clock zero, the same grid beat-locked sequencing snaps to
type DrumTrack struct {
	rate     int
	style    core.BeatStyle
	stepSec  float64
	lastStep int64
	voices   [core.InstrumentCount]drumVoice
}

// NewDrumTrack pre-renders every instrument once
func NewDrumTrack(sampleRate int) *DrumTrack {
	t := &DrumTrack{rate: sampleRate, lastStep: -1}
	rng := rand.New(rand.NewPCG(0x5eed, 0xd2))
	for instr := core.InstrumentType(0); instr < core.InstrumentCount; instr++ {
		t.voices[instr].buffer = generateDrumSound(instr, sampleRate, rng)
	}
	t.SetStepDuration(parameter.StepDuration(parameter.DefaultBPM, parameter.DefaultTempoMul))
	return t
}

// SetStyle switches the groove; takes effect at the next step boundary
func (t *DrumTrack) SetStyle(style core.BeatStyle) { t.style = style }

// SetStepDuration sets the step grid
func (t *DrumTrack) SetStepDuration(d time.Duration) { t.stepSec = d.Seconds() }

// Render adds drum output to buf, whose first frame is absolute sample start
func (t *DrumTrack) Render(buf [][2]float64, start int64) {
	pattern := PatternFor(t.style)
	samplesPerStep := t.stepSec * float64(t.rate)

	for i := range buf {
		if pattern != nil && samplesPerStep > 0 {
			step := int64(float64(start+int64(i)) / samplesPerStep)
			if step != t.lastStep {
				t.lastStep = step
				t.triggerStep(pattern, int(step%parameter.StepsPerBar))
			}
		}

		var s float64
		for v := range t.voices {
			s += t.voices[v].sample()
		}
		if s != 0 {
			s *= parameter.DrumVelocity
			buf[i][0] += s
			buf[i][1] += s
		}
	}
}

func (t *DrumTrack) triggerStep(p *BeatPattern, step int) {
	for instr := core.InstrumentType(0); instr < core.InstrumentCount; instr++ {
		for _, trig := range p.triggers(instr) {
			if trig.Step == step {
				t.voices[instr].trigger(trig.Velocity)
			}
		}
	}
}

// Reset silences ringing voices
func (t *DrumTrack) Reset() {
	for v := range t.voices {
		t.voices[v].active = false
		t.voices[v].pos = 0
	}
	t.lastStep = -1
}

// --- Drum Sound Generation ---

func generateDrumSound(instr core.InstrumentType, sr int, rng *rand.Rand) floatBuffer {
	switch instr {
	case core.InstrKick:
		return generateKick(sr)
	case core.InstrHihat:
		return generateHihat(sr, rng)
	case core.InstrSnare:
		return generateSnare(sr, rng)
	case core.InstrClap:
		return generateClap(sr, rng)
	default:
		return nil
	}
}

func generateKick(sr int) floatBuffer {
	duration := int(float64(sr) * parameter.KickDecay)
	buf := make(floatBuffer, duration)

	startFreq := 150.0
	endFreq := 40.0

	phase := 0.0
	for i := 0; i < duration; i++ {
		t := float64(i) / float64(duration)
		// Exponential pitch drop
		freq := endFreq + (startFreq-endFreq)*math.Exp(-8*t)
		amp := math.Exp(-5 * t)

		buf[i] = math.Tanh(math.Sin(2*math.Pi*phase) * amp * 2.0)
		phase += freq / float64(sr)
	}
	return buf
}

func generateHihat(sr int, rng *rand.Rand) floatBuffer {
	duration := int(float64(sr) * parameter.HihatDecay)
	buf := make(floatBuffer, duration)

	for i := 0; i < duration; i++ {
		t := float64(i) / float64(duration)
		buf[i] = (rng.Float64()*2 - 1) * math.Exp(-15*t)
	}

	newBiquad(biquadHighpass, 7000, 0.707, sr).process(buf)
	normalizePeak(buf, 0.9)
	return buf
}

func generateSnare(sr int, rng *rand.Rand) floatBuffer {
	duration := int(float64(sr) * parameter.SnareDecay)
	buf := make(floatBuffer, duration)

	// 200Hz body plus wire noise
	tonePhase := 0.0
	for i := 0; i < duration; i++ {
		t := float64(i) / float64(duration)
		body := math.Sin(2*math.Pi*tonePhase) * math.Exp(-10*t) * 0.5
		wires := (rng.Float64()*2 - 1) * math.Exp(-8*t) * 0.5
		buf[i] = body + wires
		tonePhase += 200.0 / float64(sr)
	}

	newBiquad(biquadBandpass, 2000, 1.5, sr).process(buf)
	normalizePeak(buf, 0.9)
	return buf
}

func generateClap(sr int, rng *rand.Rand) floatBuffer {
	duration := int(float64(sr) * parameter.ClapDecay)
	buf := make(floatBuffer, duration)

	burstLen := sr / 100 // 10ms bursts
	burstGap := sr / 200 // 5ms gaps
	numBursts := 4

	pos := 0
	for b := 0; b < numBursts && pos < duration; b++ {
		burstAmp := 1.0 - float64(b)*0.15
		for i := 0; i < burstLen && pos < duration; i++ {
			t := float64(i) / float64(burstLen)
			buf[pos] = (rng.Float64()*2 - 1) * math.Exp(-5*t) * burstAmp
			pos++
		}
		pos += burstGap
	}

	tailStart := pos
	for i := tailStart; i < duration; i++ {
		t := float64(i-tailStart) / float64(duration-tailStart)
		buf[i] = (rng.Float64()*2 - 1) * math.Exp(-8*t) * 0.3
	}

	newBiquad(biquadBandpass, 1500, 2.0, sr).process(buf)
	normalizePeak(buf, 0.9)
	return buf
}

// normalizePeak scales buf so its largest magnitude equals peak
func normalizePeak(buf floatBuffer, peak float64) {
	maxAbs := 0.0
	for _, v := range buf {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	if maxAbs == 0 {
		return
	}
	g := peak / maxAbs
	for i := range buf {
		buf[i] *= g
	}
}

type biquadKind int

const (
	biquadHighpass biquadKind = iota
	biquadBandpass
)

// biquad is a direct form I section with RBJ cookbook coefficients
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func newBiquad(kind biquadKind, freq, q float64, sr int) *biquad {
	w0 := 2 * math.Pi * freq / float64(sr)
	cosW, sinW := math.Cos(w0), math.Sin(w0)
	alpha := sinW / (2 * q)
	a0 := 1 + alpha

	f := &biquad{
		a1: -2 * cosW / a0,
		a2: (1 - alpha) / a0,
	}
	switch kind {
	case biquadHighpass:
		f.b0 = (1 + cosW) / 2 / a0
		f.b1 = -(1 + cosW) / a0
		f.b2 = f.b0
	case biquadBandpass:
		f.b0 = alpha / a0
		f.b1 = 0
		f.b2 = -alpha / a0
	}
	return f
}

func (f *biquad) process(buf floatBuffer) {
	for i, x := range buf {
		y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
		f.x2, f.x1 = f.x1, x
		f.y2, f.y1 = f.y1, y
		buf[i] = y
	}
}
