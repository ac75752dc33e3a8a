package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/soundbox/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveTriangle
	WaveSquare
)

// oscillator generates a raw periodic wave for a fixed number of samples
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveTriangle:
			val = 4*math.Abs(o.phase-0.5) - 1
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope wraps s with an attack/release envelope over duration
// Attack and release shrink proportionally when they do not fit
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	if att+rel > total && att+rel > 0 {
		att = total * att / (att + rel)
		rel = total - att
	}
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = math.Min(vol, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear gain through effects.Volume
// math.Log2(0) is -Inf, so 0 volume maps to silent
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	v := &effects.Volume{Streamer: s, Base: 2}
	setGain(v, vol)
	return v
}

// setGain updates a volume effect to a linear gain
func setGain(v *effects.Volume, vol float64) {
	if vol <= 0 {
		v.Volume, v.Silent = 0, true
		return
	}
	v.Volume, v.Silent = math.Log2(vol), false
}

// NewTone builds the voice for one sequencer note: a sine with a soft triangle overtone, enveloped
func NewTone(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	if duration < parameter.ToneMinDuration {
		duration = parameter.ToneMinDuration
	}
	fund := NewOscillator(freq, duration, WaveSine, rate)
	over := NewOscillator(freq*2, duration, WaveTriangle, rate)
	mixed := beep.Mix(newVolume(fund, 0.8), newVolume(over, 0.2))
	shaped := NewEnvelope(mixed, duration, parameter.ToneAttack, parameter.ToneRelease, rate)
	return newVolume(shaped, parameter.ToneVelocity)
}
