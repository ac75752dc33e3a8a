// Package modulation turns raw per-frame audio readings into smoothed
// control signals for the particle field and the color pipeline.
package modulation

import (
	"math"

	"github.com/lixenwraith/soundbox/parameter"
	"github.com/lixenwraith/soundbox/vmath"
)

// Source is the audio collaborator sampled once per frame
type Source interface {
	Volume() float64
	FrequencyData() []float64
}

// State holds every audio-derived signal; it persists across frames
// Visual consumers read only the smoothed fields, never Volume
type State struct {
	Volume         float64 // raw input, for beat detection only
	prevVolume     float64
	SmoothedVolume float64

	Beat      float64 // sharp onset pulse
	BeatDecay float64 // slow envelope after an onset

	Bins            [parameter.SpectrumBins]float64
	Bass, Mid, High float64

	Pulse         float64
	Flap          float64
	SizeBoost     float64
	RotationSpeed float64
	Rotation      float64 // accumulated radians
	WaveAmp       float64
	WaveFreq      float64
	Wobble        float64
}

// NewState returns a state at rest
func NewState() *State {
	return &State{WaveFreq: parameter.WaveFreqBase}
}

// Sample pulls one reading from src and updates
func (s *State) Sample(src Source) {
	if src == nil {
		s.Update(0, nil)
		return
	}
	s.Update(src.Volume(), src.FrequencyData())
}

// Update advances one frame from a volume in [0,1] and a normalized spectrum
func (s *State) Update(volume float64, spectrum []float64) {
	volume = vmath.Clamp01(volume)

	s.SmoothedVolume = vmath.Approach(s.SmoothedVolume, volume, parameter.VolumeSmoothing)

	jump := volume - s.prevVolume
	if jump > parameter.BeatThreshold {
		s.Beat = math.Min(1, jump*parameter.BeatGain)
		s.BeatDecay = 1.0
	} else {
		s.Beat *= parameter.BeatFalloff
	}
	s.BeatDecay *= parameter.BeatDecayRate
	s.prevVolume = volume
	s.Volume = volume

	BucketSpectrum(spectrum, s.Bins[:])
	s.Bass = mean(s.Bins[:parameter.BassBinEnd])
	s.Mid = mean(s.Bins[parameter.BassBinEnd:parameter.MidBinEnd])
	s.High = mean(s.Bins[parameter.MidBinEnd:])

	s.Pulse = vmath.Approach(s.Pulse,
		parameter.PulseVolumeMix*s.SmoothedVolume+parameter.PulseBassMix*s.Bass,
		parameter.PulseRate)
	s.Flap = vmath.Approach(s.Flap,
		parameter.FlapBeatMix*s.BeatDecay+parameter.FlapBassMix*s.Bass,
		parameter.FlapRate)
	s.SizeBoost = vmath.Approach(s.SizeBoost,
		parameter.SizeBeatMix*s.BeatDecay+parameter.SizeHighMix*s.High,
		parameter.SizeBoostRate)
	s.RotationSpeed = vmath.Approach(s.RotationSpeed,
		parameter.RotationMidMix*s.Mid+parameter.RotationVolumeMix*s.SmoothedVolume,
		parameter.RotationRate)
	s.Rotation = math.Mod(s.Rotation+s.RotationSpeed, 2*math.Pi)
	s.WaveAmp = vmath.Approach(s.WaveAmp,
		parameter.WaveAmpMidMix*s.Mid+parameter.WaveAmpHighMix*s.High,
		parameter.WaveAmpRate)
	s.WaveFreq = vmath.Approach(s.WaveFreq,
		parameter.WaveFreqBase+parameter.WaveFreqHighMix*s.High,
		parameter.WaveFreqRate)
	s.Wobble = vmath.Approach(s.Wobble,
		parameter.WobbleBassMix*s.Bass+parameter.WobbleBeatMix*s.BeatDecay,
		parameter.WobbleRate)
}

// BucketSpectrum averages spectrum into len(out) equal-width bins
// Inputs shorter than out repeat their nearest value; values are clamped to [0,1]
func BucketSpectrum(spectrum []float64, out []float64) {
	n := len(spectrum)
	bins := len(out)
	if n == 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}
	for b := 0; b < bins; b++ {
		start := b * n / bins
		end := (b + 1) * n / bins
		if end <= start {
			end = start + 1
		}
		sum := 0.0
		for i := start; i < end; i++ {
			sum += vmath.Clamp01(spectrum[i])
		}
		out[b] = sum / float64(end-start)
	}
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
