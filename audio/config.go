package audio

import (
	"github.com/lixenwraith/soundbox/core"
	"github.com/lixenwraith/soundbox/parameter"
)

// Config holds engine settings
type Config struct {
	Enabled         bool // open the output device; a disabled engine is clocked headless
	SampleRate      int
	MasterVolume    float64 // 0.0-1.0
	BPM             int
	BeatStyle       core.BeatStyle
	TempoMultiplier float64
}

// DefaultConfig returns stock audio settings
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		SampleRate:      parameter.AudioSampleRate,
		MasterVolume:    0.8,
		BPM:             parameter.DefaultBPM,
		BeatStyle:       core.BeatNone,
		TempoMultiplier: parameter.DefaultTempoMul,
	}
}

// normalize clamps out-of-range values in place
func (c *Config) normalize() {
	if c.SampleRate <= 0 {
		c.SampleRate = parameter.AudioSampleRate
	}
	c.MasterVolume = clampUnit(c.MasterVolume)
	c.BPM = clampBPM(c.BPM)
	if c.BeatStyle < 0 || c.BeatStyle >= core.BeatStyleCount {
		c.BeatStyle = core.BeatNone
	}
	if c.TempoMultiplier <= 0 {
		c.TempoMultiplier = parameter.DefaultTempoMul
	}
	if c.TempoMultiplier < parameter.MinTempoMul {
		c.TempoMultiplier = parameter.MinTempoMul
	} else if c.TempoMultiplier > parameter.MaxTempoMul {
		c.TempoMultiplier = parameter.MaxTempoMul
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampBPM(bpm int) int {
	if bpm < parameter.MinBPM {
		return parameter.MinBPM
	}
	if bpm > parameter.MaxBPM {
		return parameter.MaxBPM
	}
	return bpm
}
