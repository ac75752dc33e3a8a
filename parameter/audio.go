package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100
	AudioChannels   = 2

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond
)

// Tone shaping
const (
	ToneAttack      = 8 * time.Millisecond
	ToneRelease     = 60 * time.Millisecond
	ToneMinDuration = 30 * time.Millisecond
	ToneVelocity    = 0.35
	DrumVelocity    = 0.5
)

// Analyzer
const (
	// AnalyzerSize is the FFT window in samples, power of two
	AnalyzerSize = 1024

	// AnalyzerSmoothing blends each new spectrum with the previous one
	AnalyzerSmoothing = 0.8

	// AnalyzerVolumeGain lifts RMS into a usable 0-1 range for quiet synthesis
	AnalyzerVolumeGain = 2.5
)
