package parameter

// Audio-reactive modulation
const (
	VolumeSmoothing = 0.15
	BeatThreshold   = 0.15
	BeatGain        = 4.0
	BeatFalloff     = 0.85
	BeatDecayRate   = 0.92

	SpectrumBins = 32
	BassBinEnd   = 4  // bins [0,4)
	MidBinEnd    = 16 // bins [4,16)
)

// Derived signal smoothing rates
const (
	PulseRate     = 0.20
	FlapRate      = 0.25
	SizeBoostRate = 0.15
	RotationRate  = 0.05
	WaveAmpRate   = 0.10
	WaveFreqRate  = 0.08
	WobbleRate    = 0.10
)

// Derived signal mixes
const (
	PulseVolumeMix = 0.6
	PulseBassMix   = 0.4

	FlapBeatMix = 0.7
	FlapBassMix = 0.3

	SizeBeatMix = 0.5
	SizeHighMix = 0.5

	RotationMidMix    = 0.02
	RotationVolumeMix = 0.01

	WaveAmpMidMix  = 0.15
	WaveAmpHighMix = 0.10

	WaveFreqBase    = 2.0
	WaveFreqHighMix = 6.0

	WobbleBassMix = 0.08
	WobbleBeatMix = 0.05
)
