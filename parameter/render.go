package parameter

import "time"

// Frame pacing
const (
	DefaultFPS = 60
	MinFPS     = 10
	MaxFPS     = 240

	FrameInterval = time.Second / DefaultFPS
)

// Trail decay
const (
	// TrailBaseDecay is alpha persistence at silence
	TrailBaseDecay = 0.92

	// TrailVolumeDecay raises persistence with smoothed volume
	TrailVolumeDecay = 0.08

	// TrailMaxDecay caps persistence so trails always fade
	TrailMaxDecay = 0.998
)

// Screen mapping
const (
	// ViewFill maps a unit projected coordinate to this fraction of the short screen side
	ViewFill = 0.45

	BreathAmount = 0.04
	BreathSpeed  = 0.8

	PulseScale = 0.35

	// CenterClearRadius in pixels is kept transparent to avoid a saturated core
	CenterClearRadius = 3.0
)

// Particle shading
const (
	ParticleBaseAlpha  = 0.35
	ParticleBeatAlpha  = 0.2
	ParticleMinAlpha   = 0.02
	SizeBoostThreshold = 0.3

	HighlightDecay    = 0.9
	HighlightHueShift = 36.0
	HighlightLight    = 0.12
)

// Default surface size for headless rendering
const (
	DefaultWidth  = 320
	DefaultHeight = 240
)
