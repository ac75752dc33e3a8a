package config

import (
	"github.com/lixenwraith/soundbox/parameter"
)

const (
	defaultConfigPath = "~/.config/soundbox/config.toml"
	projectConfigName = "soundbox.toml"
	defaultLogDir     = "~/.local/state/soundbox/logs"

	defaultMasterVolume = 0.8
)

// Default returns a Config populated with stock values.
func Default() Config {
	return Config{
		Visual: Visual{
			Particles:     parameter.DefaultParticleCount,
			PatternMode:   "butterfly",
			ColorMode:     "butterfly",
			Interpolation: "lerp",
			HalfStep:      true,
			Wave:          true,
			Rotation:      false,
			FPS:           parameter.DefaultFPS,
		},
		Audio: Audio{
			Enabled:         true,
			SampleRate:      parameter.AudioSampleRate,
			MasterVolume:    defaultMasterVolume,
			BPM:             parameter.DefaultBPM,
			BeatStyle:       "none",
			TempoMultiplier: parameter.DefaultTempoMul,
		},
		Sequencer: Sequencer{
			Loop:        false,
			LookaheadMS: int(parameter.DefaultLookahead.Milliseconds()),
			NoteLength:  parameter.DefaultNoteLength,
		},
		Logging: Logging{
			Debug: false,
			Dir:   defaultLogDir,
		},
	}
}
