package config

import (
	"log/slog"
	"time"

	"github.com/lixenwraith/soundbox/attractor"
	"github.com/lixenwraith/soundbox/audio"
	"github.com/lixenwraith/soundbox/core"
	"github.com/lixenwraith/soundbox/engine"
	"github.com/lixenwraith/soundbox/sequencer"
)

// The converters assume a validated config; unparsable names fall back to the parser defaults

// VisualConfig returns the visualizer settings
func (c *Config) VisualConfig() engine.VisualConfig {
	pattern, _ := core.ParsePatternMode(c.Visual.PatternMode)
	color, _ := core.ParseColorMode(c.Visual.ColorMode)
	interp, _ := attractor.ParseInterpolationMode(c.Visual.Interpolation)
	return engine.VisualConfig{
		Particles:     c.Visual.Particles,
		PatternMode:   pattern,
		ColorMode:     color,
		Interpolation: interp,
		HalfStep:      c.Visual.HalfStep,
		Wave:          c.Visual.Wave,
		Rotation:      c.Visual.Rotation,
		FPS:           c.Visual.FPS,
	}
}

// AudioConfig returns the audio engine settings
func (c *Config) AudioConfig() audio.Config {
	style, _ := core.ParseBeatStyle(c.Audio.BeatStyle)
	return audio.Config{
		Enabled:         c.Audio.Enabled,
		SampleRate:      c.Audio.SampleRate,
		MasterVolume:    c.Audio.MasterVolume,
		BPM:             c.Audio.BPM,
		BeatStyle:       style,
		TempoMultiplier: c.Audio.TempoMultiplier,
	}
}

// SequencerOptions returns transport settings; callers attach hooks
func (c *Config) SequencerOptions(logger *slog.Logger) sequencer.Options {
	return sequencer.Options{
		TempoMultiplier: c.Audio.TempoMultiplier,
		Lookahead:       time.Duration(c.Sequencer.LookaheadMS) * time.Millisecond,
		NoteLength:      c.Sequencer.NoteLength,
		Loop:            c.Sequencer.Loop,
		Logger:          logger,
	}
}
