package config

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/soundbox/attractor"
	"github.com/lixenwraith/soundbox/core"
	"github.com/lixenwraith/soundbox/parameter"
)

const (
	maxParticles   = 1_000_000
	minSampleRate  = 8000
	maxSampleRate  = 192000
	maxLookaheadMS = 1000
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVisual(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateSequencer(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVisual() error {
	if c.Visual.Particles < 1 || c.Visual.Particles > maxParticles {
		return fmt.Errorf("visual.particles must be between 1 and %d", maxParticles)
	}
	if _, err := core.ParsePatternMode(c.Visual.PatternMode); err != nil {
		return fmt.Errorf("visual.pattern_mode: %w", err)
	}
	if _, err := core.ParseColorMode(c.Visual.ColorMode); err != nil {
		return fmt.Errorf("visual.color_mode: %w", err)
	}
	if _, err := attractor.ParseInterpolationMode(c.Visual.Interpolation); err != nil {
		return fmt.Errorf("visual.interpolation: %w", err)
	}
	if c.Visual.FPS < parameter.MinFPS || c.Visual.FPS > parameter.MaxFPS {
		return fmt.Errorf("visual.fps must be between %d and %d", parameter.MinFPS, parameter.MaxFPS)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate < minSampleRate || c.Audio.SampleRate > maxSampleRate {
		return fmt.Errorf("audio.sample_rate must be between %d and %d", minSampleRate, maxSampleRate)
	}
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 {
		return errors.New("audio.master_volume must be between 0 and 1")
	}
	if c.Audio.BPM < parameter.MinBPM || c.Audio.BPM > parameter.MaxBPM {
		return fmt.Errorf("audio.bpm must be between %d and %d", parameter.MinBPM, parameter.MaxBPM)
	}
	if _, err := core.ParseBeatStyle(c.Audio.BeatStyle); err != nil {
		return fmt.Errorf("audio.beat_style: %w", err)
	}
	if c.Audio.TempoMultiplier < parameter.MinTempoMul || c.Audio.TempoMultiplier > parameter.MaxTempoMul {
		return fmt.Errorf("audio.tempo_multiplier must be between %g and %g", parameter.MinTempoMul, parameter.MaxTempoMul)
	}
	return nil
}

func (c *Config) validateSequencer() error {
	if c.Sequencer.LookaheadMS < 0 || c.Sequencer.LookaheadMS > maxLookaheadMS {
		return fmt.Errorf("sequencer.lookahead_ms must be between 0 and %d", maxLookaheadMS)
	}
	if c.Sequencer.NoteLength <= 0 || c.Sequencer.NoteLength > 1 {
		return errors.New("sequencer.note_length must be in (0, 1]")
	}
	return nil
}
