package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lixenwraith/soundbox/parameter"
)

// Environment overrides, applied after the file
const (
	envAudioEnabled = "SOUNDBOX_AUDIO_ENABLED"
	envMasterVolume = "SOUNDBOX_MASTER_VOLUME" // 0-100
	envBPM          = "SOUNDBOX_BPM"
	envBeatStyle    = "SOUNDBOX_BEAT_STYLE"
)

func (c *Config) normalize() error {
	c.applyEnv()
	c.normalizeVisual()
	c.normalizeAudio()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

// applyEnv follows the lenient override rules of the audio settings: unparsable values are ignored
func (c *Config) applyEnv() {
	if enabled := os.Getenv(envAudioEnabled); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			c.Audio.Enabled = val
		}
	}

	if volume := os.Getenv(envMasterVolume); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			c.Audio.MasterVolume = float64(val) / 100.0
			if c.Audio.MasterVolume < 0 {
				c.Audio.MasterVolume = 0
			}
			if c.Audio.MasterVolume > 1 {
				c.Audio.MasterVolume = 1
			}
		}
	}

	if bpm := os.Getenv(envBPM); bpm != "" {
		if val, err := strconv.Atoi(bpm); err == nil {
			c.Audio.BPM = val
		}
	}

	// Left unparsed so Validate reports a bad name
	if style := os.Getenv(envBeatStyle); style != "" {
		c.Audio.BeatStyle = style
	}
}

func (c *Config) normalizeVisual() {
	c.Visual.PatternMode = strings.ToLower(strings.TrimSpace(c.Visual.PatternMode))
	if c.Visual.PatternMode == "" {
		c.Visual.PatternMode = "butterfly"
	}
	c.Visual.ColorMode = strings.ToLower(strings.TrimSpace(c.Visual.ColorMode))
	c.Visual.Interpolation = strings.ToLower(strings.TrimSpace(c.Visual.Interpolation))
	if c.Visual.Particles == 0 {
		c.Visual.Particles = parameter.DefaultParticleCount
	}
	if c.Visual.FPS == 0 {
		c.Visual.FPS = parameter.DefaultFPS
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.BeatStyle = strings.ToLower(strings.TrimSpace(c.Audio.BeatStyle))
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = parameter.AudioSampleRate
	}
	if c.Audio.BPM == 0 {
		c.Audio.BPM = parameter.DefaultBPM
	}
	if c.Audio.TempoMultiplier == 0 {
		c.Audio.TempoMultiplier = parameter.DefaultTempoMul
	}
	if c.Sequencer.NoteLength == 0 {
		c.Sequencer.NoteLength = parameter.DefaultNoteLength
	}
}

func (c *Config) normalizeLogging() error {
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = defaultLogDir
	}
	var err error
	if c.Logging.Dir, err = absPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
