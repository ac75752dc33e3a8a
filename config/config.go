package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Visual contains particle field and frame loop settings.
type Visual struct {
	Particles     int    `toml:"particles"`
	PatternMode   string `toml:"pattern_mode"`
	ColorMode     string `toml:"color_mode"`
	Interpolation string `toml:"interpolation"`
	HalfStep      bool   `toml:"half_step"`
	Wave          bool   `toml:"wave"`
	Rotation      bool   `toml:"rotation"`
	FPS           int    `toml:"fps"`
}

// Audio contains output device and groove settings.
type Audio struct {
	Enabled         bool    `toml:"enabled"`
	SampleRate      int     `toml:"sample_rate"`
	MasterVolume    float64 `toml:"master_volume"`
	BPM             int     `toml:"bpm"`
	BeatStyle       string  `toml:"beat_style"`
	TempoMultiplier float64 `toml:"tempo_multiplier"`
}

// Sequencer contains transport settings.
type Sequencer struct {
	Loop        bool    `toml:"loop"`
	LookaheadMS int     `toml:"lookahead_ms"`
	NoteLength  float64 `toml:"note_length"`
}

// Logging controls the debug log file. The terminal belongs to the presenter,
// so nothing is logged to stderr.
type Logging struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
}

// Config encapsulates all configuration values for soundbox.
type Config struct {
	Visual    Visual    `toml:"visual"`
	Audio     Audio     `toml:"audio"`
	Sequencer Sequencer `toml:"sequencer"`
	Logging   Logging   `toml:"logging"`
}

// Load reads the first configuration found by Locate over the defaults.
// It returns the config, the path it settled on, and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := Locate(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// Locate picks the configuration file. An explicit path wins even when missing;
// otherwise the user file is preferred over soundbox.toml in the working directory,
// and the user file is reported when neither exists.
func Locate(path string) (string, bool, error) {
	if path != "" {
		p, err := InitPath(path)
		if err != nil {
			return "", false, err
		}
		ok, err := isFile(p)
		return p, ok, err
	}

	user, err := InitPath("")
	if err != nil {
		return "", false, err
	}
	project, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, p := range []string{user, project} {
		// Only an explicit path surfaces stat failures
		if ok, _ := isFile(p); ok {
			return p, true, nil
		}
	}
	return user, false, nil
}

// InitPath is where a configuration for path lives: path itself with ~ expanded,
// or the per-user file when path is empty
func InitPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}
	return absPath(path)
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}
	return nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	}
	return !info.IsDir(), nil
}

// absPath expands a leading ~ or ~/ and makes p absolute
func absPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", p, err)
	}
	return abs, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
