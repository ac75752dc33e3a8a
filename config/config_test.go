package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/soundbox/attractor"
	"github.com/lixenwraith/soundbox/config"
	"github.com/lixenwraith/soundbox/core"
)

// isolate points HOME at a temp dir and clears overrides so host settings do not leak in
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"SOUNDBOX_AUDIO_ENABLED", "SOUNDBOX_MASTER_VOLUME", "SOUNDBOX_BPM", "SOUNDBOX_BEAT_STYLE"} {
		t.Setenv(key, "")
	}
	t.Chdir(home)
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(home, ".config", "soundbox", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if want := filepath.Join(home, ".local", "state", "soundbox", "logs"); cfg.Logging.Dir != want {
		t.Fatalf("log dir = %q, want %q", cfg.Logging.Dir, want)
	}

	def := config.Default()
	if cfg.Visual != def.Visual {
		t.Fatalf("visual = %+v, want %+v", cfg.Visual, def.Visual)
	}
	if cfg.Audio != def.Audio {
		t.Fatalf("audio = %+v, want %+v", cfg.Audio, def.Audio)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
[visual]
particles = 5000
pattern_mode = "Lorenz"
color_mode = "fire"
interpolation = "spring"
half_step = false

[audio]
enabled = false
bpm = 90
beat_style = "breakbeat"

[sequencer]
loop = true
lookahead_ms = 80
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}

	vc := cfg.VisualConfig()
	if vc.Particles != 5000 || vc.PatternMode != core.PatternLorenz || vc.ColorMode != core.ColorFire {
		t.Fatalf("unexpected visual config: %+v", vc)
	}
	if vc.Interpolation != attractor.InterpolateSpring || vc.HalfStep {
		t.Fatalf("unexpected interpolation/half-step: %+v", vc)
	}
	if !vc.Wave {
		t.Fatal("unset wave should keep its default")
	}

	ac := cfg.AudioConfig()
	if ac.Enabled || ac.BPM != 90 || ac.BeatStyle != core.BeatBreakbeat {
		t.Fatalf("unexpected audio config: %+v", ac)
	}

	opts := cfg.SequencerOptions(nil)
	if !opts.Loop || opts.Lookahead != 80*time.Millisecond {
		t.Fatalf("unexpected sequencer options: %+v", opts)
	}
	if opts.NoteLength != config.Default().Sequencer.NoteLength {
		t.Fatalf("note length = %v", opts.NoteLength)
	}
}

func TestLoadProjectFile(t *testing.T) {
	home := isolate(t)
	if err := os.WriteFile(filepath.Join(home, "soundbox.toml"), []byte("[audio]\nbpm = 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "soundbox.toml" {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Audio.BPM != 100 {
		t.Fatalf("bpm = %d", cfg.Audio.BPM)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SOUNDBOX_AUDIO_ENABLED", "false")
	t.Setenv("SOUNDBOX_MASTER_VOLUME", "150")
	t.Setenv("SOUNDBOX_BPM", "96")
	t.Setenv("SOUNDBOX_BEAT_STYLE", "Halftime")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Audio.Enabled {
		t.Error("expected audio disabled by env")
	}
	if cfg.Audio.MasterVolume != 1 {
		t.Errorf("master volume = %v, want clamp to 1", cfg.Audio.MasterVolume)
	}
	if cfg.Audio.BPM != 96 {
		t.Errorf("bpm = %d", cfg.Audio.BPM)
	}
	if cfg.AudioConfig().BeatStyle != core.BeatHalftime {
		t.Errorf("beat style = %q", cfg.Audio.BeatStyle)
	}
}

func TestEnvironmentIgnoresGarbage(t *testing.T) {
	isolate(t)
	t.Setenv("SOUNDBOX_AUDIO_ENABLED", "perhaps")
	t.Setenv("SOUNDBOX_MASTER_VOLUME", "loud")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := config.Default()
	if cfg.Audio.Enabled != def.Audio.Enabled || cfg.Audio.MasterVolume != def.Audio.MasterVolume {
		t.Fatalf("garbage env changed audio: %+v", cfg.Audio)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"pattern", "[visual]\npattern_mode = \"torus\"\n", "visual.pattern_mode"},
		{"color", "[visual]\ncolor_mode = \"sepia\"\n", "visual.color_mode"},
		{"interpolation", "[visual]\ninterpolation = \"cubic\"\n", "visual.interpolation"},
		{"fps", "[visual]\nfps = 1000\n", "visual.fps"},
		{"particles", "[visual]\nparticles = -1\n", "visual.particles"},
		{"bpm", "[audio]\nbpm = 20\n", "audio.bpm"},
		{"volume", "[audio]\nmaster_volume = 1.5\n", "audio.master_volume"},
		{"style", "[audio]\nbeat_style = \"swing\"\n", "audio.beat_style"},
		{"tempo", "[audio]\ntempo_multiplier = 9.0\n", "audio.tempo_multiplier"},
		{"sample rate", "[audio]\nsample_rate = 100\n", "audio.sample_rate"},
		{"lookahead", "[sequencer]\nlookahead_ms = -5\n", "sequencer.lookahead_ms"},
		{"note length", "[sequencer]\nnote_length = 1.5\n", "sequencer.note_length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, _, _, err := config.Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolate(t)
	_, _, _, err := config.Load(writeConfig(t, "[visual]\nsparkle = true\n"))
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("sample file not found")
	}
	if cfg.Visual != config.Default().Visual {
		t.Fatalf("sample visual settings differ from defaults: %+v", cfg.Visual)
	}
}

func TestInitPathExpandsHome(t *testing.T) {
	home := isolate(t)

	tests := []struct {
		in   string
		want string
	}{
		{"", filepath.Join(home, ".config", "soundbox", "config.toml")},
		{"  ", filepath.Join(home, ".config", "soundbox", "config.toml")},
		{"~", home},
		{"~/alt/soundbox.toml", filepath.Join(home, "alt", "soundbox.toml")},
		{"rel.toml", filepath.Join(home, "rel.toml")},
	}
	for _, tt := range tests {
		got, err := config.InitPath(tt.in)
		if err != nil {
			t.Fatalf("InitPath(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("InitPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLocatePrefersUserFileOverProjectFile(t *testing.T) {
	home := isolate(t)
	project := filepath.Join(home, "soundbox.toml")
	if err := os.WriteFile(project, []byte("[audio]\nbpm = 90\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, exists, err := config.Locate("")
	if err != nil || !exists || got != project {
		t.Fatalf("Locate = %q, %v, %v; want project file", got, exists, err)
	}

	user := filepath.Join(home, ".config", "soundbox", "config.toml")
	if err := config.CreateSample(user); err != nil {
		t.Fatal(err)
	}
	got, exists, err = config.Locate("")
	if err != nil || !exists || got != user {
		t.Fatalf("Locate = %q, %v, %v; want user file", got, exists, err)
	}

	// An explicit path is reported even when it does not exist
	missing := filepath.Join(home, "missing.toml")
	got, exists, err = config.Locate(missing)
	if err != nil || exists || got != missing {
		t.Fatalf("Locate(%q) = %q, %v, %v", missing, got, exists, err)
	}
}
