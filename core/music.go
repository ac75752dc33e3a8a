package core

import (
	"fmt"
	"strings"
)

// InstrumentType identifies drum synthesizer presets
type InstrumentType int

const (
	InstrKick InstrumentType = iota
	InstrHihat
	InstrSnare
	InstrClap
	InstrumentCount
)

func (i InstrumentType) String() string {
	names := [...]string{"kick", "hihat", "snare", "clap"}
	if i >= 0 && int(i) < len(names) {
		return names[i]
	}
	return "unknown"
}

// BeatStyle selects the drum groove; any style other than BeatNone locks the sequencer to the bar grid
type BeatStyle int

const (
	BeatNone BeatStyle = iota
	BeatBasic
	BeatDriving
	BeatBreakbeat
	BeatHalftime
	BeatStyleCount
)

var beatStyleNames = [...]string{"none", "basic", "driving", "breakbeat", "halftime"}

func (b BeatStyle) String() string {
	if b >= 0 && int(b) < len(beatStyleNames) {
		return beatStyleNames[b]
	}
	return "unknown"
}

// Locked reports whether the style requires beat-locked scheduling
func (b BeatStyle) Locked() bool {
	return b != BeatNone
}

// ParseBeatStyle resolves a style name, case-insensitive
func ParseBeatStyle(s string) (BeatStyle, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return BeatNone, nil
	}
	for i, n := range beatStyleNames {
		if n == name {
			return BeatStyle(i), nil
		}
	}
	return BeatNone, fmt.Errorf("unknown beat style %q", s)
}

// PlaybackState is the sequencer transport state
type PlaybackState int

const (
	StateStopped PlaybackState = iota
	StatePlaying
	StatePaused
)

func (s PlaybackState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}
