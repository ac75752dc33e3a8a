package core

import (
	"fmt"
	"strings"
)

// PatternMode selects the dynamical system driving the particle field
type PatternMode int

const (
	PatternButterfly PatternMode = iota
	PatternClifford
	PatternDeJong
	PatternLorenz
	PatternSpiral
	PatternFlower
	PatternModeCount
)

var patternModeNames = [...]string{"butterfly", "clifford", "dejong", "lorenz", "spiral", "flower"}

func (m PatternMode) String() string {
	if m >= 0 && int(m) < len(patternModeNames) {
		return patternModeNames[m]
	}
	return "unknown"
}

// Next cycles to the following mode
func (m PatternMode) Next() PatternMode {
	return (m + 1) % PatternModeCount
}

// ParsePatternMode resolves a mode name, case-insensitive
func ParsePatternMode(s string) (PatternMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range patternModeNames {
		if n == name {
			return PatternMode(i), nil
		}
	}
	return PatternButterfly, fmt.Errorf("unknown pattern mode %q", s)
}

// ColorMode selects the procedural palette
type ColorMode int

const (
	ColorDefault ColorMode = iota
	ColorButterfly
	ColorMonarch
	ColorBlue
	ColorRainbow
	ColorFire
	ColorOcean
	ColorNeon
	ColorModeCount
)

var colorModeNames = [...]string{"default", "butterfly", "monarch", "blue", "rainbow", "fire", "ocean", "neon"}

func (c ColorMode) String() string {
	if c >= 0 && int(c) < len(colorModeNames) {
		return colorModeNames[c]
	}
	return "unknown"
}

// Next cycles to the following palette
func (c ColorMode) Next() ColorMode {
	return (c + 1) % ColorModeCount
}

// ParseColorMode resolves a palette name; empty selects the default palette
func ParseColorMode(s string) (ColorMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return ColorDefault, nil
	}
	for i, n := range colorModeNames {
		if n == name {
			return ColorMode(i), nil
		}
	}
	return ColorDefault, fmt.Errorf("unknown color mode %q", s)
}
