package parameter

import (
	"time"
)

// Tempo and Timing
const (
	DefaultBPM      = 120
	MinBPM          = 40
	MaxBPM          = 240
	StepsPerBeat    = 4                          // 16th notes
	BeatsPerBar     = 4                          // 4/4 time
	StepsPerBar     = StepsPerBeat * BeatsPerBar // 16 steps
	DefaultTempoMul = 1.0
	MinTempoMul     = 0.25
	MaxTempoMul     = 4.0
)

// Sequencer
const (
	// MaxActiveSequences bounds how many digit sequences feed the palindrome
	MaxActiveSequences = 5

	// DefaultNoteLength is the fraction of a note's allotted time that the tone sounds
	DefaultNoteLength = 0.9

	// DefaultLookahead is how early a beat-locked bar is handed to the audio engine
	DefaultLookahead = 50 * time.Millisecond
)

// StepDuration returns the length of one 16th step: 60/(bpm*4), divided by the tempo multiplier
func StepDuration(bpm int, tempoMul float64) time.Duration {
	if bpm < MinBPM {
		bpm = MinBPM
	} else if bpm > MaxBPM {
		bpm = MaxBPM
	}
	if tempoMul <= 0 {
		tempoMul = DefaultTempoMul
	}
	seconds := 60.0 / float64(bpm*StepsPerBeat) / tempoMul
	return time.Duration(seconds * float64(time.Second))
}

// SamplesPerStep converts step duration to audio samples
func SamplesPerStep(sampleRate, bpm int, tempoMul float64) int {
	n := int(StepDuration(bpm, tempoMul).Seconds() * float64(sampleRate))
	if n < 1 {
		return 1
	}
	return n
}

// Note names (semitone offset within octave)
const (
	NoteC = 0
	NoteD = 2
	NoteE = 4
	NoteG = 7
	NoteA = 9
)

// Octave constants (MIDI octave numbering)
const (
	OctaveLow  = 3 // C3 = 48, ~131Hz
	OctaveMid  = 4 // C4 = 60, ~262Hz (Middle C)
	OctaveHigh = 5 // C5 = 72, ~523Hz
)

// MIDINote computes MIDI note number from note + octave
func MIDINote(note, octave int) int {
	return (octave+1)*12 + note // C-1 = 0, C4 = 60
}

// DigitScale maps digits 0-9 onto two octaves of the major pentatonic scale
var DigitScale = [10]int{
	NoteC, NoteD, NoteE, NoteG, NoteA,
	NoteC + 12, NoteD + 12, NoteE + 12, NoteG + 12, NoteA + 12,
}

// Drum envelope defaults (seconds)
const (
	KickDecay  = 0.15
	HihatDecay = 0.08
	SnareDecay = 0.12
	ClapDecay  = 0.10
)
