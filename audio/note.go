package audio

import (
	"math"
	"strconv"

	"github.com/lixenwraith/soundbox/parameter"
)

// NoteFrequencies contains precomputed frequencies for MIDI notes 0-127
// A4 (note 69) = 440Hz, equal temperament
var NoteFrequencies [128]float64

func init() {
	for i := range NoteFrequencies {
		NoteFrequencies[i] = 440.0 * math.Exp2((float64(i)-69.0)/12.0)
	}
}

// NoteFreq returns frequency in Hz for MIDI note number
func NoteFreq(midi int) float64 {
	if midi < 0 || midi >= 128 {
		return 0
	}
	return NoteFrequencies[midi]
}

// DigitFreq maps a digit onto the two-octave pentatonic scale rooted at C4; other values return 0
func DigitFreq(digit int) float64 {
	if digit < 0 || digit >= len(parameter.DigitScale) {
		return 0
	}
	return NoteFreq(parameter.MIDINote(parameter.DigitScale[digit], parameter.OctaveMid))
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns scientific pitch notation for a MIDI note, e.g. "C4"
func NoteName(midi int) string {
	if midi < 0 || midi >= 128 {
		return ""
	}
	return noteNames[midi%12] + strconv.Itoa(midi/12-1)
}

// DigitNote returns the pitch name a digit sounds, empty for non-digits
func DigitNote(digit int) string {
	if digit < 0 || digit >= len(parameter.DigitScale) {
		return ""
	}
	return NoteName(parameter.MIDINote(parameter.DigitScale[digit], parameter.OctaveMid))
}
