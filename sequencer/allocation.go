// Package sequencer fits digit sequences onto a 16-step bar and schedules
// their notes, either free-running or locked to the audio beat grid.
package sequencer

import (
	"math"

	"github.com/lixenwraith/soundbox/parameter"
)

// Step is one note of an allocated pattern
type Step struct {
	Source   int // index into the digit string, -1 for a whole-bar rest
	Digit    int // 0-9, or -1 when the character is not a digit
	Duration int // length in steps, at least 1
	Offset   int // first step of the note within the bar
}

// Valid reports whether the step sounds a tone
func (s Step) Valid() bool { return s.Digit >= 0 }

// Allocate fits digits onto exactly parameter.StepsPerBar steps
// Up to 16 digits each keep one step and the remainder is spread symmetrically from the center;
// longer strings are downsampled by nearest index, one step each
func Allocate(digits string) []Step {
	const target = parameter.StepsPerBar
	n := len(digits)

	if n == 0 {
		return []Step{{Source: -1, Digit: -1, Duration: target}}
	}

	if n > target {
		steps := make([]Step, target)
		for i := range steps {
			src := int(math.Round(float64(i*(n-1)) / float64(target-1)))
			steps[i] = Step{Source: src, Digit: digitValue(digits[src]), Duration: 1, Offset: i}
		}
		return steps
	}

	durations := make([]int, n)
	for i := range durations {
		durations[i] = 1
	}
	distribute(durations, target-n)

	steps := make([]Step, n)
	offset := 0
	for i := range steps {
		steps[i] = Step{Source: i, Digit: digitValue(digits[i]), Duration: durations[i], Offset: offset}
		offset += durations[i]
	}
	return steps
}

// slot is a priority entry: a lone middle index (b < 0) or a symmetric pair
type slot struct {
	a, b int
}

// priority lists the center-out distribution order for n digits
func priority(n int) []slot {
	var order []slot
	if n%2 == 1 {
		mid := n / 2
		order = append(order, slot{a: mid, b: -1})
		for d := 1; mid-d >= 0; d++ {
			order = append(order, slot{a: mid - d, b: mid + d})
		}
		return order
	}
	mid := n/2 - 1
	for d := 0; mid-d >= 0; d++ {
		order = append(order, slot{a: mid - d, b: mid + 1 + d})
	}
	return order
}

// distribute hands out extra steps cycling through the priority list
// Pairs take two at a time; a single leftover goes to the middle
func distribute(durations []int, extra int) {
	n := len(durations)
	order := priority(n)
	for i := 0; extra > 0; i = (i + 1) % len(order) {
		s := order[i]
		switch {
		case s.b < 0:
			durations[s.a]++
			extra--
		case extra >= 2:
			durations[s.a]++
			durations[s.b]++
			extra -= 2
		default:
			// Only reachable for odd n, which always has a middle
			durations[n/2]++
			extra--
		}
	}
}

func digitValue(c byte) int {
	if c < '0' || c > '9' {
		return -1
	}
	return int(c - '0')
}
