package sequencer

import (
	"slices"
	"strings"
	"testing"
)

func durations(steps []Step) []int {
	out := make([]int, len(steps))
	for i, s := range steps {
		out[i] = s.Duration
	}
	return out
}

func TestAllocateDurations(t *testing.T) {
	tests := []struct {
		name   string
		digits string
		want   []int
	}{
		{"empty is one rest", "", []int{16}},
		{"single", "7", []int{16}},
		{"pair", "12", []int{8, 8}},
		{"three", "123", []int{5, 6, 5}},
		{"four", "1234", []int{4, 4, 4, 4}},
		{"five", "12321", []int{3, 3, 4, 3, 3}},
		{"six", "123456", []int{2, 3, 3, 3, 3, 2}},
		{"seven leftover to middle", "1234567", []int{2, 2, 2, 4, 2, 2, 2}},
		{"full bar", "1234567890123456", slices.Repeat([]int{1}, 16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := durations(Allocate(tt.digits))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Allocate(%q) = %v, want %v", tt.digits, got, tt.want)
			}
		})
	}
}

func TestAllocateFillsBarSymmetrically(t *testing.T) {
	for n := 1; n <= 16; n++ {
		digits := strings.Repeat("5", n)
		steps := Allocate(digits)
		if len(steps) != n {
			t.Fatalf("n=%d: %d steps", n, len(steps))
		}
		sum := 0
		for i, s := range steps {
			if s.Duration < 1 {
				t.Errorf("n=%d step %d duration %d", n, i, s.Duration)
			}
			if s.Offset != sum {
				t.Errorf("n=%d step %d offset %d, want %d", n, i, s.Offset, sum)
			}
			if s.Source != i {
				t.Errorf("n=%d step %d source %d", n, i, s.Source)
			}
			if mirror := steps[n-1-i].Duration; mirror != s.Duration {
				t.Errorf("n=%d asymmetric: d[%d]=%d d[%d]=%d", n, i, s.Duration, n-1-i, mirror)
			}
			sum += s.Duration
		}
		if sum != 16 {
			t.Errorf("n=%d: total %d, want 16", n, sum)
		}
	}
}

func TestAllocateOddCenterHeaviest(t *testing.T) {
	d := durations(Allocate("12321"))
	for i := 0; i < 2; i++ {
		if d[i] > d[i+1] {
			t.Errorf("duration increases outward at %d: %v", i, d)
		}
	}
	if d[2] != slices.Max(d) {
		t.Errorf("middle not largest: %v", d)
	}
}

func TestAllocateDownsample(t *testing.T) {
	digits := "123456789012345678"
	steps := Allocate(digits)
	if len(steps) != 16 {
		t.Fatalf("%d steps, want 16", len(steps))
	}
	seen := make(map[int]bool)
	for i, s := range steps {
		if s.Duration != 1 || s.Offset != i {
			t.Errorf("step %d = %+v", i, s)
		}
		if seen[s.Source] {
			t.Errorf("source %d repeated", s.Source)
		}
		seen[s.Source] = true
		if want := int(digits[s.Source] - '0'); s.Digit != want {
			t.Errorf("step %d digit %d, want %d", i, s.Digit, want)
		}
	}
	if steps[0].Source != 0 || steps[15].Source != len(digits)-1 {
		t.Errorf("span = [%d, %d], want [0, %d]", steps[0].Source, steps[15].Source, len(digits)-1)
	}
}

func TestAllocateEmptyIsRest(t *testing.T) {
	steps := Allocate("")
	if len(steps) != 1 || steps[0].Valid() || steps[0].Source != -1 {
		t.Errorf("empty = %+v", steps)
	}
}

func TestAllocateInvalidDigit(t *testing.T) {
	steps := Allocate("1x1")
	if steps[1].Valid() || steps[1].Digit != -1 {
		t.Errorf("non-digit step = %+v", steps[1])
	}
	if !steps[0].Valid() || steps[0].Digit != 1 {
		t.Errorf("digit step = %+v", steps[0])
	}
	if got := durations(steps); !slices.Equal(got, []int{5, 6, 5}) {
		t.Errorf("invalid digit changed timing: %v", got)
	}
}
