package vmath

import (
	"math"
	"testing"
)

func TestHashKnownValues(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 5381},
		{"1", 5381*33 + '1'},
		{"12", (5381*33+'1')*33 + '2'},
	}
	for _, tc := range tests {
		if got := Hash(tc.in); got != tc.want {
			t.Errorf("Hash(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestHashWrapsToAbsolute(t *testing.T) {
	// Long inputs overflow int32 many times; result must match a reference int32 fold
	s := "12345678901234567890123456789012345678901234567890"
	h := int32(5381)
	for i := 0; i < len(s); i++ {
		h = h*33 + int32(s[i])
	}
	want := int64(h)
	if want < 0 {
		want = -want
	}
	if got := Hash(s); int64(got) != want {
		t.Errorf("Hash = %d, want %d", got, want)
	}
}

func TestSeededRandomPureAndInRange(t *testing.T) {
	for seed := uint32(0); seed < 5000; seed += 7 {
		a := SeededRandom(seed)
		b := SeededRandom(seed)
		if a != b {
			t.Fatalf("SeededRandom(%d) not pure: %v != %v", seed, a, b)
		}
		if a < 0 || a >= 1 {
			t.Fatalf("SeededRandom(%d) = %v out of [0,1)", seed, a)
		}
	}
}

func TestSeededRandomSpreads(t *testing.T) {
	// Adjacent seeds must not produce adjacent outputs
	sum := 0.0
	const n = 10000
	for i := uint32(0); i < n; i++ {
		sum += SeededRandom(i)
	}
	mean := sum / n
	if math.Abs(mean-0.5) > 0.02 {
		t.Errorf("mean of consecutive seeds = %v, expected near 0.5", mean)
	}
	if SeededRandom(1) == SeededRandom(2) {
		t.Error("distinct seeds produced identical output")
	}
}

func TestClamp01NaN(t *testing.T) {
	if got := Clamp01(math.NaN()); got != 0 {
		t.Errorf("Clamp01(NaN) = %v, want 0", got)
	}
	if got := Clamp01(1.5); got != 1 {
		t.Errorf("Clamp01(1.5) = %v, want 1", got)
	}
}

func TestWrapDegrees(t *testing.T) {
	if got := WrapDegrees(-30); got != 330 {
		t.Errorf("WrapDegrees(-30) = %v, want 330", got)
	}
	if got := WrapDegrees(725); got != 5 {
		t.Errorf("WrapDegrees(725) = %v, want 5", got)
	}
}
