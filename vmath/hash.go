package vmath

// Hash is a djb2 rolling hash over the bytes of s: h = h*33 + c
// The accumulator wraps as a signed 32-bit integer and the absolute value is returned
func Hash(s string) uint32 {
	h := int32(5381)
	for i := 0; i < len(s); i++ {
		h = h*33 + int32(s[i])
	}
	if h < 0 {
		// -MinInt32 overflows int32, uint32 conversion yields 2^31 as required
		return uint32(-int64(h))
	}
	return uint32(h)
}

// SeededRandom maps seed to a float in [0,1) with the mulberry32 mixer
// Stateless: derive per-index streams with seed + index*stride
func SeededRandom(seed uint32) float64 {
	t := seed + 0x6D2B79F5
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// SeededSigned maps seed to [-1,1)
func SeededSigned(seed uint32) float64 {
	return SeededRandom(seed)*2 - 1
}
