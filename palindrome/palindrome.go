// Package palindrome turns the active digit sequences into the mirrored
// string that seeds the visual signature.
package palindrome

import (
	"strings"

	"github.com/lixenwraith/soundbox/parameter"
)

// Combine concatenates the non-empty sequences in order
// Only the first parameter.MaxActiveSequences non-empty entries are used
func Combine(seqs []string) string {
	var b strings.Builder
	used := 0
	for _, s := range seqs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if used == parameter.MaxActiveSequences {
			break
		}
		b.WriteString(s)
		used++
	}
	return b.String()
}

// Mirror reflects s around its middle: the first half, middle digit included,
// followed by its reversal. An odd-length input therefore doubles its middle digit
func Mirror(s string) string {
	if s == "" {
		return ""
	}
	h := s[:(len(s)+1)/2]
	n := len(h)
	out := make([]byte, 2*n)
	copy(out, h)
	for i := 0; i < n; i++ {
		out[n+i] = h[n-1-i]
	}
	return string(out)
}

// Build combines the active sequences and mirrors the result
func Build(seqs []string) string {
	return Mirror(Combine(seqs))
}

// IsPalindrome reports whether s equals its own reversal
func IsPalindrome(s string) bool {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		if s[i] != s[j] {
			return false
		}
	}
	return true
}

// Active returns the non-empty trimmed sequences, capped like Combine
func Active(seqs []string) []string {
	out := make([]string, 0, len(seqs))
	for _, s := range seqs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if len(out) == parameter.MaxActiveSequences {
			break
		}
		out = append(out, s)
	}
	return out
}
