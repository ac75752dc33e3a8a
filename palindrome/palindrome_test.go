package palindrome

import "testing"

func TestBuildProducesPalindrome(t *testing.T) {
	tests := []struct {
		name string
		seqs []string
		want string
	}{
		{"even", []string{"12", "34"}, "1221"},
		{"odd", []string{"123"}, "1221"},
		{"odd across sequences", []string{"12", "345"}, "123321"},
		{"skips empty", []string{"", "7", " ", "89"}, "7887"},
		{"empty", nil, ""},
		{"single digit", []string{"5"}, "55"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Build(tc.seqs)
			if got != tc.want {
				t.Errorf("Build(%q) = %q, want %q", tc.seqs, got, tc.want)
			}
			if !IsPalindrome(got) {
				t.Errorf("Build(%q) = %q is not a palindrome", tc.seqs, got)
			}
		})
	}
}

func TestMirrorDoublesMiddleDigit(t *testing.T) {
	tests := []struct{ in, want string }{
		{"123", "1221"},
		{"12345", "123321"},
		{"1234", "1221"},
		{"9", "99"},
	}
	for _, tc := range tests {
		if got := Mirror(tc.in); got != tc.want {
			t.Errorf("Mirror(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCombineCapsActiveSequences(t *testing.T) {
	got := Combine([]string{"1", "2", "3", "4", "5", "6"})
	if got != "12345" {
		t.Errorf("Combine = %q, want %q", got, "12345")
	}
	if n := len(Active([]string{"1", "", "2", "3", "4", "5", "6"})); n != 5 {
		t.Errorf("Active returned %d sequences, want 5", n)
	}
}

func TestIsPalindrome(t *testing.T) {
	for _, s := range []string{"", "1", "11", "121", "1221"} {
		if !IsPalindrome(s) {
			t.Errorf("IsPalindrome(%q) = false", s)
		}
	}
	for _, s := range []string{"12", "123", "1231"} {
		if IsPalindrome(s) {
			t.Errorf("IsPalindrome(%q) = true", s)
		}
	}
}
