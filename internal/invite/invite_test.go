package invite

import (
	"strings"
	"testing"
)

func TestNewCode(t *testing.T) {
	t.Run("length_and_alphabet", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			code, err := NewCode()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(code) != Length {
				t.Fatalf("expected %d characters, got %d (%q)", Length, len(code), code)
			}
			for _, c := range code {
				if !strings.ContainsRune(Alphabet, c) {
					t.Fatalf("character %q of code %q is outside the alphabet", c, code)
				}
			}
		}
	})

	t.Run("codes_vary", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			code, err := NewCode()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			seen[code] = true
		}
		// 50 draws from a 33^8 space colliding down to one value would
		// mean the generator is broken.
		if len(seen) < 2 {
			t.Errorf("expected distinct codes, got %d unique out of 50", len(seen))
		}
	})
}

func TestAlphabetExcludesAmbiguousCharacters(t *testing.T) {
	if len(Alphabet) != 33 {
		t.Fatalf("expected 33-character alphabet, got %d", len(Alphabet))
	}
	for _, c := range "0OI" {
		if strings.ContainsRune(Alphabet, c) {
			t.Errorf("alphabet must not contain %q", c)
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"valid", "AB3DE7FH", true},
		{"too_short", "AB3DE7F", false},
		{"too_long", "AB3DE7FHX", false},
		{"ambiguous_zero", "AB3DE7F0", false},
		{"ambiguous_oh", "AB3DE7FO", false},
		{"lowercase", "ab3de7fh", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.code); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
