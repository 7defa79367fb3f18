// Package invite generates household invite codes.
package invite

import (
	"crypto/rand"
	"fmt"
)

// Alphabet is the set of characters invite codes are drawn from. Visually
// ambiguous characters (0, O, I) are excluded.
const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// Length is the fixed length of every invite code.
const Length = 8

// maxUnbiased is the largest multiple of len(Alphabet) that fits in a
// byte. Random bytes at or above it are rejected to keep the sampling
// uniform.
const maxUnbiased = 256 - 256%len(Alphabet)

// NewCode generates a random invite code by uniformly sampling Alphabet.
func NewCode() (string, error) {
	code := make([]byte, 0, Length)
	buf := make([]byte, Length)

	for len(code) < Length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		for _, b := range buf {
			if len(code) == Length {
				break
			}
			if int(b) >= maxUnbiased {
				continue
			}
			code = append(code, Alphabet[int(b)%len(Alphabet)])
		}
	}
	return string(code), nil
}

// IsValid reports whether s has the shape of an invite code: exactly
// Length characters, all from Alphabet.
func IsValid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !inAlphabet(s[i]) {
			return false
		}
	}
	return true
}

func inAlphabet(c byte) bool {
	for i := 0; i < len(Alphabet); i++ {
		if Alphabet[i] == c {
			return true
		}
	}
	return false
}
