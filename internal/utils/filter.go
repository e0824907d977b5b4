package utils

import (
	"unicode"
)

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsLetter checks if a string has at least one ASCII letter
func ContainsLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// IsValidInput checks if raw CLI input is worth running as a pattern.
// Inputs with no ASCII letter would normalize to the empty pattern.
func IsValidInput(s string) bool {
	if len(s) == 0 || IsOnlyNumbers(s) {
		return false
	}
	return ContainsLetter(s)
}
