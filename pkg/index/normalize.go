package index

import "strings"

// NormalizeWord lowercases and trims a raw corpus entry.
func NormalizeWord(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizePattern lowercases and drops every byte outside a-z.
// The result may be empty.
func NormalizePattern(raw string) string {
	lower := strings.ToLower(raw)
	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'z' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsNormalized reports whether s matches ^[a-z]+$.
func IsNormalized(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
