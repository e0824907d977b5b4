package index

// IsSubsequenceBaseline is the two-pointer scan over word.
// An empty pattern is vacuously contained.
func IsSubsequenceBaseline(pattern, word string) bool {
	if len(pattern) > len(word) {
		return false
	}
	if len(pattern) == 0 {
		return true
	}
	idx := 0
	for i := 0; i < len(word); i++ {
		if word[i] == pattern[idx] {
			idx++
			if idx == len(pattern) {
				return true
			}
		}
	}
	return false
}

// IsSubsequenceAutomaton walks rec.NextPos once per pattern letter.
// Greedy earliest match is enough to decide containment.
// rec must be indexed (see WordRecord.Indexed).
func IsSubsequenceAutomaton(pattern string, rec *WordRecord) bool {
	if len(pattern) > rec.Len {
		return false
	}
	pos := 0
	for i := 0; i < len(pattern); i++ {
		code := int(pattern[i]) - 'a'
		if code < 0 || code >= AlphabetSize {
			return false
		}
		next := rec.NextPos[pos*AlphabetSize+code]
		if next == NoPos {
			return false
		}
		pos = int(next) + 1
	}
	return true
}

// FirstPosOrdered reports whether the first occurrences of the pattern
// letters in rec are in non-decreasing order. rec must be indexed.
func FirstPosOrdered(pattern string, rec *WordRecord) bool {
	last := int16(-1)
	for i := 0; i < len(pattern); i++ {
		code := int(pattern[i]) - 'a'
		if code < 0 || code >= AlphabetSize {
			return false
		}
		pos := rec.FirstPos[code]
		if pos == NoPos || pos < last {
			return false
		}
		last = pos
	}
	return true
}
