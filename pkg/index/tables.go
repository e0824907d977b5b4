package index

// LetterMask sets bit c for every letter c present in word.
// Bytes outside a-z are skipped.
func LetterMask(word string) uint32 {
	var mask uint32
	for i := 0; i < len(word); i++ {
		code := int(word[i]) - 'a'
		if code >= 0 && code < AlphabetSize {
			mask |= 1 << code
		}
	}
	return mask
}

// BuildNextPos builds the (len+1)*26 next-occurrence table for word by
// scanning right to left. Row len is all NoPos.
func BuildNextPos(word string) []int16 {
	n := len(word)
	next := make([]int16, (n+1)*AlphabetSize)
	var last [AlphabetSize]int16
	for c := range last {
		last[c] = NoPos
	}
	copy(next[n*AlphabetSize:], last[:])
	for i := n - 1; i >= 0; i-- {
		code := int(word[i]) - 'a'
		if code >= 0 && code < AlphabetSize {
			last[code] = int16(i)
		}
		copy(next[i*AlphabetSize:(i+1)*AlphabetSize], last[:])
	}
	return next
}

// BuildFirstPos records the first index of each letter in word.
func BuildFirstPos(word string) []int16 {
	first := make([]int16, AlphabetSize)
	for c := range first {
		first[c] = NoPos
	}
	for i := 0; i < len(word); i++ {
		code := int(word[i]) - 'a'
		if code >= 0 && code < AlphabetSize && first[code] == NoPos {
			first[code] = int16(i)
		}
	}
	return first
}
