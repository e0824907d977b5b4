// Package index builds the per-word structures used by subsequence search:
// a letter-presence mask and a next-occurrence table for every corpus word.
package index

// DefaultZipf is assigned to words missing from the frequency table.
// It sits far below any real English zipf score so unranked words sort last.
const DefaultZipf = -12.0

// AlphabetSize is the number of letters a normalized word may contain.
const AlphabetSize = 26

// NoPos marks "no further occurrence" in NextPos and FirstPos.
const NoPos int16 = -1

// WordRecord is one corpus word plus its precomputed search tables.
// Records are immutable once BuildIndexes has run.
type WordRecord struct {
	Word string
	Zipf float64
	Len  int
	Mask uint32
	// NextPos is a flat (Len+1)*26 table: NextPos[pos*26+c] is the smallest
	// index >= pos holding letter c, or NoPos.
	NextPos []int16
	// FirstPos[c] is the first index of letter c in Word, or NoPos.
	FirstPos []int16
}

// Indexed reports whether the record went through BuildIndexes.
func (r *WordRecord) Indexed() bool {
	return len(r.NextPos) == (r.Len+1)*AlphabetSize
}
