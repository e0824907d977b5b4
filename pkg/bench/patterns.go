package bench

import (
	"slices"

	"github.com/bastiangx/wordswords/pkg/index"
)

// PatternOptions controls benchmark pattern sampling.
type PatternOptions struct {
	Seed          uint32
	MinWordLen    int
	MinPatternLen int
	MaxPatternLen int
	PerLength     int
}

// DefaultPatternOptions samples ten patterns of each length 3..6 from words
// of length >= 6.
func DefaultPatternOptions() PatternOptions {
	return PatternOptions{
		Seed:          1337,
		MinWordLen:    6,
		MinPatternLen: 3,
		MaxPatternLen: 6,
		PerLength:     10,
	}
}

// BuildPatterns samples true subsequences of corpus words, so every pattern
// has at least one match. Output is a pure function of records and opts.
// It returns nil when no word is long enough.
func BuildPatterns(records []index.WordRecord, opts PatternOptions) []string {
	minWord := max(opts.MinWordLen, opts.MaxPatternLen)
	var eligible []int
	for i := range records {
		if records[i].Len >= minWord {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 || opts.PerLength <= 0 || opts.MinPatternLen <= 0 || opts.MaxPatternLen < opts.MinPatternLen {
		return nil
	}

	rng := newXorshift32(opts.Seed)
	patterns := make([]string, 0, (opts.MaxPatternLen-opts.MinPatternLen+1)*opts.PerLength)
	for n := opts.MinPatternLen; n <= opts.MaxPatternLen; n++ {
		for k := 0; k < opts.PerLength; k++ {
			word := records[eligible[rng.intn(len(eligible))]].Word
			patterns = append(patterns, sampleSubsequence(rng, word, n))
		}
	}
	return patterns
}

// sampleSubsequence picks n distinct positions of word and keeps their order.
func sampleSubsequence(rng *xorshift32, word string, n int) string {
	positions := make([]int, len(word))
	for i := range positions {
		positions[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + rng.intn(len(positions)-i)
		positions[i], positions[j] = positions[j], positions[i]
	}
	picked := positions[:n]
	slices.Sort(picked)

	buf := make([]byte, n)
	for i, p := range picked {
		buf[i] = word[p]
	}
	return string(buf)
}
