// Package analysis aggregates statistics over every fixed-length pattern
// that occurs as a subsequence of some corpus word.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"slices"
	"strings"

	"github.com/bastiangx/wordswords/pkg/index"
	"github.com/charmbracelet/log"
)

// MaxPatternLen bounds n; enumeration is combinatorial in the word length.
const MaxPatternLen = 8

// ErrPatternLength is returned for n outside 1..MaxPatternLen.
var ErrPatternLength = errors.New("pattern length out of range")

// Stage names a phase of Analyze.
type Stage string

const (
	StageInit     Stage = "init"
	StageCollect  Stage = "collect"
	StageBranch   Stage = "branch"
	StageFinalize Stage = "finalize"
)

// Progress is reported to the caller while Analyze runs.
type Progress struct {
	Stage          Stage
	Fraction       float64
	Processed      int
	Total          int
	PatternsFound  int
	BranchPrefixes int
	CurrentWord    string
}

// TopWord is one of the most frequent words containing a pattern.
type TopWord struct {
	Word string  `json:"word"`
	Zipf float64 `json:"zipf"`
}

// PatternStats describes one pattern of length n.
type PatternStats struct {
	Pattern     string    `json:"pattern"`
	Count       int       `json:"count"`
	TopWords    []TopWord `json:"top_words"`
	BestGap     int       `json:"best_gap"`
	BestGapWord string    `json:"best_gap_word"`
	MedianGap   int       `json:"median_gap"`
	// BranchMask has bit c set when pattern+c is itself a subsequence of
	// some corpus word.
	BranchMask  uint32  `json:"branch_mask"`
	BranchCount int     `json:"branch_count"`
	TopZipf     float64 `json:"top_zipf"`
	// Dominance is the zipf lead of the first top word over the third.
	Dominance   float64 `json:"dominance"`
	Structure   string  `json:"structure"`
	VowelCount  int     `json:"vowel_count"`
	VCPattern   string  `json:"vc_pattern"`
	Alternating bool    `json:"alternating"`
	HasRare     bool    `json:"has_rare"`

	bestGapZipf float64
	gapCounts   []int
}

// Result holds the stats of every pattern that occurs at least once,
// sorted by pattern.
type Result struct {
	N               int            `json:"n"`
	MaxLen          int            `json:"max_len"`
	TotalPatterns   float64        `json:"total_patterns"`
	NonZeroPatterns int            `json:"non_zero_patterns"`
	Patterns        []PatternStats `json:"patterns"`
}

const collectReportEvery = 120

// Analyze enumerates the distinct length-n subsequences of every record and
// aggregates them. progress may be nil.
func Analyze(ctx context.Context, records []index.WordRecord, n int, progress func(Progress)) (*Result, error) {
	if n < 1 || n > MaxPatternLen {
		return nil, fmt.Errorf("%w: %d", ErrPatternLength, n)
	}
	emit := func(p Progress) {
		if progress != nil {
			progress(p)
		}
	}

	emit(Progress{Stage: StageInit})
	maxLen := 0
	for i := range records {
		maxLen = max(maxLen, records[i].Len)
	}
	emit(Progress{Stage: StageInit, Fraction: 1})

	byPattern := make(map[string]*PatternStats)
	emit(Progress{Stage: StageCollect, Total: len(records)})
	for r := range records {
		rec := &records[r]
		if rec.Len >= n && index.IsNormalized(rec.Word) {
			gap := rec.Len - n
			for pattern := range subsequences(rec.Word, n) {
				stats, ok := byPattern[pattern]
				if !ok {
					stats = newPatternStats(pattern, maxLen-n)
					byPattern[pattern] = stats
				}
				stats.add(rec, gap)
			}
		}
		if r%collectReportEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			emit(Progress{
				Stage:         StageCollect,
				Fraction:      float64(r+1) / float64(len(records)),
				Processed:     r + 1,
				Total:         len(records),
				PatternsFound: len(byPattern),
				CurrentWord:   rec.Word,
			})
		}
	}
	emit(Progress{Stage: StageCollect, Fraction: 1, Processed: len(records), Total: len(records)})

	emit(Progress{Stage: StageBranch})
	if n+1 <= maxLen {
		for r := range records {
			rec := &records[r]
			if rec.Len < n+1 || !index.IsNormalized(rec.Word) {
				continue
			}
			if r%collectReportEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			for pattern := range subsequences(rec.Word, n+1) {
				if stats, ok := byPattern[pattern[:n]]; ok {
					stats.BranchMask |= 1 << (pattern[n] - 'a')
				}
			}
		}
	}
	emit(Progress{Stage: StageBranch, Fraction: 1, BranchPrefixes: len(byPattern)})

	result := &Result{
		N:               n,
		MaxLen:          maxLen,
		TotalPatterns:   math.Pow(index.AlphabetSize, float64(n)),
		NonZeroPatterns: len(byPattern),
		Patterns:        make([]PatternStats, 0, len(byPattern)),
	}
	emit(Progress{Stage: StageFinalize, Total: len(byPattern)})
	for _, stats := range byPattern {
		stats.finalize()
		result.Patterns = append(result.Patterns, *stats)
	}
	slices.SortFunc(result.Patterns, func(a, b PatternStats) int {
		return strings.Compare(a.Pattern, b.Pattern)
	})
	emit(Progress{Stage: StageFinalize, Fraction: 1, Processed: len(byPattern), Total: len(byPattern)})

	log.Debugf("Analyzed n=%d: %d of %.0f patterns occur", n, result.NonZeroPatterns, result.TotalPatterns)
	return result, nil
}

func newPatternStats(pattern string, maxGap int) *PatternStats {
	s := &PatternStats{
		Pattern:     pattern,
		BestGap:     math.MaxInt,
		TopZipf:     index.DefaultZipf,
		bestGapZipf: math.Inf(-1),
		Structure:   canonicalStructure(pattern),
		gapCounts:   make([]int, maxGap+1),
	}
	var vc strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if isVowel(c) {
			s.VowelCount++
			vc.WriteByte('V')
		} else {
			vc.WriteByte('C')
		}
		if isRare(c) {
			s.HasRare = true
		}
	}
	s.VCPattern = vc.String()
	s.Alternating = true
	for i := 1; i < len(s.VCPattern); i++ {
		if s.VCPattern[i] == s.VCPattern[i-1] {
			s.Alternating = false
			break
		}
	}
	return s
}

func (s *PatternStats) add(rec *index.WordRecord, gap int) {
	s.Count++
	s.gapCounts[gap]++
	if gap < s.BestGap || (gap == s.BestGap && rec.Zipf > s.bestGapZipf) {
		s.BestGap = gap
		s.BestGapWord = rec.Word
		s.bestGapZipf = rec.Zipf
	}
	s.addTopWord(rec.Word, rec.Zipf)
}

// addTopWord keeps the three most frequent distinct words.
func (s *PatternStats) addTopWord(word string, zipf float64) {
	for _, tw := range s.TopWords {
		if tw.Word == word {
			return
		}
	}
	s.TopWords = append(s.TopWords, TopWord{Word: word, Zipf: zipf})
	slices.SortStableFunc(s.TopWords, func(a, b TopWord) int {
		if a.Zipf != b.Zipf {
			if a.Zipf > b.Zipf {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Word, b.Word)
	})
	if len(s.TopWords) > 3 {
		s.TopWords = s.TopWords[:3]
	}
}

func (s *PatternStats) finalize() {
	if len(s.TopWords) > 0 {
		s.TopZipf = s.TopWords[0].Zipf
	}
	if len(s.TopWords) >= 3 {
		s.Dominance = s.TopWords[0].Zipf - s.TopWords[2].Zipf
	}
	s.BranchCount = bits.OnesCount32(s.BranchMask)
	s.MedianGap = medianGap(s.gapCounts, s.Count)
	s.gapCounts = nil
}

func medianGap(counts []int, total int) int {
	if total == 0 {
		return 0
	}
	target := (total - 1) / 2
	acc := 0
	for gap, c := range counts {
		acc += c
		if acc > target {
			return gap
		}
	}
	return len(counts) - 1
}

// canonicalStructure relabels letters by first appearance: "noon" -> "ABBA".
func canonicalStructure(pattern string) string {
	var labels [index.AlphabetSize]byte
	next := byte('A')
	out := make([]byte, len(pattern))
	for i := 0; i < len(pattern); i++ {
		c := pattern[i] - 'a'
		if labels[c] == 0 {
			labels[c] = next
			next++
		}
		out[i] = labels[c]
	}
	return string(out)
}

func isVowel(c byte) bool {
	return c == 'a' || c == 'e' || c == 'i' || c == 'o' || c == 'u'
}

func isRare(c byte) bool {
	return c == 'j' || c == 'q' || c == 'x' || c == 'z'
}
