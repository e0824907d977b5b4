// Package query runs ranked subsequence searches over an indexed corpus.
//
// A query scans every record, rejects cheap misses by length (and, for the
// automaton procedure, by letter mask), confirms the match, counts it and
// offers it to a bounded top-N heap. Run never mutates the corpus and holds
// no state between calls, so concurrent queries over the same records are
// safe once indexing has finished.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bastiangx/wordswords/pkg/index"
	"github.com/bastiangx/wordswords/pkg/rank"
)

// Procedure selects how a candidate word is tested.
type Procedure int

const (
	// Baseline scans the word with two pointers.
	Baseline Procedure = iota
	// Automaton prunes by letter mask then walks the next-occurrence table.
	Automaton
)

// Procedures lists every procedure, in benchmark order.
var Procedures = []Procedure{Baseline, Automaton}

// ErrUnknownProcedure is returned by ParseProcedure.
var ErrUnknownProcedure = errors.New("unknown procedure")

func (p Procedure) String() string {
	switch p {
	case Baseline:
		return "baseline"
	case Automaton:
		return "automaton"
	}
	return fmt.Sprintf("Procedure(%d)", int(p))
}

// ParseProcedure maps "baseline" or "automaton" to a Procedure.
func ParseProcedure(s string) (Procedure, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "baseline":
		return Baseline, nil
	case "automaton", "":
		return Automaton, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProcedure, s)
}

// Options controls a single query.
type Options struct {
	// TopN caps the materialized results. <= 0 only counts matches.
	TopN      int
	Procedure Procedure
	Sort      rank.SortKey
	Direction rank.Direction
	// Restrictive additionally requires the first occurrences of the
	// pattern letters to be ordered. Automaton procedure only.
	Restrictive bool
}

// DefaultOptions mirrors the finder defaults: 20 results, tightest first.
func DefaultOptions() Options {
	return Options{TopN: 20, Procedure: Automaton, Sort: rank.SortGap}
}

// Result is the output of Run. Total counts every match in the corpus,
// independent of TopN.
type Result struct {
	Pattern string            `json:"pattern"`
	Results []rank.RankedWord `json:"results"`
	Total   int               `json:"total"`
}

// Run searches records for words containing patternRaw as a subsequence.
// An empty normalized pattern returns an empty result without scanning.
// Records that have not been through index.BuildIndexes are matched with
// the baseline scan whatever the procedure, and Restrictive does not apply
// to them.
func Run(records []index.WordRecord, patternRaw string, opts Options) Result {
	pattern := index.NormalizePattern(patternRaw)
	if pattern == "" {
		return Result{Results: []rank.RankedWord{}}
	}
	return run(records, pattern, opts)
}

func run(records []index.WordRecord, pattern string, opts Options) Result {
	top := rank.NewTopN(opts.TopN, rank.Comparator(opts.Sort, opts.Direction))
	patternMask := index.LetterMask(pattern)
	plen := len(pattern)
	total := 0

	for i := range records {
		rec := &records[i]
		if rec.Len < plen {
			continue
		}
		if opts.Procedure == Automaton && rec.Indexed() {
			if patternMask&^rec.Mask != 0 {
				continue
			}
			if opts.Restrictive && !index.FirstPosOrdered(pattern, rec) {
				continue
			}
			if !index.IsSubsequenceAutomaton(pattern, rec) {
				continue
			}
		} else if !index.IsSubsequenceBaseline(pattern, rec.Word) {
			continue
		}

		total++
		if opts.TopN <= 0 {
			continue
		}
		top.Offer(rank.RankedWord{
			Word: rec.Word,
			Zipf: rec.Zipf,
			Gap:  rec.Len - plen,
			Len:  rec.Len,
		})
	}

	return Result{Pattern: pattern, Results: top.Sorted(), Total: total}
}

// Count returns only the total match count for patternRaw.
func Count(records []index.WordRecord, patternRaw string, opts Options) int {
	opts.TopN = 0
	return Run(records, patternRaw, opts).Total
}
