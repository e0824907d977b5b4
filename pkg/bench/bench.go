// Package bench times the query procedures against each other on a live
// corpus. It is an offline tuning tool and never sits on the query path.
package bench

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/bastiangx/wordswords/pkg/index"
	"github.com/bastiangx/wordswords/pkg/query"
	"github.com/charmbracelet/log"
)

// ErrNoPatterns is returned when there is nothing to time.
var ErrNoPatterns = errors.New("no benchmark patterns")

// Options controls a benchmark run.
type Options struct {
	WarmupIters   int
	MeasuredIters int
	Procedures    []query.Procedure
	// Query is applied to every timed call; Procedure is overridden.
	Query query.Options
}

// DefaultOptions runs 3 warmup and 10 measured passes per procedure.
func DefaultOptions() Options {
	return Options{
		WarmupIters:   3,
		MeasuredIters: 10,
		Procedures:    query.Procedures,
		Query:         query.DefaultOptions(),
	}
}

// ProcedureStats summarizes the measured passes of one procedure.
type ProcedureStats struct {
	Procedure      query.Procedure `json:"procedure"`
	MeanPerQuery   time.Duration   `json:"mean_per_query"`
	MedianPerQuery time.Duration   `json:"median_per_query"`
	MeanMatches    float64         `json:"mean_matches"`
	MedianMatches  float64         `json:"median_matches"`
}

// Report is the outcome of Run.
type Report struct {
	Patterns      int              `json:"patterns"`
	Procedures    []ProcedureStats `json:"procedures"`
	BestProcedure query.Procedure  `json:"best_procedure"`
}

// Run times every procedure over the full pattern list. Each measured pass
// records the average time per query and the total match count; the best
// procedure has the lowest median time per query.
func Run(ctx context.Context, records []index.WordRecord, patterns []string, opts Options) (Report, error) {
	if len(patterns) == 0 {
		return Report{}, ErrNoPatterns
	}
	procs := opts.Procedures
	if len(procs) == 0 {
		procs = query.Procedures
	}
	measured := max(opts.MeasuredIters, 1)

	report := Report{Patterns: len(patterns)}
	for _, proc := range procs {
		qopts := opts.Query
		qopts.Procedure = proc

		for i := 0; i < opts.WarmupIters; i++ {
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}
			runPass(records, patterns, qopts)
		}

		perQuery := make([]float64, 0, measured)
		matches := make([]float64, 0, measured)
		for i := 0; i < measured; i++ {
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}
			start := time.Now()
			total := runPass(records, patterns, qopts)
			elapsed := time.Since(start)
			perQuery = append(perQuery, float64(elapsed)/float64(len(patterns)))
			matches = append(matches, float64(total))
		}

		stats := ProcedureStats{
			Procedure:      proc,
			MeanPerQuery:   time.Duration(mean(perQuery)),
			MedianPerQuery: time.Duration(median(perQuery)),
			MeanMatches:    mean(matches),
			MedianMatches:  median(matches),
		}
		log.Debugf("bench %s: median %v/query, %.0f matches", proc, stats.MedianPerQuery, stats.MedianMatches)
		report.Procedures = append(report.Procedures, stats)
	}

	best := report.Procedures[0]
	for _, s := range report.Procedures[1:] {
		if s.MedianPerQuery < best.MedianPerQuery {
			best = s
		}
	}
	report.BestProcedure = best.Procedure
	return report, nil
}

func runPass(records []index.WordRecord, patterns []string, opts query.Options) int {
	total := 0
	for _, p := range patterns {
		total += query.Run(records, p, opts).Total
	}
	return total
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
