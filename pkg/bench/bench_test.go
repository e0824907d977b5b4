package bench

import (
	"context"
	"testing"

	"github.com/bastiangx/wordswords/pkg/index"
	"github.com/bastiangx/wordswords/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var benchWords = []string{
	"abandon", "ability", "absolute", "academic", "accident", "cat", "dog",
	"elephant", "favorite", "generous", "hospital", "industry", "junction",
	"keyboard", "language", "magnetic", "national", "ordinary", "painting",
}

func corpus(t *testing.T) []index.WordRecord {
	t.Helper()
	records, err := index.Build(context.Background(), benchWords, nil)
	require.NoError(t, err)
	return records
}

func TestXorshift32(t *testing.T) {
	a, b := newXorshift32(7), newXorshift32(7)
	for range 100 {
		require.Equal(t, a.next(), b.next())
	}
	zero := newXorshift32(0)
	assert.NotZero(t, zero.next())

	r := newXorshift32(1)
	for range 1000 {
		v := r.intn(5)
		require.True(t, v >= 0 && v < 5)
	}
}

func TestBuildPatterns(t *testing.T) {
	records := corpus(t)
	opts := DefaultPatternOptions()
	patterns := BuildPatterns(records, opts)
	require.Len(t, patterns, (opts.MaxPatternLen-opts.MinPatternLen+1)*opts.PerLength)

	for i, p := range patterns {
		wantLen := opts.MinPatternLen + i/opts.PerLength
		assert.Len(t, p, wantLen)
		assert.Positive(t, query.Count(records, p, query.DefaultOptions()), "pattern %q has no match", p)
	}

	assert.Equal(t, patterns, BuildPatterns(records, opts), "same seed, same patterns")
	opts.Seed = 99
	assert.NotEqual(t, patterns, BuildPatterns(records, opts))
}

func TestBuildPatternsNoEligibleWords(t *testing.T) {
	records, err := index.Build(context.Background(), []string{"cat", "dog"}, nil)
	require.NoError(t, err)
	assert.Nil(t, BuildPatterns(records, DefaultPatternOptions()))

	bad := DefaultPatternOptions()
	bad.MaxPatternLen = 2
	assert.Nil(t, BuildPatterns(corpus(t), bad))
}

func TestRun(t *testing.T) {
	records := corpus(t)
	patterns := BuildPatterns(records, DefaultPatternOptions())

	opts := DefaultOptions()
	opts.WarmupIters = 1
	opts.MeasuredIters = 3
	report, err := Run(context.Background(), records, patterns, opts)
	require.NoError(t, err)

	assert.Equal(t, len(patterns), report.Patterns)
	require.Len(t, report.Procedures, len(query.Procedures))
	best := report.Procedures[0]
	for _, s := range report.Procedures {
		assert.Positive(t, s.MeanMatches)
		if s.MedianPerQuery < best.MedianPerQuery {
			best = s
		}
	}
	assert.Equal(t, best.Procedure, report.BestProcedure)
	// both procedures find the same matches
	assert.Equal(t, report.Procedures[0].MedianMatches, report.Procedures[1].MedianMatches)
}

func TestRunErrors(t *testing.T) {
	records := corpus(t)
	_, err := Run(context.Background(), records, nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoPatterns)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, records, []string{"abc"}, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, median(nil))
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 2.5, mean([]float64{4, 1, 3, 2}))
}
