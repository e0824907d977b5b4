package config

import (
	"fmt"

	"github.com/bastiangx/wordswords/pkg/bench"
	"github.com/bastiangx/wordswords/pkg/query"
	"github.com/bastiangx/wordswords/pkg/rank"
)

// QueryOptions converts the engine section into query options.
// Unknown procedure or sort names are errors.
func (c *Config) QueryOptions() (query.Options, error) {
	proc, err := query.ParseProcedure(c.Engine.Procedure)
	if err != nil {
		return query.Options{}, fmt.Errorf("engine.procedure: %w", err)
	}
	key, err := rank.ParseSortKey(c.Engine.Sort)
	if err != nil {
		return query.Options{}, fmt.Errorf("engine.sort: %w", err)
	}
	return query.Options{
		TopN:        c.Engine.TopN,
		Procedure:   proc,
		Sort:        key,
		Direction:   rank.DirectionOf(c.Engine.Reverse),
		Restrictive: c.Engine.Restrictive,
	}, nil
}

// PatternOptions converts the bench section into sampling options.
func (c *Config) PatternOptions() bench.PatternOptions {
	b := c.Bench
	return bench.PatternOptions{
		Seed:          uint32(b.Seed),
		MinWordLen:    b.MinWordLen,
		MinPatternLen: b.MinPatternLen,
		MaxPatternLen: b.MaxPatternLen,
		PerLength:     b.PerLength,
	}
}

// BenchOptions converts the bench section into harness options.
func (c *Config) BenchOptions(q query.Options) bench.Options {
	return bench.Options{
		WarmupIters:   c.Bench.WarmupIters,
		MeasuredIters: c.Bench.MeasuredIters,
		Procedures:    query.Procedures,
		Query:         q,
	}
}
