package query

import (
	"context"

	"github.com/bastiangx/wordswords/pkg/index"
	"golang.org/x/sync/errgroup"
)

// Hint is the match count of the pattern extended by one letter.
type Hint struct {
	Letter byte `json:"letter" msgpack:"c"`
	Total  int  `json:"total" msgpack:"t"`
}

// Hints counts matches of pattern+letter for every letter a-z. Letters run
// concurrently; the corpus must not be rebuilt meanwhile. An empty pattern
// yields no hints.
func Hints(ctx context.Context, records []index.WordRecord, patternRaw string, opts Options) ([]Hint, error) {
	base := index.NormalizePattern(patternRaw)
	if base == "" {
		return []Hint{}, nil
	}
	opts.TopN = 0

	hints := make([]Hint, index.AlphabetSize)
	g, ctx := errgroup.WithContext(ctx)
	for c := 0; c < index.AlphabetSize; c++ {
		letter := byte('a' + c)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := run(records, base+string(letter), opts)
			hints[c] = Hint{Letter: letter, Total: res.Total}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hints, nil
}
