package index

import (
	"context"
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// MaxWordLen bounds word length so positions fit the int16 tables.
const MaxWordLen = 1<<15 - 2

// FrequencySource resolves a word to its zipf score.
type FrequencySource interface {
	Lookup(word string) (float64, bool)
}

// ZipfMap is the plain map form of a FrequencySource.
type ZipfMap map[string]float64

// Lookup implements FrequencySource.
func (m ZipfMap) Lookup(word string) (float64, bool) {
	z, ok := m[word]
	return z, ok
}

// BuildRecords creates one unindexed record per word, in input order.
// Duplicates are kept. A nil freq gives every word DefaultZipf.
func BuildRecords(words []string, freq FrequencySource) []WordRecord {
	records := make([]WordRecord, len(words))
	for i, w := range words {
		zipf := DefaultZipf
		if freq != nil {
			if z, ok := freq.Lookup(w); ok {
				zipf = z
			}
		}
		records[i] = WordRecord{Word: w, Zipf: zipf, Len: len(w)}
	}
	return records
}

// IndexRecord fills Mask, NextPos and FirstPos of a single record.
func IndexRecord(rec *WordRecord) {
	rec.Len = len(rec.Word)
	rec.Mask = LetterMask(rec.Word)
	rec.NextPos = BuildNextPos(rec.Word)
	rec.FirstPos = BuildFirstPos(rec.Word)
}

// BuildIndexes fills the search tables of every record in place.
// Records are split into contiguous chunks, each owned by one goroutine.
// It must not run while queries read the same slice.
func BuildIndexes(ctx context.Context, records []WordRecord) error {
	for i := range records {
		if len(records[i].Word) > MaxWordLen {
			return fmt.Errorf("word %d is %d bytes, max is %d", i, len(records[i].Word), MaxWordLen)
		}
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(records) {
		workers = len(records)
	}
	if workers == 0 {
		return ctx.Err()
	}
	chunk := (len(records) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(records); start += chunk {
		end := min(start+chunk, len(records))
		part := records[start:end]
		g.Go(func() error {
			for i := range part {
				if i%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				IndexRecord(&part[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("building indexes: %w", err)
	}
	log.Debugf("Indexed %d records with %d workers", len(records), workers)
	return nil
}

// Build is BuildRecords followed by BuildIndexes.
func Build(ctx context.Context, words []string, freq FrequencySource) ([]WordRecord, error) {
	records := BuildRecords(words, freq)
	if err := BuildIndexes(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}
