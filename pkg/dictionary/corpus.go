// Package dictionary loads the word list and zipf table from disk and turns
// them into an indexed corpus.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/wordswords/pkg/index"
	"github.com/charmbracelet/log"
)

// ErrEmptyCorpus is returned when the word list yields no words.
var ErrEmptyCorpus = errors.New("word list contains no valid words")

// Source names the input files. ZipfFile may be empty, in which case every
// word gets index.DefaultZipf.
type Source struct {
	WordList string
	ZipfFile string
}

// LoadMetrics records the duration and output of every load stage.
type LoadMetrics struct {
	WordListTime time.Duration `json:"wordlist_time"`
	WordCount    int           `json:"word_count"`
	WordRejected int           `json:"word_rejected"`
	ZipfTime     time.Duration `json:"zipf_time"`
	ZipfCount    int           `json:"zipf_count"`
	ZipfSkipped  int           `json:"zipf_skipped"`
	AttachTime   time.Duration `json:"attach_time"`
	IndexTime    time.Duration `json:"index_time"`
}

// Total is the sum of all stage durations.
func (m LoadMetrics) Total() time.Duration {
	return m.WordListTime + m.ZipfTime + m.AttachTime + m.IndexTime
}

// Slowest returns the name and duration of the longest stage.
func (m LoadMetrics) Slowest() (string, time.Duration) {
	stages := []struct {
		name string
		d    time.Duration
	}{
		{"wordlist", m.WordListTime},
		{"zipf", m.ZipfTime},
		{"attach", m.AttachTime},
		{"index", m.IndexTime},
	}
	best := stages[0]
	for _, s := range stages[1:] {
		if s.d > best.d {
			best = s
		}
	}
	return best.name, best.d
}

// Corpus is a fully indexed, read-only word corpus.
type Corpus struct {
	Records []index.WordRecord
	Zipf    *ZipfTable
	Metrics LoadMetrics
}

// Load opens the files named by src and builds a corpus from them.
func Load(ctx context.Context, src Source) (*Corpus, error) {
	if err := ValidateFileFormat(src.WordList, FormatWordList); err != nil {
		log.Warnf("Unexpected word list name: %v", err)
	}
	words, err := Open(src.WordList)
	if err != nil {
		return nil, err
	}
	defer words.Close()

	var zipf io.Reader
	if src.ZipfFile != "" {
		if err := ValidateFileFormat(src.ZipfFile, FormatZipf); err != nil {
			log.Warnf("Unexpected zipf table name: %v", err)
		}
		zf, err := Open(src.ZipfFile)
		if err != nil {
			return nil, err
		}
		defer zf.Close()
		zipf = zf
	}
	return FromReaders(ctx, words, zipf)
}

// FromReaders parses the word list (and the optional zipf table), attaches
// frequencies and builds the search indexes.
func FromReaders(ctx context.Context, words io.Reader, zipf io.Reader) (*Corpus, error) {
	var m LoadMetrics

	start := time.Now()
	list, err := ParseWordList(words)
	if err != nil {
		return nil, err
	}
	m.WordListTime = time.Since(start)
	m.WordCount = len(list.Words)
	m.WordRejected = list.Rejected
	if len(list.Words) == 0 {
		return nil, ErrEmptyCorpus
	}

	table := NewZipfTable()
	if zipf != nil {
		start = time.Now()
		var stats ZipfStats
		table, stats, err = ParseZipf(zipf)
		if err != nil {
			return nil, err
		}
		m.ZipfTime = time.Since(start)
		m.ZipfCount = stats.Kept
		m.ZipfSkipped = stats.Skipped
	}

	start = time.Now()
	records := index.BuildRecords(list.Words, table)
	m.AttachTime = time.Since(start)

	start = time.Now()
	if err := index.BuildIndexes(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to index corpus: %w", err)
	}
	m.IndexTime = time.Since(start)

	stage, d := m.Slowest()
	log.Debugf("Loaded %d words (%d rejected, %d zipf entries) in %v, slowest stage %s (%v)",
		m.WordCount, m.WordRejected, m.ZipfCount, m.Total(), stage, d)
	return &Corpus{Records: records, Zipf: table, Metrics: m}, nil
}
