package dictionary

import (
	"errors"

	"github.com/tchap/go-patricia/v2/patricia"
)

var errStopVisit = errors.New("stop visit")

// ZipfTable maps lowercase words to zipf scores. It is backed by a patricia
// trie so prefix listings come for free.
type ZipfTable struct {
	trie  *patricia.Trie
	count int
}

// NewZipfTable returns an empty table.
func NewZipfTable() *ZipfTable {
	return &ZipfTable{trie: patricia.NewTrie()}
}

// Set stores or replaces the score of word. Later entries win, as with a map.
func (t *ZipfTable) Set(word string, zipf float64) {
	if t.trie.Insert(patricia.Prefix(word), zipf) {
		t.count++
		return
	}
	t.trie.Set(patricia.Prefix(word), zipf)
}

// Lookup returns the score of word. It satisfies index.FrequencySource.
func (t *ZipfTable) Lookup(word string) (float64, bool) {
	item := t.trie.Get(patricia.Prefix(word))
	if item == nil {
		return 0, false
	}
	return item.(float64), true
}

// Len returns the number of distinct words.
func (t *ZipfTable) Len() int { return t.count }

// VisitPrefix calls fn for every word starting with prefix, including the
// prefix itself. Returning false from fn stops the walk.
func (t *ZipfTable) VisitPrefix(prefix string, fn func(word string, zipf float64) bool) error {
	visitor := func(p patricia.Prefix, item patricia.Item) error {
		if !fn(string(p), item.(float64)) {
			return errStopVisit
		}
		return nil
	}
	var err error
	if prefix == "" {
		err = t.trie.Visit(visitor)
	} else {
		err = t.trie.VisitSubtree(patricia.Prefix(prefix), visitor)
	}
	if errors.Is(err, errStopVisit) {
		return nil
	}
	return err
}
