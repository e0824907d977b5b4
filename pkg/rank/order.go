package rank

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

// RankedWord is one match of a query.
// Gap is Len minus the pattern length.
type RankedWord struct {
	Word string  `json:"word" msgpack:"w"`
	Zipf float64 `json:"zipf" msgpack:"z"`
	Gap  int     `json:"gap" msgpack:"g"`
	Len  int     `json:"len" msgpack:"l"`
}

// SortKey selects the primary ranking key.
type SortKey int

const (
	// SortGap ranks tighter matches first.
	SortGap SortKey = iota
	// SortZipf ranks more frequent words first.
	SortZipf
	// SortWord ranks alphabetically.
	SortWord
)

// ErrUnknownSortKey is returned by ParseSortKey.
var ErrUnknownSortKey = errors.New("unknown sort key")

var sortKeyNames = map[SortKey]string{
	SortGap:  "gap",
	SortZipf: "zipf",
	SortWord: "word",
}

func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

// ParseSortKey maps "gap", "zipf" or "word" to a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gap", "":
		return SortGap, nil
	case "zipf", "freq":
		return SortZipf, nil
	case "word", "alpha":
		return SortWord, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// Direction flips the primary key. Tie-breaks never flip.
type Direction int

const (
	Natural Direction = iota
	Reversed
)

func (d Direction) String() string {
	if d == Reversed {
		return "reversed"
	}
	return "natural"
}

// DirectionOf maps a reverse flag to a Direction.
func DirectionOf(reverse bool) Direction {
	if reverse {
		return Reversed
	}
	return Natural
}

// Comparator returns cmp(a, b) > 0 when a outranks b.
//
// After the primary key, ties fall through zipf (higher wins), gap (smaller
// wins), len (shorter wins) and finally the word itself (smaller wins), so
// distinct words never compare equal.
func Comparator(key SortKey, dir Direction) func(a, b RankedWord) int {
	return func(a, b RankedWord) int {
		var primary int
		switch key {
		case SortZipf:
			primary = cmp.Compare(a.Zipf, b.Zipf)
		case SortWord:
			primary = strings.Compare(b.Word, a.Word)
		default:
			primary = cmp.Compare(b.Gap, a.Gap)
		}
		if dir == Reversed {
			primary = -primary
		}
		if primary != 0 {
			return primary
		}
		if c := cmp.Compare(a.Zipf, b.Zipf); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Gap, a.Gap); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Len, a.Len); c != 0 {
			return c
		}
		return strings.Compare(b.Word, a.Word)
	}
}
