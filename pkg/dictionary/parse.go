package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bastiangx/wordswords/pkg/index"
)

// zipfSeparator matches a tab or a run of two or more spaces.
var zipfSeparator = regexp.MustCompile(`\t|\s{2,}`)

// WordList is the parsed word list.
type WordList struct {
	Words    []string
	Rejected int
}

// ParseWordList reads one word per line. Lines are normalized; blank lines
// are skipped and anything not made only of a-z is counted as rejected.
func ParseWordList(r io.Reader) (*WordList, error) {
	list := &WordList{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		word := index.NormalizeWord(scanner.Text())
		if word == "" {
			continue
		}
		if !index.IsNormalized(word) {
			list.Rejected++
			continue
		}
		list.Words = append(list.Words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return list, nil
}

// ZipfStats counts what ParseZipf kept and skipped.
type ZipfStats struct {
	Kept    int
	Skipped int
}

// ParseZipf reads "word<TAB>zipf" lines (two or more spaces also separate).
// Blank and '#' lines are ignored; lines without both fields or with a
// non-finite score are skipped. Words are lowercased.
func ParseZipf(r io.Reader) (*ZipfTable, ZipfStats, error) {
	table := NewZipfTable()
	var stats ZipfStats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, zipf, ok := parseZipfLine(line)
		if !ok {
			stats.Skipped++
			continue
		}
		table.Set(word, zipf)
		stats.Kept++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("failed to read zipf table: %w", err)
	}
	return table, stats, nil
}

func parseZipfLine(line string) (string, float64, bool) {
	fields := zipfSeparator.Split(line, 3)
	if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
		return "", 0, false
	}
	zipf, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil || math.IsInf(zipf, 0) || math.IsNaN(zipf) {
		return "", 0, false
	}
	return strings.ToLower(fields[0]), zipf, true
}
