package index

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBuild(t *testing.T, words ...string) []WordRecord {
	t.Helper()
	records, err := Build(context.Background(), words, nil)
	require.NoError(t, err)
	return records
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		raw     string
		word    string
		pattern string
	}{
		{"Cat", "cat", "cat"},
		{"  Hello World \n", "hello world", "helloworld"},
		{"c-a_t!", "c-a_t!", "cat"},
		{"123", "123", ""},
		{"", "", ""},
		{"ÀbC", "àbc", "bc"},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.word, NormalizeWord(tc.raw))
			assert.Equal(t, tc.pattern, NormalizePattern(tc.raw))
		})
	}

	assert.True(t, IsNormalized("abc"))
	assert.False(t, IsNormalized(""))
	assert.False(t, IsNormalized("ab c"))
	assert.False(t, IsNormalized("Abc"))
}

func TestLetterMask(t *testing.T) {
	assert.Equal(t, uint32(0), LetterMask(""))
	assert.Equal(t, uint32(1|1<<2), LetterMask("cac"))
	assert.Equal(t, uint32(1<<25), LetterMask("z-z"))
	assert.Equal(t, uint32(1<<26-1), LetterMask("thequickbrownfoxjumpsoverthelazydog"))
}

func TestBuildNextPos(t *testing.T) {
	word := "abca"
	next := BuildNextPos(word)
	require.Len(t, next, (len(word)+1)*AlphabetSize)

	at := func(pos int, c byte) int16 { return next[pos*AlphabetSize+int(c-'a')] }
	assert.Equal(t, int16(0), at(0, 'a'))
	assert.Equal(t, int16(3), at(1, 'a'))
	assert.Equal(t, int16(1), at(0, 'b'))
	assert.Equal(t, NoPos, at(2, 'b'))
	assert.Equal(t, int16(2), at(2, 'c'))
	assert.Equal(t, NoPos, at(0, 'z'))
	for c := byte('a'); c <= 'z'; c++ {
		assert.Equal(t, NoPos, at(len(word), c), "last row must be empty")
	}
}

func TestBuildFirstPos(t *testing.T) {
	first := BuildFirstPos("banana")
	assert.Equal(t, int16(1), first['a'-'a'])
	assert.Equal(t, int16(0), first['b'-'a'])
	assert.Equal(t, int16(2), first['n'-'a'])
	assert.Equal(t, NoPos, first['z'-'a'])
}

func TestSubsequenceProcedures(t *testing.T) {
	testCases := []struct {
		pattern string
		word    string
		want    bool
	}{
		{"cat", "cat", true},
		{"cat", "chart", true},
		{"cat", "act", false},
		{"aa", "banana", true},
		{"aaaa", "banana", false},
		{"", "word", true},
		{"word", "", false},
		{"abc", "ab", false},
		{"zz", "pizza", true},
	}
	for _, tc := range testCases {
		t.Run(tc.pattern+"_in_"+tc.word, func(t *testing.T) {
			assert.Equal(t, tc.want, IsSubsequenceBaseline(tc.pattern, tc.word))
			rec := WordRecord{Word: tc.word}
			IndexRecord(&rec)
			assert.Equal(t, tc.want, IsSubsequenceAutomaton(tc.pattern, &rec))
		})
	}
}

func TestFirstPosOrdered(t *testing.T) {
	records := mustBuild(t, "abacus", "cab")
	assert.True(t, FirstPosOrdered("abc", &records[0]))
	assert.False(t, FirstPosOrdered("abc", &records[1]))
	// ba is a subsequence of abacus, but its first b comes after its first a.
	assert.False(t, FirstPosOrdered("ba", &records[0]))
	assert.True(t, IsSubsequenceAutomaton("ba", &records[0]))
}

func randomWord(r *rand.Rand, alphabet string, maxLen int) string {
	n := r.IntN(maxLen + 1)
	var b strings.Builder
	for range n {
		b.WriteByte(alphabet[r.IntN(len(alphabet))])
	}
	return b.String()
}

// Both procedures must agree on random pairs, and the mask must never
// reject a real match.
func TestProceduresAgreeRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	const alphabet = "abcde"
	for i := 0; i < 20000; i++ {
		word := randomWord(r, alphabet, 12)
		pattern := randomWord(r, alphabet, 5)

		rec := WordRecord{Word: word}
		IndexRecord(&rec)

		base := IsSubsequenceBaseline(pattern, word)
		auto := IsSubsequenceAutomaton(pattern, &rec)
		require.Equal(t, base, auto, "pattern=%q word=%q", pattern, word)
		if base {
			require.Zero(t, LetterMask(pattern)&^rec.Mask, "mask rejected %q in %q", pattern, word)
		}
	}
}

func TestBuildRecords(t *testing.T) {
	freq := ZipfMap{"cat": 5.1, "dog": 4.8}
	records := BuildRecords([]string{"cat", "bird", "cat"}, freq)
	require.Len(t, records, 3)
	assert.Equal(t, 5.1, records[0].Zipf)
	assert.Equal(t, DefaultZipf, records[1].Zipf)
	assert.Equal(t, "cat", records[2].Word)
	assert.False(t, records[0].Indexed())

	defaults := BuildRecords([]string{"cat"}, nil)
	assert.Equal(t, DefaultZipf, defaults[0].Zipf)
}

func TestBuildIndexes(t *testing.T) {
	words := make([]string, 10000)
	r := rand.New(rand.NewPCG(1, 2))
	for i := range words {
		words[i] = randomWord(r, "abcdefghijklmnopqrstuvwxyz", 15)
	}
	records := BuildRecords(words, nil)
	require.NoError(t, BuildIndexes(context.Background(), records))
	for i := range records {
		rec := &records[i]
		require.True(t, rec.Indexed(), "record %d", i)
		require.Equal(t, LetterMask(rec.Word), rec.Mask)
		require.Equal(t, len(rec.Word), rec.Len)
	}
}

func TestBuildIndexesEmpty(t *testing.T) {
	require.NoError(t, BuildIndexes(context.Background(), nil))
}

func TestBuildIndexesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	records := BuildRecords([]string{"cat", "dog"}, nil)
	err := BuildIndexes(ctx, records)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildIndexesWordTooLong(t *testing.T) {
	records := BuildRecords([]string{strings.Repeat("a", MaxWordLen+1)}, nil)
	require.Error(t, BuildIndexes(context.Background(), records))
}

func BenchmarkSubsequence(b *testing.B) {
	rec := WordRecord{Word: "internationalization"}
	IndexRecord(&rec)

	b.Run("baseline", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			IsSubsequenceBaseline("ntnlz", rec.Word)
		}
	})
	b.Run("automaton", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			IsSubsequenceAutomaton("ntnlz", &rec)
		}
	})
}
