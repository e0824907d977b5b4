package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bastiangx/wordswords/pkg/config"
	"github.com/bastiangx/wordswords/pkg/dictionary"
	"github.com/bastiangx/wordswords/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func testCorpus(t *testing.T) *dictionary.Corpus {
	t.Helper()
	c, err := dictionary.FromReaders(context.Background(),
		strings.NewReader("cat\ncoat\nchat\ncart\nabandon\nacademic\nelephant\nhospital\n"),
		strings.NewReader("cat\t5\ncoat\t4\nchat\t3\ncart\t2\n"))
	require.NoError(t, err)
	return c
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

// roundTrip feeds requests (Request values or raw maps) to a fresh server and returns the raw response
// frames keyed by id. The ready frame is checked and dropped.
func roundTrip(t *testing.T, cfg *config.Config, m *metrics.Metrics, reqs ...any) map[string]msgpack.RawMessage {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}

	opts := []Option{WithIO(&in, &out)}
	if m != nil {
		opts = append(opts, WithMetrics(m))
	}
	srv, err := NewServer(testCorpus(t), cfg, opts...)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))

	dec := msgpack.NewDecoder(&out)
	var ready map[string]string
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready["status"])

	frames := map[string]msgpack.RawMessage{}
	for {
		raw, err := dec.DecodeRaw()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		var head struct {
			ID string `msgpack:"id"`
		}
		require.NoError(t, msgpack.Unmarshal(raw, &head))
		frames[head.ID] = raw
	}
	return frames
}

func decode[T any](t *testing.T, raw msgpack.RawMessage) T {
	t.Helper()
	require.NotNil(t, raw)
	var v T
	require.NoError(t, msgpack.Unmarshal(raw, &v))
	return v
}

func TestQuery(t *testing.T) {
	frames := roundTrip(t, config.DefaultConfig(), nil,
		Request{ID: "gap", Op: "query", Pattern: "CAT", TopN: intPtr(2)},
		Request{ID: "zipf", Pattern: "cat", Sort: "zipf", Reverse: boolPtr(true)},
		Request{ID: "none", Op: "query", Pattern: "zzz"},
		Request{ID: "empty", Op: "query", Pattern: "!!"},
	)
	require.Len(t, frames, 4)

	gap := decode[QueryResponse](t, frames["gap"])
	assert.Equal(t, "cat", gap.Pattern)
	assert.Equal(t, 4, gap.Total)
	require.Len(t, gap.Results, 2)
	assert.Equal(t, ResultWord{Word: "cat", Zipf: 5, Gap: 0, Rank: 1}, gap.Results[0])
	assert.Equal(t, "coat", gap.Results[1].Word)

	zipf := decode[QueryResponse](t, frames["zipf"])
	require.Len(t, zipf.Results, 4)
	assert.Equal(t, "cart", zipf.Results[0].Word)
	assert.Equal(t, uint16(4), zipf.Results[3].Rank)

	none := decode[QueryResponse](t, frames["none"])
	assert.Zero(t, none.Total)
	assert.Empty(t, none.Results)

	empty := decode[QueryResponse](t, frames["empty"])
	assert.Zero(t, empty.Total)
}

func TestQueryErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxPattern = 5
	frames := roundTrip(t, cfg, nil,
		Request{ID: "proc", Op: "query", Pattern: "cat", Procedure: "regex"},
		Request{ID: "sort", Op: "query", Pattern: "cat", Sort: "size"},
		Request{ID: "long", Op: "query", Pattern: "abcdefgh"},
		Request{ID: "op", Op: "delete"},
	)
	for _, id := range []string{"proc", "sort", "long", "op"} {
		e := decode[QueryError](t, frames[id])
		assert.Equal(t, CodeBadRequest, e.Code, id)
		assert.NotEmpty(t, e.Error, id)
	}
}

func TestTopNClamped(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxTopN = 1
	frames := roundTrip(t, cfg, nil, Request{ID: "q", Pattern: "cat", TopN: intPtr(50)})
	res := decode[QueryResponse](t, frames["q"])
	assert.Len(t, res.Results, 1)
	assert.Equal(t, 4, res.Total)
}

func TestHintsStatsBench(t *testing.T) {
	frames := roundTrip(t, config.DefaultConfig(), nil,
		Request{ID: "h", Op: "hints", Pattern: "ca"},
		Request{ID: "s", Op: "stats"},
		Request{ID: "b", Op: "bench"},
	)

	hints := decode[HintsResponse](t, frames["h"])
	require.Len(t, hints.Hints, 26)
	assert.Equal(t, HintCount{Letter: "t", Total: 4}, hints.Hints['t'-'a'])

	stats := decode[StatsResponse](t, frames["s"])
	assert.Equal(t, 8, stats.Words)
	assert.Equal(t, 4, stats.ZipfEntries)
	assert.GreaterOrEqual(t, stats.Requests, int64(1))

	b := decode[BenchResponse](t, frames["b"])
	assert.Positive(t, b.Patterns)
	assert.Len(t, b.Procedures, 2)
	assert.Contains(t, []string{"baseline", "automaton"}, b.Best)
}

func TestMetricsRecorded(t *testing.T) {
	m := metrics.New(nil)
	roundTrip(t, config.DefaultConfig(), m,
		Request{ID: "a", Pattern: "cat", Procedure: "baseline"},
		Request{ID: "b", Pattern: "cat"},
		Request{ID: "c", Op: "nope"},
	)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("baseline")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("automaton")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestErrors.WithLabelValues("400")))
}

func TestMalformedRequestKeepsServing(t *testing.T) {
	frames := roundTrip(t, config.DefaultConfig(), nil,
		map[string]any{"id": "bad", "op": "query", "p": "cat", "n": "five"},
		map[string]any{"id": 7, "op": "query"},
		Request{ID: "good", Op: "query", Pattern: "cat"},
	)

	bad := decode[QueryError](t, frames["bad"])
	assert.Equal(t, CodeBadRequest, bad.Code)
	assert.Contains(t, bad.Error, "malformed request")

	// an id of the wrong type cannot be echoed back
	anon := decode[QueryError](t, frames[""])
	assert.Equal(t, CodeBadRequest, anon.Code)

	good := decode[QueryResponse](t, frames["good"])
	assert.Equal(t, 4, good.Total)
}

func TestInvalidFrame(t *testing.T) {
	in := bytes.NewBuffer([]byte{0xc1})
	var out bytes.Buffer
	srv, err := NewServer(testCorpus(t), config.DefaultConfig(), WithIO(in, &out))
	require.NoError(t, err)
	assert.Error(t, srv.Start(context.Background()))

	dec := msgpack.NewDecoder(&out)
	var ready map[string]string
	require.NoError(t, dec.Decode(&ready))
	var e QueryError
	require.NoError(t, dec.Decode(&e))
	assert.Equal(t, CodeBadRequest, e.Code)
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engine.Sort = "random"
	_, err := NewServer(testCorpus(t), cfg)
	assert.Error(t, err)
}
