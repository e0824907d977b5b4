package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bastiangx/wordswords/internal/utils"
	"github.com/bastiangx/wordswords/pkg/bench"
	"github.com/bastiangx/wordswords/pkg/config"
	"github.com/bastiangx/wordswords/pkg/dictionary"
	"github.com/bastiangx/wordswords/pkg/index"
	"github.com/bastiangx/wordswords/pkg/metrics"
	"github.com/bastiangx/wordswords/pkg/query"
	"github.com/bastiangx/wordswords/pkg/rank"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Error codes sent in QueryError.
const (
	CodeBadRequest = 400
	CodeInternal   = 500
)

const defaultWorkers = 4

// Server answers msgpack requests against a read-only corpus.
type Server struct {
	corpus   *dictionary.Corpus
	config   *config.Config
	defaults query.Options
	metrics  *metrics.Metrics

	reader  io.Reader
	writer  io.Writer
	writeMu sync.Mutex
	enc     *msgpack.Encoder

	group    singleflight.Group
	workers  int
	requests atomic.Int64
}

// Option customizes a Server.
type Option func(*Server)

// WithIO replaces stdin/stdout.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(s *Server) {
		s.reader = r
		s.writer = w
	}
}

// WithMetrics records every request on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithWorkers bounds the number of requests handled at once.
func WithWorkers(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewServer creates a server over corpus. The engine section of cfg must
// name a valid procedure and sort key.
func NewServer(corpus *dictionary.Corpus, cfg *config.Config, opts ...Option) (*Server, error) {
	defaults, err := cfg.QueryOptions()
	if err != nil {
		return nil, err
	}
	s := &Server{
		corpus:   corpus,
		config:   cfg,
		defaults: defaults,
		reader:   bufio.NewReader(os.Stdin),
		writer:   os.Stdout,
		workers:  defaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.enc = msgpack.NewEncoder(s.writer)
	return s, nil
}

// Start reads requests until EOF or ctx is done. Requests are handled
// concurrently; Start returns after every in-flight response is written.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting Server.")
	s.send(map[string]string{"status": "ready"})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	dec := msgpack.NewDecoder(s.reader)
	var readErr error
	for gctx.Err() == nil {
		raw, err := dec.DecodeRaw()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Errorf("Decoding request: %v", err)
				s.sendError("", "invalid msgpack request", CodeBadRequest)
				readErr = err
			}
			break
		}
		s.requests.Add(1)

		// A well-framed request with bad fields only fails itself.
		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			id := requestID(raw)
			log.Debugf("Malformed request %q: %v", id, err)
			s.sendError(id, fmt.Sprintf("malformed request: %v", err), CodeBadRequest)
			continue
		}
		g.Go(func() error {
			s.handleRequest(gctx, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return readErr
}

// requestID pulls the id out of a frame that did not decode as a Request.
func requestID(raw msgpack.RawMessage) string {
	var head struct {
		ID string `msgpack:"id"`
	}
	if err := msgpack.Unmarshal(raw, &head); err != nil {
		return ""
	}
	return head.ID
}

// handleRequest dispatches a decoded request by op.
func (s *Server) handleRequest(ctx context.Context, req Request) {
	switch req.Op {
	case "query", "":
		s.handleQuery(req)
	case "hints":
		s.handleHints(ctx, req)
	case "stats":
		s.handleStats(req)
	case "bench":
		s.handleBench(ctx, req)
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown op: %s", req.Op), CodeBadRequest)
	}
}

// resolveOptions applies request overrides to the configured defaults.
func (s *Server) resolveOptions(req Request) (query.Options, error) {
	opts := s.defaults
	if req.TopN != nil {
		opts.TopN = *req.TopN
	}
	if limit := s.config.Server.MaxTopN; limit > 0 && opts.TopN > limit {
		opts.TopN = limit
	}
	if req.Procedure != "" {
		proc, err := query.ParseProcedure(req.Procedure)
		if err != nil {
			return opts, err
		}
		opts.Procedure = proc
	}
	if req.Sort != "" {
		key, err := rank.ParseSortKey(req.Sort)
		if err != nil {
			return opts, err
		}
		opts.Sort = key
	}
	if req.Reverse != nil {
		opts.Direction = rank.DirectionOf(*req.Reverse)
	}
	if req.Restrictive != nil {
		opts.Restrictive = *req.Restrictive
	}
	return opts, nil
}

func (s *Server) validatePattern(req Request) bool {
	if limit := s.config.Server.MaxPattern; limit > 0 && len(req.Pattern) > limit {
		s.sendError(req.ID, fmt.Sprintf("pattern exceeds maximum length of %d characters", limit), CodeBadRequest)
		return false
	}
	return true
}

func (s *Server) handleQuery(req Request) {
	if !s.validatePattern(req) {
		return
	}
	opts, err := s.resolveOptions(req)
	if err != nil {
		s.sendError(req.ID, err.Error(), CodeBadRequest)
		return
	}

	start := time.Now()
	pattern := index.NormalizePattern(req.Pattern)
	key := fmt.Sprintf("%s|%d|%d|%d|%d|%t", pattern, opts.TopN, opts.Procedure, opts.Sort, opts.Direction, opts.Restrictive)
	v, _, _ := s.group.Do(key, func() (any, error) {
		return query.Run(s.corpus.Records, pattern, opts), nil
	})
	res := v.(query.Result)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.ObserveQuery(opts.Procedure.String(), elapsed, res.Total)
	}

	ranks := utils.CreateRankList(len(res.Results))
	words := make([]ResultWord, len(res.Results))
	for i, r := range res.Results {
		words[i] = ResultWord{Word: r.Word, Zipf: r.Zipf, Gap: r.Gap, Rank: ranks[i]}
	}
	s.send(QueryResponse{
		ID:        req.ID,
		Pattern:   pattern,
		Results:   words,
		Total:     res.Total,
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleHints(ctx context.Context, req Request) {
	if !s.validatePattern(req) {
		return
	}
	opts, err := s.resolveOptions(req)
	if err != nil {
		s.sendError(req.ID, err.Error(), CodeBadRequest)
		return
	}

	start := time.Now()
	hints, err := query.Hints(ctx, s.corpus.Records, req.Pattern, opts)
	if err != nil {
		s.sendError(req.ID, err.Error(), CodeInternal)
		return
	}
	if s.metrics != nil {
		s.metrics.HintsTotal.Inc()
	}

	counts := make([]HintCount, len(hints))
	for i, h := range hints {
		counts[i] = HintCount{Letter: string(h.Letter), Total: h.Total}
	}
	s.send(HintsResponse{
		ID:        req.ID,
		Pattern:   index.NormalizePattern(req.Pattern),
		Hints:     counts,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleStats(req Request) {
	m := s.corpus.Metrics
	s.send(StatsResponse{
		ID:          req.ID,
		Words:       len(s.corpus.Records),
		Rejected:    m.WordRejected,
		ZipfEntries: m.ZipfCount,
		LoadMicros:  m.Total().Microseconds(),
		IndexMicros: m.IndexTime.Microseconds(),
		Requests:    s.requests.Load(),
	})
}

func (s *Server) handleBench(ctx context.Context, req Request) {
	opts, err := s.resolveOptions(req)
	if err != nil {
		s.sendError(req.ID, err.Error(), CodeBadRequest)
		return
	}
	patterns := bench.BuildPatterns(s.corpus.Records, s.config.PatternOptions())
	report, err := bench.Run(ctx, s.corpus.Records, patterns, s.config.BenchOptions(opts))
	if err != nil {
		s.sendError(req.ID, err.Error(), CodeBadRequest)
		return
	}

	procs := make([]BenchProcedure, len(report.Procedures))
	for i, p := range report.Procedures {
		procs[i] = BenchProcedure{
			Name:          p.Procedure.String(),
			MeanMicros:    float64(p.MeanPerQuery) / float64(time.Microsecond),
			MedianMicros:  float64(p.MedianPerQuery) / float64(time.Microsecond),
			MeanMatches:   p.MeanMatches,
			MedianMatches: p.MedianMatches,
		}
	}
	s.send(BenchResponse{
		ID:         req.ID,
		Patterns:   report.Patterns,
		Best:       report.BestProcedure.String(),
		Procedures: procs,
	})
}

// send encodes one response frame. Frames never interleave.
func (s *Server) send(response any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	if s.metrics != nil {
		s.metrics.RequestErrors.WithLabelValues(strconv.Itoa(code)).Inc()
	}
	log.Debugf("Request %s failed: %s", id, message)
	s.send(QueryError{ID: id, Error: message, Code: code})
}
