// Package cli handles cmd line input for debugging queries in real-time
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/wordswords/internal/logger"
	"github.com/bastiangx/wordswords/internal/utils"
	"github.com/bastiangx/wordswords/pkg/dictionary"
	"github.com/bastiangx/wordswords/pkg/query"
	"github.com/bastiangx/wordswords/pkg/rank"
	"github.com/charmbracelet/log"
)

// InputHandler reads patterns from stdin and prints ranked matches.
//
// Lines starting with ':' are commands:
//
//	:n 10            set the result count
//	:sort zipf       set the sort key (gap, zipf, word)
//	:proc baseline   set the procedure (baseline, automaton)
//	:rev             toggle reversed order
//	:restrict        toggle restrictive mode
//	:hints cat       match counts of cat+letter
//	:zipf ca         list zipf scores of words starting with ca
type InputHandler struct {
	corpus       *dictionary.Corpus
	opts         query.Options
	minPattern   int
	maxPattern   int
	noFilter     bool
	requestCount int

	in  io.Reader
	out *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(corpus *dictionary.Corpus, opts query.Options, minLength, maxLength int, noFilter bool) *InputHandler {
	return &InputHandler{
		corpus:     corpus,
		opts:       opts,
		minPattern: minLength,
		maxPattern: maxLength,
		noFilter:   noFilter,
		in:         os.Stdin,
		out:        logger.New(""),
	}
}

// SetIO redirects input and output, mostly for tests.
func (h *InputHandler) SetIO(in io.Reader, out io.Writer) {
	h.in = in
	h.out = logger.NewWithWriter(out, "", log.InfoLevel)
}

// Start begins the interface loop. It returns nil at EOF.
func (h *InputHandler) Start() error {
	h.out.Print("WordsWords CLI")
	h.out.Print("type letters and press Enter to find words containing them in order (Ctrl+C to exit):")

	reader := bufio.NewReader(h.in)
	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			h.handleInput(line)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	if strings.HasPrefix(line, ":") {
		h.handleCommand(line[1:])
		return
	}

	if len(line) < h.minPattern {
		h.out.Errorf("Pattern too short: %s", line)
		return
	}
	if len(line) > h.maxPattern {
		h.out.Errorf("Pattern too long: %s", line)
		return
	}
	if !h.noFilter && !utils.IsValidInput(line) {
		h.out.Infof("No letters in input: '%s'", line)
		return
	}

	start := time.Now()
	res := query.Run(h.corpus.Records, line, h.opts)
	elapsed := time.Since(start)
	h.out.Debugf("Took [ %v ] for pattern '%s'", elapsed, res.Pattern)

	if res.Total == 0 {
		h.out.Warnf("No words contain '%s'", res.Pattern)
		return
	}

	h.out.Printf("%s matches for '%s' (showing %d, %s, %s):",
		utils.FormatWithCommas(res.Total), res.Pattern, len(res.Results), h.opts.Sort, h.opts.Procedure)
	for i, r := range res.Results {
		word := fmt.Sprintf("\033[38;5;75m%s\033[0m", r.Word)
		h.out.Printf("%3d. %-40s zipf %6.2f  gap %2d", i+1, word, r.Zipf, r.Gap)
	}
}

func (h *InputHandler) handleCommand(cmd string) {
	name, arg, _ := strings.Cut(strings.TrimSpace(cmd), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "n":
		n, err := strconv.Atoi(arg)
		if err != nil {
			h.out.Errorf("Invalid count: %s", arg)
			return
		}
		h.opts.TopN = n
	case "sort":
		key, err := rank.ParseSortKey(arg)
		if err != nil {
			h.out.Errorf("%v", err)
			return
		}
		h.opts.Sort = key
	case "proc":
		proc, err := query.ParseProcedure(arg)
		if err != nil {
			h.out.Errorf("%v", err)
			return
		}
		h.opts.Procedure = proc
	case "rev":
		h.opts.Direction = rank.DirectionOf(h.opts.Direction != rank.Reversed)
	case "restrict":
		h.opts.Restrictive = !h.opts.Restrictive
	case "hints":
		h.printHints(arg)
		return
	case "zipf":
		h.printZipf(arg)
		return
	default:
		h.out.Errorf("Unknown command: %s", name)
		return
	}
	h.out.Info("Options updated",
		"n", h.opts.TopN,
		"sort", h.opts.Sort,
		"proc", h.opts.Procedure,
		"dir", h.opts.Direction,
		"restrict", h.opts.Restrictive)
}

func (h *InputHandler) printHints(pattern string) {
	hints, err := query.Hints(context.Background(), h.corpus.Records, pattern, h.opts)
	if err != nil {
		h.out.Errorf("Hints failed: %v", err)
		return
	}
	if len(hints) == 0 {
		h.out.Warn("Hints need a pattern")
		return
	}
	var b strings.Builder
	for _, hint := range hints {
		if hint.Total > 0 {
			fmt.Fprintf(&b, "%c:%d ", hint.Letter, hint.Total)
		}
	}
	h.out.Printf("next letters: %s", strings.TrimSpace(b.String()))
}

func (h *InputHandler) printZipf(prefix string) {
	shown := 0
	if h.opts.TopN <= 0 {
		h.out.Warn("Result count is 0, nothing to list")
		return
	}
	err := h.corpus.Zipf.VisitPrefix(strings.ToLower(prefix), func(word string, zipf float64) bool {
		if shown >= h.opts.TopN {
			return false
		}
		h.out.Printf("%-24s %6.2f", word, zipf)
		shown++
		return true
	})
	if err != nil {
		h.out.Errorf("Zipf lookup failed: %v", err)
		return
	}
	if shown == 0 {
		h.out.Warnf("No zipf entries start with '%s'", prefix)
	}
}
