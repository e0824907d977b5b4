// Copyright 2025 The WordsWords Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the subsequence search server and CLI [DBG] application.

WordsWords finds every word in a dictionary that contains a pattern as a
subsequence: the letters of the pattern appear in the word in order, not
necessarily next to each other. Matches are ranked by gap (extra letters),
zipf frequency or alphabetically, and the total match count is always exact.

# Usage

Start the IPC server with default settings:

	wordswords

Use a custom data directory and enable debug mode:

	wordswords -data /path/to/data -d

Run in CLI mode for interactive testing:

	wordswords -c

Compare the two matching procedures on sampled patterns:

	wordswords -bench

Dump per-pattern statistics for every 3-letter pattern as JSON:

	wordswords -analyze 3 > patterns.json

The data directory should contain the word list (one word per line) and an
optional zipf table (word, tab, score). Both may be gzip compressed.

# Configuration

Runtime configuration lives in a TOML file created with defaults on first run:

	[engine]
	top_n = 20
	procedure = "automaton"
	sort = "gap"
	reverse = false
	restrictive = false

	[dict]
	word_list = "wordlist.txt"
	zipf_file = "zipf.tsv"

	[server]
	max_top_n = 500
	max_pattern = 32
	metrics_addr = ""

	[bench]
	warmup_iters = 3
	measured_iters = 10
	seed = 1337

# IPC Protocol

The server communicates via MessagePack over stdin/stdout, see package server:

	{"id": "q1", "op": "query", "p": "cat", "n": 5}
	{"id": "q1", "p": "cat", "r": [{"w": "cat", "z": 5.1, "g": 0, "r": 1}], "t": 412, "us": 830}

When metrics_addr (or -metrics) is set, Prometheus metrics are served on
/metrics at that address.
*/
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/wordswords/internal/cli"
	"github.com/bastiangx/wordswords/internal/utils"
	"github.com/bastiangx/wordswords/pkg/analysis"
	"github.com/bastiangx/wordswords/pkg/bench"
	"github.com/bastiangx/wordswords/pkg/config"
	"github.com/bastiangx/wordswords/pkg/dictionary"
	"github.com/bastiangx/wordswords/pkg/metrics"
	"github.com/bastiangx/wordswords/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "wordswords"
	gh      = "https://github.com/bastiangx/wordswords"
)

// sigHandler cancels the returned context on SIGINT/SIGTERM so in-flight
// work can finish, then exits after a short grace period or a second signal.
// Blocking reads on stdin never see the cancellation.
func sigHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		select {
		case <-c:
		case <-time.After(2 * time.Second):
		}
		os.Exit(0)
	}()
	return ctx
}

// main only manages the flow between loading, CLI, bench and server modes.
func main() {
	ctx := sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "data/", "Directory containing the word list and zipf table")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	benchMode := flag.Bool("bench", false, "Benchmark both procedures on sampled patterns and exit")
	analyzeLen := flag.Int("analyze", 0, "Write stats for every pattern of this length as JSON and exit")
	configPath := flag.String("config", "", "Path to a custom config file")
	wordList := flag.String("words", "", "Word list file (overrides config)")
	zipfFile := flag.String("zipf", "", "Zipf table file (overrides config, \"-\" for none)")
	metricsAddr := flag.String("metrics", "", "Serve Prometheus metrics on this address (overrides config)")
	minPattern := flag.Int("pmin", 1, "Minimum pattern length in CLI mode")
	maxPattern := flag.Int("pmax", defaultConfig.Server.MaxPattern, "Maximum pattern length in CLI mode")
	noFilter := flag.Bool("no-filter", false, "Disable input filtering in CLI mode (DBG only)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, cfgPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", utils.GetAbsolutePath(cfgPath))
	if *wordList != "" {
		appConfig.Dict.WordList = *wordList
	}
	switch *zipfFile {
	case "":
	case "-":
		appConfig.Dict.ZipfFile = ""
	default:
		appConfig.Dict.ZipfFile = *zipfFile
	}
	if *metricsAddr != "" {
		appConfig.Server.MetricsAddr = *metricsAddr
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Print("Either env is not set or system is not supported")
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	resolvedDataDir := pathResolver.GetDataDir(*dataDir, appConfig.Dict.WordList)
	log.Debugf("Using data dir at: %s", resolvedDataDir)

	src := dictionary.Source{
		WordList: utils.ResolveInput(resolvedDataDir, appConfig.Dict.WordList),
		ZipfFile: utils.ResolveInput(resolvedDataDir, appConfig.Dict.ZipfFile),
	}
	if src.ZipfFile != "" && !utils.FileExists(src.ZipfFile) {
		log.Warnf("Zipf table %s not found, every word gets the default score", src.ZipfFile)
		src.ZipfFile = ""
	}
	corpus, err := dictionary.Load(ctx, src)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}

	queryOpts, err := appConfig.QueryOptions()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	switch {
	case *analyzeLen > 0:
		if err := runAnalysis(ctx, corpus, *analyzeLen); err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}
		return

	case *benchMode:
		patterns := bench.BuildPatterns(corpus.Records, appConfig.PatternOptions())
		report, err := bench.Run(ctx, corpus.Records, patterns, appConfig.BenchOptions(queryOpts))
		if err != nil {
			log.Fatalf("Benchmark failed: %v", err)
		}
		printReport(report)
		return

	// CLI would be mainly used for testing and dbg purposes.
	case *cliMode:
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPattern", *minPattern,
			"maxPattern", *maxPattern,
			"topN", queryOpts.TopN,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(corpus, queryOpts, *minPattern, *maxPattern, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	var opts []server.Option
	if addr := appConfig.Server.MetricsAddr; addr != "" {
		m := metrics.New(nil)
		m.ObserveCorpus(len(corpus.Records), corpus.Metrics.IndexTime)
		shutdown := m.StartServer(addr)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
		opts = append(opts, server.WithMetrics(m))
	}

	srv, err := server.NewServer(corpus, appConfig, opts...)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	showStartupInfo(resolvedDataDir, corpus)

	if err := srv.Start(ctx); err != nil {
		log.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ WordsWords ] Finds every word hiding your letters!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// runAnalysis writes the analysis result to stdout, progress goes to the log.
func runAnalysis(ctx context.Context, corpus *dictionary.Corpus, n int) error {
	res, err := analysis.Analyze(ctx, corpus.Records, n, func(p analysis.Progress) {
		log.Debug("analysis", "stage", p.Stage, "done", fmt.Sprintf("%.0f%%", p.Fraction*100), "patterns", p.PatternsFound)
	})
	if err != nil {
		return err
	}
	log.Infof("%s of %s possible patterns occur",
		utils.FormatWithCommas(res.NonZeroPatterns), utils.FormatWithCommas(int(res.TotalPatterns)))
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// printReport shows the benchmark table regardless of the log level.
func printReport(report bench.Report) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	log.Infof("%d patterns", report.Patterns)
	for _, p := range report.Procedures {
		log.Info(p.Procedure.String(),
			"mean", p.MeanPerQuery,
			"median", p.MedianPerQuery,
			"mean_matches", fmt.Sprintf("%.1f", p.MeanMatches),
			"median_matches", fmt.Sprintf("%.1f", p.MedianMatches))
	}
	log.Info("best", "procedure", report.BestProcedure.String())
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataDir string, corpus *dictionary.Corpus) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	m := corpus.Metrics
	stage, d := m.Slowest()
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("data dir: ( %s )", dataDir)
	log.Infof("words: %s (%s rejected), zipf entries: %s",
		utils.FormatWithCommas(m.WordCount), utils.FormatWithCommas(m.WordRejected), utils.FormatWithCommas(m.ZipfCount))
	log.Infof("load: %v, slowest stage %s (%v)", m.Total(), stage, d)
	log.Info("status: ready")
}
