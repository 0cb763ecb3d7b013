package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/milk9111/evostage/common"
	"github.com/milk9111/evostage/prefabs"
)

func main() {
	os.Exit(run())
}

func run() int {
	settings, err := prefabs.ParseEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	scenarioName := flag.String("scenario", "full_evolution", "embedded scenario name or path to a .tengo script")
	frames := flag.Int("frames", 0, "frame limit (0 uses the script's own limit)")
	runs := flag.Int("runs", 1, "number of runs, each with the next seed")
	seed := flag.Uint64("seed", settings.Seed, "first RNG seed")
	traceDir := flag.String("trace", settings.TraceDir, "directory for trace.csv and runs.csv")
	specPath := flag.String("spec", settings.SpecPath, "tuning overlay YAML")
	watch := flag.Bool("watch", false, "re-run when the spec or script changes")
	list := flag.Bool("list", false, "list embedded scenarios and exit")
	summarize := flag.String("summarize", "", "print the summary of an existing runs.csv and exit")
	flag.Parse()

	if *list {
		fmt.Println(strings.Join(prefabs.ScriptNames(), "\n"))
		return 0
	}

	logger, err := common.NewLogger(os.Stderr, settings.LogLevel, settings.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	slog.SetDefault(logger)

	if *summarize != "" {
		if err := summarizeFile(logger, *summarize); err != nil {
			logger.Error("evosim: summarize failed", "err", err)
			return 1
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := &simulator{
		logger:   logger,
		scenario: *scenarioName,
		frames:   *frames,
		runs:     *runs,
		seed:     *seed,
		traceDir: *traceDir,
		specPath: *specPath,
	}

	if err := sim.batch(ctx); err != nil {
		logger.Error("evosim: run failed", "err", err)
		if !*watch {
			return 1
		}
	}
	if !*watch {
		return 0
	}
	if err := sim.watch(ctx); err != nil {
		logger.Error("evosim: watch failed", "err", err)
		return 1
	}
	return 0
}
