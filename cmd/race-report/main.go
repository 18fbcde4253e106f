package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/okian/animalrace/internal/report"
	"github.com/okian/animalrace/pkg/logger"
)

func main() {
	defaults := report.DefaultConfig()
	var (
		times     = flag.String("t", joinFloats(defaults.Times), "Comma separated elapsed times for the distance table")
		distances = flag.String("d", joinFloats(defaults.Distances), "Comma separated targets for the finish-time table")
		rounds    = flag.Int("practice", defaults.PracticeRounds, "Number of practice batches to summarize (0 skips)")
		seed      = flag.Int64("seed", defaults.Seed, "Practice generator seed")
		step      = flag.Float64("step", defaults.Step, "Chart sampling step in seconds")
		pngPath   = flag.String("png", "", "Write a PNG distance chart to this path")
		htmlPath  = flag.String("html", "", "Write an HTML distance chart to this path")
		verbose   = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}
	ctx := context.Background()
	log := logger.Named("race-report")

	cfg := report.Config{
		PracticeRounds: *rounds,
		Seed:           *seed,
		Step:           *step,
		PNGPath:        *pngPath,
		HTMLPath:       *htmlPath,
	}
	var err error
	if cfg.Times, err = report.ParseFloats(*times); err != nil {
		log.Error(ctx, "invalid -t", logger.Error(err))
		os.Exit(2)
	}
	if cfg.Distances, err = report.ParseFloats(*distances); err != nil {
		log.Error(ctx, "invalid -d", logger.Error(err))
		os.Exit(2)
	}

	if err := report.Run(ctx, cfg, os.Stdout); err != nil {
		log.Error(ctx, "report failed", logger.Error(err))
		os.Exit(1)
	}
}

func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
