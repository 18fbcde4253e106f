package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/okian/animalrace/internal/chart"
	"github.com/okian/animalrace/internal/domain/judge"
	"github.com/okian/animalrace/internal/domain/motion"
	"github.com/okian/animalrace/internal/domain/practice"
	"github.com/okian/animalrace/internal/domain/roster"
	"github.com/okian/animalrace/pkg/logger"
	"gonum.org/v1/gonum/stat"
)

const chartFilePermission = 0o644

// Run writes the report for cfg to w and renders the requested charts.
func Run(ctx context.Context, cfg Config, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m := motion.Default()
	r := roster.Default()
	j := judge.New(m, r)

	if len(cfg.Times) > 0 {
		if err := writeDistanceTable(w, j, r, cfg.Times); err != nil {
			return err
		}
	}
	if len(cfg.Distances) > 0 {
		if err := writeReachTable(w, j, r, cfg.Distances); err != nil {
			return err
		}
	}
	if cfg.PracticeRounds > 0 {
		gen := practice.NewGenerator(practice.WithSeed(cfg.Seed))
		if err := writePractice(w, Summarize(gen, r, cfg.PracticeRounds), cfg); err != nil {
			return err
		}
	}

	series := chart.Build(m, r.All(), cfg.Step)
	if cfg.PNGPath != "" {
		if err := writeChart(ctx, cfg.PNGPath, func(out io.Writer) error {
			return chart.RenderPNG(out, "Distance over time", series)
		}); err != nil {
			return err
		}
	}
	if cfg.HTMLPath != "" {
		if err := writeChart(ctx, cfg.HTMLPath, func(out io.Writer) error {
			return chart.RenderHTML(out, "Distance over time", series)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeDistanceTable(w io.Writer, j *judge.Judge, r *roster.Roster, times []float64) error {
	verdicts := make([]judge.Verdict, len(times))
	for i, t := range times {
		verdicts[i] = j.FixedTime(t)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Distance after t seconds")
	fmt.Fprint(tw, "competitor\t")
	for _, t := range times {
		fmt.Fprintf(tw, "t=%g\t", t)
	}
	fmt.Fprintln(tw)
	for _, c := range r.All() {
		fmt.Fprintf(tw, "%s\t", c.ID)
		for _, v := range verdicts {
			s, _ := v.Standing(c.ID)
			fmt.Fprintf(tw, "%d\t", s.Distance)
		}
		fmt.Fprintln(tw)
	}
	writeWinners(tw, verdicts)
	fmt.Fprintln(tw)
	return tw.Flush()
}

func writeReachTable(w io.Writer, j *judge.Judge, r *roster.Roster, distances []float64) error {
	verdicts := make([]judge.Verdict, len(distances))
	for i, d := range distances {
		verdicts[i] = j.FixedDistance(d)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Time to reach d")
	fmt.Fprint(tw, "competitor\t")
	for _, d := range distances {
		fmt.Fprintf(tw, "d=%g\t", d)
	}
	fmt.Fprintln(tw)
	for _, c := range r.All() {
		fmt.Fprintf(tw, "%s\t", c.ID)
		for _, v := range verdicts {
			if s, ok := v.Standing(c.ID); ok && s.Reached {
				fmt.Fprintf(tw, "%.1fs\t", s.Time)
			} else {
				fmt.Fprint(tw, "-\t")
			}
		}
		fmt.Fprintln(tw)
	}
	writeWinners(tw, verdicts)
	fmt.Fprintln(tw)
	return tw.Flush()
}

func writeWinners(w io.Writer, verdicts []judge.Verdict) {
	fmt.Fprint(w, "winner\t")
	for _, v := range verdicts {
		if v.HasWinner() {
			fmt.Fprintf(w, "%s\t", v.Winner)
		} else {
			fmt.Fprint(w, "none\t")
		}
	}
	fmt.Fprintln(w)
}

// Stats summarizes one competitor's practice speeds.
type Stats struct {
	CompetitorID string
	Mean         float64
	StdDev       float64
	Median       float64
	Min, Max     float64
	Wins         int
}

// Summarize generates rounds practice batches and aggregates speeds and
// wins per competitor. Ties credit every tied competitor.
func Summarize(gen *practice.Generator, r *roster.Roster, rounds int) []Stats {
	competitors := r.All()
	speeds := make(map[string][]float64, len(competitors))
	wins := make(map[string]int, len(competitors))
	for range rounds {
		records := gen.Generate(competitors)
		for _, rec := range records {
			speeds[rec.CompetitorID] = append(speeds[rec.CompetitorID], float64(rec.Speed))
		}
		for _, id := range judge.Free(records).Winners {
			wins[id]++
		}
	}

	out := make([]Stats, 0, len(competitors))
	for _, c := range competitors {
		x := speeds[c.ID]
		if len(x) == 0 {
			out = append(out, Stats{CompetitorID: c.ID})
			continue
		}
		slices.Sort(x)
		mean, std := stat.MeanStdDev(x, nil)
		out = append(out, Stats{
			CompetitorID: c.ID,
			Mean:         mean,
			StdDev:       std,
			Median:       stat.Quantile(0.5, stat.Empirical, x, nil),
			Min:          x[0],
			Max:          x[len(x)-1],
			Wins:         wins[c.ID],
		})
	}
	return out
}

func writePractice(w io.Writer, stats []Stats, cfg Config) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Practice speeds (%d rounds, seed %d)\n", cfg.PracticeRounds, cfg.Seed)
	fmt.Fprintln(tw, "competitor\tmean\tstddev\tmedian\tmin\tmax\twins\t")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.0f\t%.0f\t%.0f\t%d\t\n",
			s.CompetitorID, s.Mean, s.StdDev, s.Median, s.Min, s.Max, s.Wins)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func writeChart(ctx context.Context, path string, render func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, chartFilePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	logger.Get().Info(ctx, "chart written", logger.String("path", path))
	return nil
}
