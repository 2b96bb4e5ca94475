package automation

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/san-kum/bodycal/internal/experiment"
	"github.com/san-kum/bodycal/internal/metrics"
)

// Sweep replays one scenario across evenly spaced values of one settings
// key, on a fresh session each time.
type Sweep struct {
	Key   string
	Min   float64
	Max   float64
	Steps int
}

// SweepResult holds the run metrics for one swept value.
type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

func (sw Sweep) Values() []float64 {
	if sw.Steps <= 1 {
		return []float64{sw.Min}
	}
	out := make([]float64, sw.Steps)
	step := (sw.Max - sw.Min) / float64(sw.Steps-1)
	for i := range out {
		out[i] = sw.Min + float64(i)*step
	}
	return out
}

// RunSweep executes a parameter sweep. build returns a new session per
// value.
func RunSweep(ctx context.Context, sw Sweep, sc *Scenario, build func() (*experiment.Session, error), logger *slog.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	values := sw.Values()
	results := make([]SweepResult, 0, len(values))

	for i, v := range values {
		s, err := build()
		if err != nil {
			return results, err
		}
		set := metrics.Default()
		s.Engine().AddObserver(set)

		run := *sc
		run.Settings = maps.Clone(sc.Settings)
		if run.Settings == nil {
			run.Settings = map[string]float64{}
		}
		run.Settings[sw.Key] = v

		if _, err := Run(ctx, &run, s, logger); err != nil {
			return results, fmt.Errorf("sweep %s=%.4f: %w", sw.Key, v, err)
		}
		results = append(results, SweepResult{Value: v, Metrics: set.Values()})
		logger.Info("sweep step", "index", i+1, "of", len(values), "key", sw.Key, "value", v)
	}
	return results, nil
}
