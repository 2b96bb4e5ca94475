package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/bodycal/internal/automation"
	"github.com/san-kum/bodycal/internal/config"
	"github.com/san-kum/bodycal/internal/experiment"
	"github.com/san-kum/bodycal/internal/metrics"
	"github.com/san-kum/bodycal/internal/simhost"
	"github.com/san-kum/bodycal/internal/storage"
	"github.com/san-kum/bodycal/internal/tracker"
	"github.com/san-kum/bodycal/internal/tuning"
)

// liveLimit bounds the wait for the first calibration.
const liveLimit = 10.0

func probes() []storage.Probe {
	var out []storage.Probe
	for _, name := range []string{tuning.Spring, tuning.Damper, tuning.TargetRotationX, tuning.TargetRotationY} {
		for _, side := range tracker.Sides {
			out = append(out, storage.Probe{Name: name, Side: side})
		}
	}
	return out
}

type recording struct {
	set metrics.Set
	rec *storage.Recorder
}

func record(s *experiment.Session) *recording {
	r := &recording{
		set: metrics.Default(),
		rec: storage.NewRecorder(s.Engine(), probes()...),
	}
	s.Engine().AddObserver(r.set)
	s.Engine().AddObserver(r.rec)
	return r
}

func (r *recording) save(s *experiment.Session, name string) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	eng := s.Engine()
	return st.Save(storage.RunMetadata{
		Name:     name,
		Instance: eng.ID(),
		Preset:   preset,
		Seed:     s.Config().Seed,
		Dt:       s.Config().Dt,
		Duration: s.Time(),
		Mass:     eng.Mass().Mass(),
		Metrics:  r.set.Values(),
	}, r.rec.Trace())
}

func (r *recording) print(s *experiment.Session, runID string, elapsed time.Duration) {
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %s\n", humanize.Comma(int64(s.Steps())))
	fmt.Printf("host writes: %s\n", humanize.Comma(int64(s.Engine().TotalWrites())))
	fmt.Printf("mass: %.3f\n", s.Engine().Mass().Mass())
	fmt.Println("\nmetrics:")
	values := r.set.Values()
	for _, name := range r.set.Names() {
		fmt.Printf("  %s: %.6f\n", name, values[name])
	}
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if duration > 0 {
		cfg.Duration = duration
	}

	s, err := newSession(cfg, "")
	if err != nil {
		return err
	}
	r := record(s)

	ctx, stop := interruptible()
	defer stop()

	fmt.Printf("running %s for %.1fs...\n", character, cfg.Duration)
	start := time.Now()
	if err := s.RunUntilLive(ctx, liveLimit); err != nil {
		return err
	}
	s.Character().SetPose(simhost.Pose{Pitch: pitch, Roll: roll})
	if err := s.Advance(ctx, cfg.Duration); err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := r.save(s, "run")
	if err != nil {
		return err
	}
	r.print(s, runID, elapsed)
	return nil
}

func scenarioConfig(sc *automation.Scenario) (*config.Config, error) {
	if sc.Preset != "" && preset == "" {
		preset = sc.Preset
	}
	return loadConfig()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := scenarioConfig(sc)
	if err != nil {
		return err
	}
	s, err := newSession(cfg, sc.Character)
	if err != nil {
		return err
	}
	r := record(s)

	ctx, stop := interruptible()
	defer stop()

	fmt.Printf("running scenario %s (%d events, %.1fs)...\n", sc.Name, len(sc.Events), sc.Duration)
	start := time.Now()
	res, err := automation.Run(ctx, sc, s, slog.Default())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	name := sc.Name
	if name == "" {
		name = "scenario"
	}
	runID, err := r.save(s, name)
	if err != nil {
		return err
	}
	r.print(s, runID, elapsed)

	if len(res.Calibrations) > 0 {
		fmt.Println("\ncalibrations:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  REASON\tMASS\tDURATION\tLOCK WAIT\tTIMED OUT\tERROR")
		for _, c := range res.Calibrations {
			errText := "-"
			if c.Err != nil {
				errText = c.Err.Error()
			}
			fmt.Fprintf(w, "  %s\t%v\t%.2fs\t%.2fs\t%v\t%s\n",
				c.Request.Reason, c.Request.UpdateMass, c.Duration, c.LockWait, c.TimedOut, errText)
		}
		w.Flush()
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := scenarioConfig(sc)
	if err != nil {
		return err
	}

	ctx, stop := interruptible()
	defer stop()

	sw := automation.Sweep{Key: sweepKey, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	results, err := automation.RunSweep(ctx, sw, sc, func() (*experiment.Session, error) {
		c := *cfg
		return newSession(&c, sc.Character)
	}, slog.Default())
	if err != nil {
		return err
	}

	names := metrics.Default().Names()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, sweepKey)
	for _, n := range names {
		fmt.Fprint(w, "\t"+n)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%.3f", r.Value)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg, "")
	if err != nil {
		return err
	}

	ctx, stop := interruptible()
	defer stop()

	if err := s.RunUntilLive(ctx, liveLimit); err != nil {
		return err
	}
	eng := s.Engine()
	rep, ok := eng.LastCalibration()
	if !ok {
		return fmt.Errorf("no calibration finished")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "instance\t%s\n", eng.ID())
	fmt.Fprintf(w, "reason\t%s\n", rep.Request.Reason)
	fmt.Fprintf(w, "duration\t%.2fs (%s ticks)\n", rep.Duration, humanize.Comma(int64(eng.Tick())))
	fmt.Fprintf(w, "lock wait\t%.2fs\n", rep.LockWait)
	fmt.Fprintf(w, "neutral pose timed out\t%v\n", rep.TimedOut)
	fmt.Fprintf(w, "mass\t%.3f (real %.3f)\n", eng.Mass().Mass(), eng.Mass().RealMass())
	fmt.Fprintf(w, "host writes\t%s\n", humanize.Comma(int64(eng.TotalWrites())))
	if rep.Err != nil {
		fmt.Fprintf(w, "error\t%v\n", rep.Err)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tL\tR")
	for i, en := range eng.Entries(tracker.Left) {
		right := eng.Entries(tracker.Right)[i]
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", en.Param.Name(), en.Param.Value(), right.Param.Value())
	}
	return w.Flush()
}
