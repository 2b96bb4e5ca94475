package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bodycal/internal/analysis"
	"github.com/san-kum/bodycal/internal/experiment"
	"github.com/san-kum/bodycal/internal/export"
	"github.com/san-kum/bodycal/internal/mass"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/storage"
	"github.com/san-kum/bodycal/internal/tuning"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAGE\tDURATION\tMASS\tWRITES\tPRESET")

	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.3f\t%s\t%s\n",
			run.ID,
			run.Name,
			humanize.Time(run.Timestamp),
			run.Duration,
			run.Mass,
			humanize.Comma(int64(run.Metrics["writes"])),
			p,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if tr.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("samples: %s\n\n", humanize.Comma(int64(tr.Len())))

	for _, col := range columns {
		data := tr.Column(col)
		if data == nil {
			fmt.Printf("no column %q (have %v)\n\n", col, tr.Columns)
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if svgFile != "" {
		series := make([]export.Series, 0, len(svgColumns))
		for _, col := range svgColumns {
			if data := tr.Column(col); data != nil {
				series = append(series, export.Series{Label: col, Values: data})
			}
		}
		svg := export.TraceSVG(tr.Times, series, 900, 400)
		if svg == "" {
			return fmt.Errorf("nothing to draw for columns %v", svgColumns)
		}
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgFile)
		return nil
	}
	if outFile == "" {
		return storage.ExportJSON(os.Stdout, *meta, tr)
	}
	if err := storage.ExportJSONFile(outFile, *meta, tr); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

// curveSamples is the number of mass points per plotted curve.
const curveSamples = 60

func plotCurves(cmd *cobra.Command, args []string) error {
	defs := tuning.Catalog()
	if len(args) == 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PARAMETER\tRANGE\tHOST\tREGIONS")
		for _, d := range defs {
			fmt.Fprintf(w, "%s\t[%g, %g]\t%v\t%d\n", d.Name, d.Min, d.Max, d.Output, len(d.Regions))
		}
		return w.Flush()
	}

	var def *tuning.Definition
	for _, d := range defs {
		if d.Name == args[0] {
			def = d
		}
	}
	if def == nil {
		return fmt.Errorf("unknown parameter: %s", args[0])
	}

	softness := []float64{0, 0.5, 1}
	series := make([][]float64, len(softness))
	for i, s := range softness {
		p := param.New(def.Config, nil)
		series[i] = make([]float64, curveSamples)
		for j := range series[i] {
			p.SetBaseValue(float64(j)/float64(curveSamples-1), s, 0)
			series[i][j] = p.Base()
		}
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green, asciigraph.Red),
		asciigraph.Caption(def.Name+" vs mass amount (softness 0 blue, 0.5 green, 1 red)"),
	)
	fmt.Println(graph)
	return nil
}

func showMass(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := mass.Curve{
		Min:         cfg.Mass.Min,
		Max:         cfg.Mass.Max,
		Coefficient: cfg.Mass.Coefficient,
		Exponent:    cfg.Mass.Exponent,
	}

	if volume > 0 {
		m := c.EstimateMass(volume, volume)
		fmt.Printf("volume %s cm³ -> mass %.3f (amount %.3f)\n", humanize.Comma(int64(volume)), m, c.Amount(m))
		return nil
	}

	volumes := make([]float64, 0, 60)
	masses := make([]float64, 0, 60)
	for v := 50.0; v <= 3000; v += 50 {
		volumes = append(volumes, v)
		masses = append(masses, c.EstimateMass(v, v))
	}
	fmt.Println(asciigraph.Plot(masses,
		asciigraph.Height(12),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("mass vs volume, %g to %g cm³", volumes[0], volumes[len(volumes)-1])),
	))
	return nil
}

func listCharacters(cmd *cobra.Command, args []string) error {
	r := experiment.DefaultRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tINTEGRATOR\tDESCRIPTION")
	for _, name := range r.ListCharacters() {
		spec, err := r.Character(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\n", name, spec.Size, spec.Options.Integrator, spec.Description)
	}
	return w.Flush()
}

// settleTolerance is in the analyzed column's units, degrees for angles.
const settleTolerance = 0.5

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	data := tr.Column(column)
	if data == nil {
		return fmt.Errorf("no column %q (have %v)", column, tr.Columns)
	}
	times := tr.Times
	// skip the first calibration
	if live := tr.Column("live"); live != nil {
		for i, v := range live {
			if v == 1 {
				data, times = data[i:], times[i:]
				break
			}
		}
	}
	if len(data) < 4 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s\n\n", column)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:max(len(ps)/4, 2)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+column+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	fmt.Printf("settling time: %.3f s\n", analysis.SettlingTime(times, data, settleTolerance))
	fmt.Printf("overshoot: %.3f\n", analysis.Overshoot(data))
	return nil
}
