package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/bodycal/internal/config"
	"github.com/san-kum/bodycal/internal/experiment"
	"github.com/san-kum/bodycal/internal/tui"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	character  string
	duration   float64
	seed       int64
	pitch      float64
	roll       float64
	columns    []string
	outFile    string
	svgFile    string
	svgColumns []string
	column     string
	storePath  string
	sweepKey   string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	volume     float64
)

// main registers every subcommand and runs the root command. With no
// subcommand it opens the live tuning view.
func main() {
	rootCmd := &cobra.Command{
		Use:           "bodycal",
		Short:         "breast physics calibration engine on a simulated character",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".bodycal", "data directory")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&character, "character", "default", "simulated character")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the engine on a simulated character and save the trace",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&duration, "time", 0, "seconds to run after going live (default from config)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "sway noise seed")
	runCmd.Flags().Float64Var(&pitch, "pitch", 0, "chest pitch in degrees once live")
	runCmd.Flags().Float64Var(&roll, "roll", 0, "chest roll in [-1, 1] once live")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted yaml scenario and save the trace",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [file]",
		Short: "replay a scenario across values of one setting",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepKey, "key", "softness", "settings key to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 100, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	calibrateCmd := &cobra.Command{
		Use:   "calibrate",
		Short: "run the first calibration and report it",
		Args:  cobra.NoArgs,
		RunE:  runCalibrate,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "tune the engine live in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	curvesCmd := &cobra.Command{
		Use:   "curves [parameter]",
		Short: "plot a parameter's base value against mass",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotCurves,
	}

	massCmd := &cobra.Command{
		Use:   "mass",
		Short: "show the volume to mass curve",
		Args:  cobra.NoArgs,
		RunE:  showMass,
	}
	massCmd.Flags().Float64Var(&volume, "volume", 0, "estimate one volume in cm³")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run trace columns",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "columns", []string{"angleV L", "angleV R", "spring L"}, "trace columns to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&svgFile, "svg", "", "draw --columns into an svg file instead")
	exportCmd.Flags().StringSliceVar(&svgColumns, "columns", []string{"angleV L", "angleV R"}, "trace columns for --svg")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and settling analysis of one trace column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "angleV L", "trace column to analyze")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	charactersCmd := &cobra.Command{
		Use:   "characters",
		Short: "list simulated characters",
		RunE:  listCharacters,
	}

	configCmd := &cobra.Command{
		Use:   "config [file]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  dumpConfig,
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "save, load and list named settings sets",
	}
	settingsCmd.PersistentFlags().StringVar(&storePath, "store", "", "settings store: a directory, or a .db file for sqlite (default <data>/settings)")
	settingsCmd.AddCommand(
		&cobra.Command{
			Use:   "save [name]",
			Short: "save the settings of the current config and preset",
			Args:  cobra.ExactArgs(1),
			RunE:  saveSettings,
		},
		&cobra.Command{
			Use:   "load [name]",
			Short: "load a settings set and check it applies cleanly",
			Args:  cobra.ExactArgs(1),
			RunE:  loadSettings,
		},
		&cobra.Command{
			Use:   "list",
			Short: "list saved settings sets",
			RunE:  listSettings,
		},
		&cobra.Command{
			Use:   "delete [name]",
			Short: "delete a settings set",
			Args:  cobra.ExactArgs(1),
			RunE:  deleteSettings,
		},
	)

	rootCmd.AddCommand(runCmd, scenarioCmd, sweepCmd, calibrateCmd, liveCmd, curvesCmd, massCmd,
		listCmd, plotCmd, exportCmd, analyzeCmd, presetsCmd, charactersCmd, configCmd, settingsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig resolves the preset, then the config file on top of it.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	return cfg, nil
}

func newSession(cfg *config.Config, name string) (*experiment.Session, error) {
	if name == "" {
		name = character
	}
	return experiment.New(cfg, name, slog.Default())
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg, "")
	if err != nil {
		return err
	}
	return tui.Run(s)
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		if err := config.Save(args[0], cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", args[0])
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
