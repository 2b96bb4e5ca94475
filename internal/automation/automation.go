// Package automation runs scripted scenarios: timed pose changes, host
// events and user actions against one experiment session.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bodycal/internal/calibrate"
	"github.com/san-kum/bodycal/internal/engine"
	"github.com/san-kum/bodycal/internal/experiment"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/simhost"
	"github.com/san-kum/bodycal/internal/tracker"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

// Action names accepted in scenario events.
const (
	ActionRecalibrate    = "recalibrate"
	ActionCalculateMass  = "calculate_mass"
	ActionAutoMassOn     = "auto_mass_on"
	ActionAutoMassOff    = "auto_mass_off"
	ActionMass           = "mass"
	ActionSoftness       = "softness"
	ActionQuickness      = "quickness"
	ActionNippleErection = "nipple_erection"
	ActionMultiplier     = "multiplier"
)

var actions = map[string]bool{
	ActionRecalibrate: true, ActionCalculateMass: true, ActionAutoMassOn: true,
	ActionAutoMassOff: true, ActionMass: true, ActionSoftness: true,
	ActionQuickness: true, ActionNippleErection: true, ActionMultiplier: true,
}

// Scenario defines a scripted run
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Character   string             `yaml:"character"`
	Preset      string             `yaml:"preset"`
	Duration    float64            `yaml:"duration"`
	Settings    map[string]float64 `yaml:"settings"`
	Events      []Event            `yaml:"events"`
}

// Event happens once at a simulated time. Every field set on it is applied.
type Event struct {
	At        float64            `yaml:"at"`
	Pose      *Pose              `yaml:"pose"`
	Size      *float64           `yaml:"size"`
	AtomScale *float64           `yaml:"atom_scale"`
	Freeze    *bool              `yaml:"freeze"`
	Action    string             `yaml:"action"`
	Target    string             `yaml:"target"`
	Value     float64            `yaml:"value"`
	Settings  map[string]float64 `yaml:"settings"`
}

type Pose struct {
	Pitch float64 `yaml:"pitch"`
	Roll  float64 `yaml:"roll"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	if sc.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidScenario)
	}
	for i, ev := range sc.Events {
		if ev.At < 0 || ev.At > sc.Duration {
			return fmt.Errorf("%w: event %d at %.2fs is outside [0, %.2f]", ErrInvalidScenario, i+1, ev.At, sc.Duration)
		}
		if ev.Action != "" && !actions[ev.Action] {
			return fmt.Errorf("%w: event %d: unknown action %q", ErrInvalidScenario, i+1, ev.Action)
		}
		if ev.Action == ActionMultiplier {
			if _, _, err := parseMultiplier(ev.Target); err != nil {
				return fmt.Errorf("%w: event %d: %v", ErrInvalidScenario, i+1, err)
			}
		}
		if ev.Pose == nil && ev.Size == nil && ev.AtomScale == nil && ev.Freeze == nil &&
			ev.Action == "" && len(ev.Settings) == 0 {
			return fmt.Errorf("%w: event %d does nothing", ErrInvalidScenario, i+1)
		}
	}
	return nil
}

// Result summarizes a finished scenario.
type Result struct {
	Name         string
	Duration     float64
	Steps        int
	Calibrations []calibrate.Report
}

// Run waits for the first calibration, then plays the events in time order
// and runs until the scenario's duration. Event times count from the
// moment the engine went live.
func Run(ctx context.Context, sc *Scenario, s *experiment.Session, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	eng := s.Engine()

	res := &Result{Name: sc.Name, Duration: sc.Duration}
	eng.OnCalibrated(func(r calibrate.Report) {
		res.Calibrations = append(res.Calibrations, r)
	})

	if len(sc.Settings) > 0 {
		if err := eng.ApplySettings(sc.Settings); err != nil {
			return res, fmt.Errorf("scenario settings: %w", err)
		}
	}
	if err := s.RunUntilLive(ctx, 10); err != nil {
		return res, err
	}

	events := make([]Event, len(sc.Events))
	copy(events, sc.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	start := s.Time()
	for i, ev := range events {
		if err := s.Advance(ctx, start+ev.At-s.Time()); err != nil {
			return res, err
		}
		logger.Debug("scenario event", "index", i+1, "at", ev.At, "action", ev.Action)
		if err := apply(s, ev); err != nil {
			return res, fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	if err := s.Advance(ctx, start+sc.Duration-s.Time()); err != nil {
		return res, err
	}

	res.Steps = s.Steps()
	return res, nil
}

func apply(s *experiment.Session, ev Event) error {
	char, eng := s.Character(), s.Engine()

	if ev.Pose != nil {
		char.SetPose(simhost.Pose{Pitch: ev.Pose.Pitch, Roll: ev.Pose.Roll})
	}
	if ev.Size != nil {
		for _, side := range tracker.Sides {
			char.SetSize(side, *ev.Size)
		}
	}
	if ev.AtomScale != nil {
		char.SetAtomScale(*ev.AtomScale)
	}
	if ev.Freeze != nil {
		char.SetAnimationFrozen(*ev.Freeze)
	}
	if len(ev.Settings) > 0 {
		if err := eng.ApplySettings(ev.Settings); err != nil && !errors.Is(err, calibrate.ErrCalibrationInProgress) {
			return err
		}
	}
	if ev.Action == "" {
		return nil
	}
	err := runAction(eng, ev)
	if errors.Is(err, calibrate.ErrCalibrationInProgress) {
		return nil
	}
	return err
}

func runAction(eng *engine.Engine, ev Event) error {
	switch ev.Action {
	case ActionRecalibrate:
		return eng.RecalibratePhysics()
	case ActionCalculateMass:
		return eng.CalculateBreastMass()
	case ActionAutoMassOn:
		return eng.AutoUpdateMassOn()
	case ActionAutoMassOff:
		eng.AutoUpdateMassOff()
		return nil
	case ActionMass:
		return eng.SetMass(ev.Value)
	case ActionSoftness:
		return eng.SetSoftness(ev.Value)
	case ActionQuickness:
		return eng.SetQuickness(ev.Value)
	case ActionNippleErection:
		eng.SetNippleErection(ev.Value)
		return nil
	case ActionMultiplier:
		group, d, err := parseMultiplier(ev.Target)
		if err != nil {
			return err
		}
		return eng.SetMultiplier(group, d, ev.Value)
	}
	return fmt.Errorf("unknown action %q", ev.Action)
}

// parseMultiplier splits a "<group>.<direction>" target.
func parseMultiplier(target string) (string, param.Direction, error) {
	group, dir, ok := strings.Cut(target, ".")
	if !ok {
		return "", 0, fmt.Errorf("multiplier target %q is not <group>.<direction>", target)
	}
	d, ok := param.ParseDirection(dir)
	if !ok {
		return "", 0, fmt.Errorf("unknown direction %q", dir)
	}
	return group, d, nil
}
