package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt              = 1.0 / 60
	DefaultDuration        = 10.0
	DefaultSoftness        = 50.0
	DefaultQuickness       = 0.0
	DefaultEpsilon         = 0.001
	DefaultMonitorInterval = 1.0
	DefaultVolumeDrift     = 0.02
	DefaultCorrectionForce = 6.0
)

type Config struct {
	Instance    string            `yaml:"instance"`
	Dt          float64           `yaml:"dt"`
	Duration    float64           `yaml:"duration"`
	Seed        int64             `yaml:"seed"`
	Mass        MassConfig        `yaml:"mass"`
	Sliders     SliderConfig      `yaml:"sliders"`
	Multipliers MultipliersConfig `yaml:"multipliers"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Epsilon     float64           `yaml:"epsilon"`
	Monitor     MonitorConfig     `yaml:"monitor"`
	Rig         RigConfig         `yaml:"rig"`
	Morphs      MorphConfig       `yaml:"morphs"`
}

type MassConfig struct {
	Min         float64 `yaml:"min"`
	Max         float64 `yaml:"max"`
	Coefficient float64 `yaml:"coefficient"`
	Exponent    float64 `yaml:"exponent"`
	AutoUpdate  bool    `yaml:"auto_update"`
	// Pinned is the mass used while AutoUpdate is off.
	Pinned float64 `yaml:"pinned"`
}

type SliderConfig struct {
	Softness       float64 `yaml:"softness"`
	Quickness      float64 `yaml:"quickness"`
	NippleErection float64 `yaml:"nipple_erection"`
}

// Multipliers holds one value per direction, in [0, 2].
type Multipliers struct {
	Up      float64 `yaml:"up"`
	Down    float64 `yaml:"down"`
	Inward  float64 `yaml:"inward"`
	Outward float64 `yaml:"outward"`
	Forward float64 `yaml:"forward"`
	Back    float64 `yaml:"back"`
}

// Values returns the multipliers in direction order.
func (m Multipliers) Values() [6]float64 {
	return [6]float64{m.Up, m.Down, m.Inward, m.Outward, m.Forward, m.Back}
}

func UniformMultipliers(v float64) Multipliers {
	return Multipliers{v, v, v, v, v, v}
}

type MultipliersConfig struct {
	GravityPhysics Multipliers `yaml:"gravity_physics"`
	ForcePhysics   Multipliers `yaml:"force_physics"`
	GravityMorphs  Multipliers `yaml:"gravity_morphs"`
	ForceMorphs    Multipliers `yaml:"force_morphs"`
}

type CalibrationConfig struct {
	LockPoll          float64 `yaml:"lock_poll"`
	ZeroGravitySettle float64 `yaml:"zero_gravity_settle"`
	MassPasses        int     `yaml:"mass_passes"`
	MassPassInterval  float64 `yaml:"mass_pass_interval"`
	NeutralTimeout    float64 `yaml:"neutral_timeout"`
	SettleTolerance   float64 `yaml:"settle_tolerance"`
	CorrectionForce   float64 `yaml:"correction_force"`
}

type MonitorConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Interval float64 `yaml:"interval"`
	// VolumeDrift is the relative volume change that triggers a refresh.
	VolumeDrift float64 `yaml:"volume_drift"`
}

// RigConfig names the host rigid bodies the engine tracks.
type RigConfig struct {
	Chest         string `yaml:"chest"`
	LeftPectoral  string `yaml:"left_pectoral"`
	RightPectoral string `yaml:"right_pectoral"`
	LeftNipple    string `yaml:"left_nipple"`
	RightNipple   string `yaml:"right_nipple"`
}

// MorphConfig points at directories of direction-set files. Empty means the
// built-in sets.
type MorphConfig struct {
	GravityDir string `yaml:"gravity_dir"`
	ForceDir   string `yaml:"force_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Mass: MassConfig{
			Min:         0.1,
			Max:         2.0,
			Coefficient: 0.78,
			Exponent:    1.5,
			AutoUpdate:  true,
			Pinned:      0.5,
		},
		Sliders: SliderConfig{
			Softness:  DefaultSoftness,
			Quickness: DefaultQuickness,
		},
		Multipliers: MultipliersConfig{
			GravityPhysics: UniformMultipliers(1),
			ForcePhysics:   UniformMultipliers(1),
			GravityMorphs:  UniformMultipliers(1),
			ForceMorphs:    UniformMultipliers(1),
		},
		Calibration: CalibrationConfig{
			LockPoll:          0.1,
			ZeroGravitySettle: 0.3,
			MassPasses:        5,
			MassPassInterval:  0.1,
			NeutralTimeout:    2.0,
			SettleTolerance:   0.0005,
			CorrectionForce:   DefaultCorrectionForce,
		},
		Epsilon: DefaultEpsilon,
		Monitor: MonitorConfig{
			Enabled:     true,
			Interval:    DefaultMonitorInterval,
			VolumeDrift: DefaultVolumeDrift,
		},
		Rig: RigConfig{
			Chest:         "chest",
			LeftPectoral:  "lPectoral",
			RightPectoral: "rPectoral",
			LeftNipple:    "lNipple",
			RightNipple:   "rNipple",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Dt <= 0:
		return fmt.Errorf("dt must be positive, got %v", c.Dt)
	case c.Mass.Min <= 0 || c.Mass.Max <= c.Mass.Min:
		return fmt.Errorf("mass range [%v, %v] is invalid", c.Mass.Min, c.Mass.Max)
	case c.Sliders.Softness < 0 || c.Sliders.Softness > 100:
		return fmt.Errorf("softness %v outside [0, 100]", c.Sliders.Softness)
	case c.Sliders.Quickness < -100 || c.Sliders.Quickness > 100:
		return fmt.Errorf("quickness %v outside [-100, 100]", c.Sliders.Quickness)
	case c.Sliders.NippleErection < 0 || c.Sliders.NippleErection > 1:
		return fmt.Errorf("nipple erection %v outside [0, 1]", c.Sliders.NippleErection)
	case c.Calibration.MassPasses < 1:
		return fmt.Errorf("mass passes must be at least 1, got %d", c.Calibration.MassPasses)
	case c.Epsilon < 0:
		return fmt.Errorf("epsilon must not be negative, got %v", c.Epsilon)
	}
	return nil
}

// Steps is the number of fixed ticks in Duration.
func (c *Config) Steps() int {
	return int(c.Duration/c.Dt + 0.5)
}
