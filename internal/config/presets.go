package config

import "sort"

// Presets are named slider and timing variations over DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"soft": func(c *Config) {
		c.Sliders.Softness = 85
		c.Sliders.Quickness = -20
	},
	"firm": func(c *Config) {
		c.Sliders.Softness = 15
		c.Sliders.Quickness = 20
	},
	"quick": func(c *Config) {
		c.Sliders.Quickness = 100
	},
	"slow": func(c *Config) {
		c.Sliders.Quickness = -100
		c.Calibration.NeutralTimeout = 3.0
	},
}

// GetPreset returns a fresh config with the preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
