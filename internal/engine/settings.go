package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/bodycal/internal/curve"
	"github.com/san-kum/bodycal/internal/param"
)

// Flat settings keys.
const (
	KeySoftness       = "softness"
	KeyQuickness      = "quickness"
	KeyNippleErection = "nippleErection"
	KeyMass           = "mass"
	KeyAutoUpdateMass = "autoUpdateMass"
)

// Settings returns every user-facing value as a flat key to scalar map.
// Multipliers are keyed "<group>.<direction>".
func (e *Engine) Settings() map[string]float64 {
	s := map[string]float64{
		KeySoftness:       e.softness,
		KeyQuickness:      e.quickness,
		KeyNippleErection: e.nippleErection,
		KeyMass:           e.mass.Mass(),
		KeyAutoUpdateMass: boolValue(e.mass.AutoUpdate()),
	}
	if !e.initialized {
		return s
	}
	for _, g := range multiplierGroups {
		m, _ := e.multipliers(g)
		for _, d := range param.Directions {
			s[g+"."+d.String()] = m.Get(d)
		}
	}
	return s
}

// ApplySettings sets every known key and requests one calibration. Unknown
// keys are reported together after the known ones are applied.
func (e *Engine) ApplySettings(s map[string]float64) error {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// auto-update first so a pinned mass in the same batch sticks
	if v, ok := s[KeyAutoUpdateMass]; ok {
		e.mass.SetAutoUpdate(v != 0)
	}

	var unknown []string
	for _, k := range keys {
		v := s[k]
		switch k {
		case KeyAutoUpdateMass:
		case KeySoftness:
			e.softness = curve.Clamp(v, 0, 100)
		case KeyQuickness:
			e.quickness = curve.Clamp(v, -100, 100)
		case KeyNippleErection:
			e.nippleErection = curve.Clamp(v, 0, 1)
		case KeyMass:
			e.mass.Pin(v)
		default:
			if !e.applyMultiplier(k, v) {
				unknown = append(unknown, k)
			}
		}
	}

	if err := e.request(e.mass.AutoUpdate(), "settings"); errors.Is(err, ErrDisabled) {
		return err
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, strings.Join(unknown, ", "))
	}
	return nil
}

func (e *Engine) applyMultiplier(key string, v float64) bool {
	group, dir, ok := strings.Cut(key, ".")
	if !ok {
		return false
	}
	d, ok := param.ParseDirection(dir)
	if !ok {
		return false
	}
	return e.SetMultiplier(group, d, v) == nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
