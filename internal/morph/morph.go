// Package morph drives morph targets from directional effects. A Config is
// one morph with its sign gate and multipliers; a Set groups the morphs that
// share a trigger direction.
package morph

import (
	"log/slog"

	"github.com/san-kum/bodycal/internal/host"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/tracker"
)

type Config struct {
	Name string
	// IsNegative restricts the morph to values <= 0; otherwise >= 0.
	IsNegative         bool
	SoftnessMultiplier float64
	MassMultiplier     float64

	out   *param.Output
	value float64
}

// UpdateValue recomputes the morph value for a directional effect:
//
//	softness*SoftnessMultiplier*effect/2 + mass*MassMultiplier*effect/2
//
// A value on the wrong side of zero for the morph's sign is replaced by 0.
func (c *Config) UpdateValue(effect, mass, softness float64) float64 {
	v := softness*c.SoftnessMultiplier*effect/2 + mass*c.MassMultiplier*effect/2
	if (c.IsNegative && v > 0) || (!c.IsNegative && v < 0) {
		v = 0
	}
	c.value = v
	return v
}

// Reset returns the morph to its resting value.
func (c *Config) Reset() { c.value = 0 }

func (c *Config) Value() float64        { return c.value }
func (c *Config) Output() *param.Output { return c.out }

// Push writes the current value through the morph's output.
func (c *Config) Push() (bool, error) { return c.out.Write(c.value) }

// HostName is the per-side host morph name.
func HostName(name string, side tracker.Side) string {
	return name + " " + side.Suffix()
}

// Set is the ordered list of morphs that respond to one direction on one side.
type Set struct {
	Name      string
	Direction param.Direction
	Side      tracker.Side
	Morphs    []*Config
}

// Bind attaches every morph in the set to its per-side host morph. Missing
// morphs are logged once and left inert.
func (s *Set) Bind(params host.Params, epsilon float64, logger *slog.Logger) {
	for _, m := range s.Morphs {
		m.out = param.Bind(HostName(m.Name, s.Side), params, epsilon, logger)
	}
}

func (s *Set) Update(effect, mass, softness float64) {
	for _, m := range s.Morphs {
		m.UpdateValue(effect, mass, softness)
	}
}

func (s *Set) Reset() {
	for _, m := range s.Morphs {
		m.Reset()
	}
}

// Push writes every morph and returns the number of host writes.
func (s *Set) Push() (int, error) {
	n := 0
	var firstErr error
	for _, m := range s.Morphs {
		ok, err := m.Push()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if ok {
			n++
		}
	}
	return n, firstErr
}

// Clone copies the set's configuration for another side. Outputs are not
// copied; call Bind on the result.
func (s *Set) Clone(side tracker.Side) *Set {
	c := &Set{Name: s.Name, Direction: s.Direction, Side: side, Morphs: make([]*Config, len(s.Morphs))}
	for i, m := range s.Morphs {
		c.Morphs[i] = &Config{
			Name:               m.Name,
			IsNegative:         m.IsNegative,
			SoftnessMultiplier: m.SoftnessMultiplier,
			MassMultiplier:     m.MassMultiplier,
		}
	}
	return c
}
