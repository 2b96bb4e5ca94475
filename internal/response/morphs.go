package response

import (
	"github.com/san-kum/bodycal/internal/curve"
	"github.com/san-kum/bodycal/internal/morph"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/tracker"
)

// Morphs blends directional morph sets. Only the active regime's set holds a
// value; the opposite set is reset every update.
type Morphs struct {
	name   string
	signal Signal
	sets   [2]map[param.Direction]*morph.Set

	Multipliers Multipliers
}

func newMorphs(name string, signal Signal, sets []*morph.Set) *Morphs {
	h := &Morphs{name: name, signal: signal, Multipliers: DefaultMultipliers()}
	for i := range h.sets {
		h.sets[i] = make(map[param.Direction]*morph.Set)
	}
	for _, s := range sets {
		h.sets[s.Side][s.Direction] = s
	}
	return h
}

// NewGravityMorphs takes the bound sets of both sides.
func NewGravityMorphs(sets []*morph.Set) *Morphs {
	return newMorphs("gravity-morphs", GravitySignal, sets)
}

func NewForceMorphs(sets []*morph.Set) *Morphs {
	return newMorphs("force-morphs", ForceSignal, sets)
}

func (h *Morphs) Name() string { return h.name }

// Set returns the morph set for a side and direction, or nil.
func (h *Morphs) Set(side tracker.Side, d param.Direction) *morph.Set {
	return h.sets[side][d]
}

func (h *Morphs) Update(in *Input) error {
	for _, side := range tracker.Sides {
		values := h.signal(in, side)
		for _, axis := range Axes {
			active, inactive, effect := axis.Split(values[axis])
			if s := h.sets[side][inactive]; s != nil {
				s.Reset()
			}
			if s := h.sets[side][active]; s != nil {
				s.Update(effect*curve.QuadraticRegression(h.Multipliers[active]), in.Mass, in.Softness)
			}
		}
	}
	return nil
}

func (h *Morphs) Reset() {
	for _, bySide := range h.sets {
		for _, s := range bySide {
			s.Reset()
		}
	}
}

// Push writes every morph and returns the number of host writes.
func (h *Morphs) Push() (int, error) {
	n := 0
	var firstErr error
	for _, side := range tracker.Sides {
		for _, d := range param.Directions {
			s := h.sets[side][d]
			if s == nil {
				continue
			}
			k, err := s.Push()
			n += k
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return n, firstErr
}
