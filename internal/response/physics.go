package response

import (
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/tuning"
)

// Physics applies directional offsets to tuned physics parameters.
type Physics struct {
	name    string
	source  param.Source
	signal  Signal
	entries []*tuning.Entry

	Multipliers Multipliers
}

// NewGravityPhysics drives each entry's Gravity response from the chest
// orientation.
func NewGravityPhysics(entries []*tuning.Entry) *Physics {
	return &Physics{
		name:        "gravity-physics",
		source:      param.SourceGravity,
		signal:      GravitySignal,
		entries:     entries,
		Multipliers: DefaultMultipliers(),
	}
}

// NewForcePhysics drives each entry's Force response from the per-side
// samples.
func NewForcePhysics(entries []*tuning.Entry) *Physics {
	return &Physics{
		name:        "force-physics",
		source:      param.SourceForce,
		signal:      ForceSignal,
		entries:     entries,
		Multipliers: DefaultMultipliers(),
	}
}

func (h *Physics) Name() string         { return h.name }
func (h *Physics) Source() param.Source { return h.source }

func (h *Physics) response(e *tuning.Entry) *tuning.Directional {
	if h.source == param.SourceGravity {
		return e.Def.Gravity
	}
	return e.Def.Force
}

func (h *Physics) Update(in *Input) error {
	for _, e := range h.entries {
		r := h.response(e)
		if r == nil {
			continue
		}
		values := h.signal(in, e.Side)
		for _, axis := range Axes {
			active, inactive, effect := axis.Split(values[axis])
			e.Param.ClearOffset(param.Contributor(h.source, inactive))

			id := param.Contributor(h.source, active)
			v, ok := r.Offset(active, e.Side, effect*h.Multipliers[active], in.Mass, in.Softness)
			if !ok {
				e.Param.ClearOffset(id)
				continue
			}
			if err := e.Param.ApplyOffset(id, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Reset clears every offset this handler owns.
func (h *Physics) Reset() {
	for _, e := range h.entries {
		for _, d := range param.Directions {
			e.Param.ClearOffset(param.Contributor(h.source, d))
		}
	}
}
