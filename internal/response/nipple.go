package response

import (
	"log/slog"

	"github.com/san-kum/bodycal/internal/host"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/tracker"
	"github.com/san-kum/bodycal/internal/tuning"
)

// NippleErectionMorph is the host morph driven by the erection amount.
const NippleErectionMorph = "TM_NippleErection"

// Nipple stiffens and raises the nipple and areola regions.
type Nipple struct {
	entries []*tuning.Entry
	morphs  [2]*param.Output
	values  [2]float64
}

// NewNipple binds the erection morph for both sides.
func NewNipple(entries []*tuning.Entry, params host.Params, epsilon float64, logger *slog.Logger) *Nipple {
	h := &Nipple{entries: entries}
	for _, side := range tracker.Sides {
		h.morphs[side] = param.Bind(NippleErectionMorph+" "+side.Suffix(), params, epsilon, logger)
	}
	return h
}

func (h *Nipple) Name() string { return "nipple-erection" }

// region offsets per unit of erection, by parameter name.
var nippleOffsets = map[string]map[string]float64{
	tuning.SoftSpring: {
		tuning.RegionNipple: 120,
		tuning.RegionAreola: 40,
	},
	tuning.SoftDamper: {
		tuning.RegionNipple: 0.4,
	},
	tuning.SoftColliderRadius: {
		tuning.RegionNipple: 0.002,
	},
}

func (h *Nipple) Update(in *Input) error {
	amount := in.NippleErection
	for _, e := range h.entries {
		regions, ok := nippleOffsets[e.Param.Name()]
		if !ok {
			continue
		}
		for name, scale := range regions {
			r := e.Param.Region(name)
			if r == nil {
				continue
			}
			if amount == 0 {
				r.ClearOffset(param.NippleErection)
				continue
			}
			if err := r.ApplyOffset(param.NippleErection, scale*amount); err != nil {
				return err
			}
		}
	}
	for _, side := range tracker.Sides {
		h.values[side] = amount
	}
	return nil
}

// Value is the last erection morph value for a side.
func (h *Nipple) Value(side tracker.Side) float64 { return h.values[side] }

func (h *Nipple) Push() (int, error) {
	n := 0
	for _, side := range tracker.Sides {
		ok, err := h.morphs[side].Write(h.values[side])
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}
