// Package tuning is the catalog of physics quantities the engine drives and
// the hand-fitted curves behind each of them. Constants here were tuned by
// eye against the host's solver; change them together with a visual check.
package tuning

import (
	"log/slog"

	"github.com/san-kum/bodycal/internal/host"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/tracker"
)

// Soft-tissue region names.
const (
	RegionMain   = "main"
	RegionOuter  = "outer"
	RegionAreola = "areola"
	RegionNipple = "nipple"
)

// EffectFunc turns a directional effect magnitude in [0, 1] into an offset.
type EffectFunc func(effect, mass, softness float64) float64

// Directional maps each active direction to its offset curve. Directions
// without a curve leave the parameter untouched.
type Directional struct {
	Effects map[param.Direction]EffectFunc
	// Mirror flips the sign of horizontal offsets for the left side, for
	// quantities such as twist whose sign is not side-relative.
	Mirror bool
}

// Offset evaluates the curve for d, returning false when d has none.
func (r *Directional) Offset(d param.Direction, side tracker.Side, effect, mass, softness float64) (float64, bool) {
	if r == nil {
		return 0, false
	}
	fn, ok := r.Effects[d]
	if !ok {
		return 0, false
	}
	v := fn(effect, mass, softness)
	if r.Mirror && (d == param.Inward || d == param.Outward) {
		v *= side.Sign()
	}
	return v, true
}

type RegionDef struct {
	Name       string
	Multiplier param.StaticFunc
}

// Definition is one physics quantity before it is bound to a side.
type Definition struct {
	param.Config
	// Output is false for quantities that are only pushed through regions.
	Output  bool
	Regions []RegionDef
	Gravity *Directional
	Force   *Directional
}

// Entry is a Definition bound to one side of the host.
type Entry struct {
	Def   *Definition
	Side  tracker.Side
	Param *param.Parameter
}

// HostName is the per-side host scalar for a parameter.
func HostName(name string, side tracker.Side) string {
	return name + " " + side.Suffix()
}

// RegionHostName is the per-side host scalar for a parameter's region.
func RegionHostName(name, region string, side tracker.Side) string {
	return name + "." + region + " " + side.Suffix()
}

// Catalog returns every definition, main physics first.
func Catalog() []*Definition {
	return append(MainPhysics(), SoftPhysics()...)
}

// Bind builds one Parameter per definition for side. Host names that the
// host does not know produce inert outputs and a single warning each.
func Bind(defs []*Definition, side tracker.Side, params host.Params, epsilon float64, logger *slog.Logger) []*Entry {
	entries := make([]*Entry, 0, len(defs))
	for _, d := range defs {
		var out *param.Output
		if d.Output {
			out = param.Bind(HostName(d.Name, side), params, epsilon, logger)
		}
		p := param.New(d.Config, out)
		for _, r := range d.Regions {
			p.AddRegion(r.Name, r.Multiplier, param.Bind(RegionHostName(d.Name, r.Name, side), params, epsilon, logger))
		}
		entries = append(entries, &Entry{Def: d, Side: side, Param: p})
	}
	return entries
}

// HostNames lists every host scalar a side needs, for hosts that register
// parameters up front.
func HostNames(defs []*Definition, side tracker.Side) []string {
	var names []string
	for _, d := range defs {
		if d.Output {
			names = append(names, HostName(d.Name, side))
		}
		for _, r := range d.Regions {
			names = append(names, RegionHostName(d.Name, r.Name, side))
		}
	}
	return names
}

// Params extracts the parameters of entries as a push batch.
func Params(entries []*Entry) param.Batch {
	b := make(param.Batch, len(entries))
	for i, e := range entries {
		b[i] = e.Param
	}
	return b
}
