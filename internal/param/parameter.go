// Package param models tunable physics quantities: a base value from a
// mass/softness curve, named offsets from directional handlers, and
// per-region sub-groups that scale the parent value.
package param

import (
	"github.com/san-kum/bodycal/internal/curve"
)

// State is a parameter's lifecycle stage.
type State int

const (
	Uninitialized State = iota
	Calibrating
	Live
)

func (s State) String() string {
	switch s {
	case Calibrating:
		return "calibrating"
	case Live:
		return "live"
	default:
		return "uninitialized"
	}
}

// StaticFunc computes a value from the normalized mass and softness amounts.
type StaticFunc func(mass, softness float64) float64

// Config describes one physics quantity.
type Config struct {
	Name   string
	Static StaticFunc
	// Quickness is blended in by quickness in (0, 1].
	Quickness StaticFunc
	// Slowness is blended in by -quickness in (0, 1].
	Slowness StaticFunc
	// Min and Max clamp the pushed value when Max > Min.
	Min float64
	Max float64
}

// Parameter is one physics quantity for one side: base + offsets, pushed to
// an optional host Output and to any number of regions.
type Parameter struct {
	cfg     Config
	out     *Output
	regions []*Region

	state   State
	base    float64
	offsets offsets
}

func New(cfg Config, out *Output) *Parameter {
	return &Parameter{cfg: cfg, out: out}
}

func (p *Parameter) Name() string       { return p.cfg.Name }
func (p *Parameter) Config() Config     { return p.cfg }
func (p *Parameter) State() State       { return p.state }
func (p *Parameter) Base() float64      { return p.base }
func (p *Parameter) Output() *Output    { return p.out }
func (p *Parameter) Regions() []*Region { return p.regions }

// AddRegion attaches a soft-tissue sub-group whose value is this parameter's
// value times multiplier(mass, softness).
func (p *Parameter) AddRegion(name string, multiplier StaticFunc, out *Output) *Region {
	r := &Region{name: name, parent: p, multiplier: multiplier, out: out, factor: 1}
	p.regions = append(p.regions, r)
	return r
}

func (p *Parameter) Region(name string) *Region {
	for _, r := range p.regions {
		if r.name == name {
			return r
		}
	}
	return nil
}

// SetBaseValue recomputes the base from the static curve. Positive
// quickness blends in the Quickness curve and negative quickness the
// Slowness curve, linearly by |quickness|; zero uses neither.
func (p *Parameter) SetBaseValue(mass, softness, quickness float64) {
	base := 0.0
	if p.cfg.Static != nil {
		base = p.cfg.Static(mass, softness)
	}
	switch {
	case quickness > 0 && p.cfg.Quickness != nil:
		base += curve.Lerp(0, p.cfg.Quickness(mass, softness), quickness)
	case quickness < 0 && p.cfg.Slowness != nil:
		base += curve.Lerp(0, p.cfg.Slowness(mass, softness), -quickness)
	}
	p.base = base

	for _, r := range p.regions {
		r.factor = 1
		if r.multiplier != nil {
			r.factor = r.multiplier(mass, softness)
		}
	}
}

// BeginCalibration clears every offset and accepts new ones while the base is
// being recomputed.
func (p *Parameter) BeginCalibration() {
	p.offsets = p.offsets[:0]
	for _, r := range p.regions {
		r.offsets = r.offsets[:0]
	}
	p.state = Calibrating
}

// GoLive moves a calibrating parameter to Live. It reports whether the
// transition happened.
func (p *Parameter) GoLive() bool {
	if p.state != Calibrating {
		return false
	}
	p.state = Live
	return true
}

// Teardown returns the parameter to Uninitialized.
func (p *Parameter) Teardown() {
	p.offsets = nil
	for _, r := range p.regions {
		r.offsets = nil
	}
	p.state = Uninitialized
}

// ApplyOffset sets the contribution owned by id.
func (p *Parameter) ApplyOffset(id string, v float64) error {
	if p.state == Uninitialized {
		return ErrNotInitialized
	}
	p.offsets.apply(id, v)
	return nil
}

// ClearOffset removes the contribution owned by id, if any.
func (p *Parameter) ClearOffset(id string) {
	p.offsets.clear(id)
}

func (p *Parameter) OffsetOf(id string) float64 { return p.offsets.get(id) }
func (p *Parameter) Offset() float64            { return p.offsets.sum() }

// Value is base + offsets, clamped when the config defines a range.
func (p *Parameter) Value() float64 {
	v := p.base + p.offsets.sum()
	if p.cfg.Max > p.cfg.Min {
		v = curve.Clamp(v, p.cfg.Min, p.cfg.Max)
	}
	return v
}

// Push writes the current value to the host output and every region. It
// returns how many host writes happened; nothing is written before
// calibration has started.
func (p *Parameter) Push() (int, error) {
	if p.state == Uninitialized {
		return 0, nil
	}
	n := 0
	var firstErr error
	if ok, err := p.out.Write(p.Value()); err != nil {
		firstErr = err
	} else if ok {
		n++
	}
	for _, r := range p.regions {
		ok, err := r.out.Write(r.Value())
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if ok {
			n++
		}
	}
	return n, firstErr
}

// Region is a soft-tissue sub-group (main, outer, areola, nipple) that
// multiplies its parent's value.
type Region struct {
	name       string
	parent     *Parameter
	multiplier StaticFunc
	out        *Output

	factor  float64
	offsets offsets
}

func (r *Region) Name() string       { return r.name }
func (r *Region) Factor() float64    { return r.factor }
func (r *Region) Output() *Output    { return r.out }
func (r *Region) Parent() *Parameter { return r.parent }

func (r *Region) ApplyOffset(id string, v float64) error {
	if r.parent.state == Uninitialized {
		return ErrNotInitialized
	}
	r.offsets.apply(id, v)
	return nil
}

func (r *Region) ClearOffset(id string)      { r.offsets.clear(id) }
func (r *Region) OffsetOf(id string) float64 { return r.offsets.get(id) }

// Value is the parent's value times the region factor, plus the region's
// own offsets.
func (r *Region) Value() float64 {
	return r.parent.Value()*r.factor + r.offsets.sum()
}
