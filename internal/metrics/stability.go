package metrics

import (
	"math"

	"github.com/san-kum/bodycal/internal/engine"
	"github.com/san-kum/bodycal/internal/tracker"
)

// Violations is the fraction of observed ticks on which some parameter
// held offsets for both ends of one axis. A healthy run reports 0.
type Violations struct {
	violations int
	samples    int
}

func NewViolations() *Violations { return &Violations{} }

func (v *Violations) Name() string { return "exclusivity_violations" }

func (v *Violations) Observe(s engine.Snapshot) {
	v.samples++
	if s.Violations > 0 {
		v.violations++
	}
}

func (v *Violations) Value() float64 {
	if v.samples == 0 {
		return 0
	}
	return float64(v.violations) / float64(v.samples)
}

func (v *Violations) Reset() {
	v.violations = 0
	v.samples = 0
}

// Deflection is the largest vertical angle, in degrees, either side moved
// away from its neutral pose.
type Deflection struct {
	max float64
}

func NewDeflection() *Deflection { return &Deflection{} }

func (d *Deflection) Name() string { return "max_deflection_deg" }

func (d *Deflection) Observe(s engine.Snapshot) {
	for _, side := range tracker.Sides {
		d.max = math.Max(d.max, math.Abs(s.Samples[side].AngleVertical))
	}
}

func (d *Deflection) Value() float64 { return d.max }

func (d *Deflection) Reset() { d.max = 0 }
