// Package mass turns the two-sided volume estimate into the normalized mass
// amount that drives nearly every other curve.
package mass

import (
	"math"

	"github.com/san-kum/bodycal/internal/curve"
)

const (
	DefaultMin         = 0.1
	DefaultMax         = 2.0
	DefaultCoefficient = 0.78
	DefaultExponent    = 1.5
)

// Curve holds the power-law fit from cm³ to mass.
type Curve struct {
	Min         float64
	Max         float64
	Coefficient float64
	Exponent    float64
}

func DefaultCurve() Curve {
	return Curve{
		Min:         DefaultMin,
		Max:         DefaultMax,
		Coefficient: DefaultCoefficient,
		Exponent:    DefaultExponent,
	}
}

// EstimateMass averages both volumes and applies
// clamp(pow(coefficient*avg/1000, exponent), min, max).
// Negative or NaN volumes clamp to Min, +Inf clamps to Max.
func (c Curve) EstimateMass(leftVolume, rightVolume float64) float64 {
	avg := (leftVolume + rightVolume) / 2
	if math.IsNaN(avg) || avg <= 0 {
		return c.Min
	}
	m := math.Pow(c.Coefficient*avg/1000, c.Exponent)
	return curve.Clamp(m, c.Min, c.Max)
}

// Amount normalizes a mass value against Max.
func (c Curve) Amount(m float64) float64 {
	return curve.InverseLerp(0, c.Max, m)
}

// Estimator tracks the volume-derived mass and the effective mass that the
// rest of the system reads. With auto-update on they are equal; with it off
// the effective mass stays pinned until the user changes it.
type Estimator struct {
	curve      Curve
	autoUpdate bool
	real       float64
	effective  float64
	estimated  bool
}

func NewEstimator(c Curve) *Estimator {
	return &Estimator{
		curve:      c,
		autoUpdate: true,
		real:       c.Min,
		effective:  c.Min,
	}
}

func (e *Estimator) Curve() Curve { return e.curve }

// Update re-estimates the real mass from fresh volumes and returns it.
func (e *Estimator) Update(leftVolume, rightVolume float64) float64 {
	e.real = e.curve.EstimateMass(leftVolume, rightVolume)
	e.estimated = true
	if e.autoUpdate {
		e.effective = e.real
	}
	return e.real
}

func (e *Estimator) AutoUpdate() bool { return e.autoUpdate }

// SetAutoUpdate re-links the effective mass to the real mass when enabled.
func (e *Estimator) SetAutoUpdate(on bool) {
	e.autoUpdate = on
	if on {
		e.effective = e.real
	}
}

// Pin sets the effective mass directly. It has no effect while auto-update
// is on. Returns whether the value was applied.
func (e *Estimator) Pin(m float64) bool {
	if e.autoUpdate {
		return false
	}
	e.effective = curve.Clamp(m, e.curve.Min, e.curve.Max)
	return true
}

func (e *Estimator) Estimated() bool    { return e.estimated }
func (e *Estimator) RealMass() float64   { return e.real }
func (e *Estimator) Mass() float64       { return e.effective }
func (e *Estimator) RealAmount() float64 { return e.curve.Amount(e.real) }
func (e *Estimator) Amount() float64     { return e.curve.Amount(e.effective) }
