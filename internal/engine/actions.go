package engine

import (
	"fmt"

	"github.com/san-kum/bodycal/internal/calibrate"
	"github.com/san-kum/bodycal/internal/curve"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/response"
)

// Handler multiplier groups, as used in settings keys and SetMultiplier.
const (
	GravityPhysics = "gravityPhysics"
	ForcePhysics   = "forcePhysics"
	GravityMorphs  = "gravityMorphs"
	ForceMorphs    = "forceMorphs"
)

var multiplierGroups = []string{GravityPhysics, ForcePhysics, GravityMorphs, ForceMorphs}

func (e *Engine) request(updateMass bool, reason string) error {
	if e.disabled != nil {
		return ErrDisabled
	}
	return e.orch.Request(calibrate.Request{UpdateMass: updateMass, Reason: reason})
}

// RecalibratePhysics recomputes every parameter and recaptures the neutral
// pose. Mass is re-estimated only with auto-update on.
func (e *Engine) RecalibratePhysics() error {
	return e.request(e.mass.AutoUpdate(), "recalibrate")
}

// CalculateBreastMass re-estimates mass from the mesh. With auto-update
// off the new estimate also replaces the pinned mass.
func (e *Engine) CalculateBreastMass() error {
	if !e.mass.AutoUpdate() {
		e.adoptNew = true
	}
	return e.request(true, "calculate-mass")
}

func (e *Engine) AutoUpdateMassOn() error {
	e.mass.SetAutoUpdate(true)
	return e.request(true, "auto-update-on")
}

// AutoUpdateMassOff pins the current mass; nothing is recalculated.
func (e *Engine) AutoUpdateMassOff() {
	e.mass.SetAutoUpdate(false)
}

// SetMass pins the mass while auto-update is off.
func (e *Engine) SetMass(m float64) error {
	if !e.mass.Pin(m) {
		return fmt.Errorf("engine: mass is auto-updated")
	}
	return e.request(false, "mass")
}

// SetSoftness takes the slider value in [0, 100].
func (e *Engine) SetSoftness(v float64) error {
	e.softness = curve.Clamp(v, 0, 100)
	return e.request(false, "softness")
}

// SetQuickness takes the slider value in [-100, 100].
func (e *Engine) SetQuickness(v float64) error {
	e.quickness = curve.Clamp(v, -100, 100)
	return e.request(false, "quickness")
}

// SetNippleErection takes effect on the next tick.
func (e *Engine) SetNippleErection(v float64) {
	e.nippleErection = curve.Clamp01(v)
}

func (e *Engine) Softness() float64       { return e.softness }
func (e *Engine) Quickness() float64      { return e.quickness }
func (e *Engine) NippleErection() float64 { return e.nippleErection }

func (e *Engine) multipliers(group string) (*response.Multipliers, error) {
	if !e.initialized {
		return nil, fmt.Errorf("engine: not initialized")
	}
	switch group {
	case GravityPhysics:
		return &e.gravityPhysics.Multipliers, nil
	case ForcePhysics:
		return &e.forcePhysics.Multipliers, nil
	case GravityMorphs:
		return &e.gravityMorphs.Multipliers, nil
	case ForceMorphs:
		return &e.forceMorphs.Multipliers, nil
	}
	return nil, fmt.Errorf("%w: multiplier group %q", ErrUnknownSetting, group)
}

// SetMultiplier changes one directional slider. It takes effect on the next
// tick without recalibrating.
func (e *Engine) SetMultiplier(group string, d param.Direction, v float64) error {
	m, err := e.multipliers(group)
	if err != nil {
		return err
	}
	m.Set(d, v)
	return nil
}

func (e *Engine) Multiplier(group string, d param.Direction) (float64, error) {
	m, err := e.multipliers(group)
	if err != nil {
		return 0, err
	}
	return m.Get(d), nil
}
