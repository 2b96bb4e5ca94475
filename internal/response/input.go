// Package response turns orientation into physics offsets and morph values.
// Every handler splits each axis into two exclusive regimes: the active one
// receives an offset and the opposite one is cleared in the same update.
package response

import (
	"github.com/san-kum/bodycal/internal/curve"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/tracker"
)

// Input is everything a handler reads during one tick.
type Input struct {
	// Mass, Softness and Quickness are normalized amounts.
	Mass      float64
	Softness  float64
	Quickness float64

	Orientation tracker.Orientation
	Samples     [2]tracker.Sample

	// NippleErection is in [0, 1].
	NippleErection float64
}

// Rest is the input used while calibrating: upright, no motion.
func Rest(mass, softness, quickness float64) *Input {
	return &Input{Mass: mass, Softness: softness, Quickness: quickness}
}

// Axis is one of the three orthogonal axes a handler measures.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
	Depth
)

var Axes = [3]Axis{Vertical, Horizontal, Depth}

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Depth:
		return "depth"
	default:
		return "vertical"
	}
}

// Regimes returns the direction active for non-negative values and the one
// active for negative values.
func (a Axis) Regimes() (pos, neg param.Direction) {
	switch a {
	case Horizontal:
		return param.Outward, param.Inward
	case Depth:
		return param.Forward, param.Back
	default:
		return param.Up, param.Down
	}
}

// Split picks the active regime for a signed axis value. The effect is the
// magnitude of v.
func (a Axis) Split(v float64) (active, inactive param.Direction, effect float64) {
	pos, neg := a.Regimes()
	if v >= 0 {
		return pos, neg, v
	}
	return neg, pos, -v
}

// Signal produces one signed value per axis for a side, with positive
// values meaning up, outward and forward.
type Signal func(in *Input, side tracker.Side) [3]float64

// GravitySignal reads the chest's orientation: upright pulls the breasts
// down, leaning forward pulls them forward and rolling pulls them toward the
// low side.
func GravitySignal(in *Input, side tracker.Side) [3]float64 {
	o := in.Orientation
	return [3]float64{
		-o.UprightAmount(),
		side.Outward(o.Roll),
		o.LeanAmount(),
	}
}

// Force angles at which the effect saturates.
const (
	MaxVerticalAngle   = 40.0
	MaxHorizontalAngle = 40.0
	MaxDepthOffset     = 0.025
)

// ForceSignal reads the breast's own displacement from its neutral pose.
// Vertical and depth effects fade out as the chest rolls.
func ForceSignal(in *Input, side tracker.Side) [3]float64 {
	s := in.Samples[side]
	roll := curve.RollMultiplier(in.Orientation.Roll)
	return [3]float64{
		curve.Clamp(s.AngleVertical/MaxVerticalAngle, -1, 1) * roll,
		curve.Clamp(side.Outward(s.AngleHorizontal)/MaxHorizontalAngle, -1, 1),
		curve.Clamp(-s.DepthOffset/MaxDepthOffset, -1, 1) * roll,
	}
}

// Multipliers are user sliders, one per direction, in [0, 2].
type Multipliers [6]float64

func DefaultMultipliers() Multipliers {
	return Multipliers{1, 1, 1, 1, 1, 1}
}

func (m *Multipliers) Set(d param.Direction, v float64) {
	m[d] = curve.Clamp(v, 0, 2)
}

func (m Multipliers) Get(d param.Direction) float64 { return m[d] }
