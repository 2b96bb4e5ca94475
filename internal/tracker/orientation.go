package tracker

import (
	"math"

	"github.com/san-kum/bodycal/internal/curve"
	"github.com/san-kum/bodycal/internal/geom"
)

// WorldUp is the direction opposite to gravity.
var WorldUp = geom.Vec3{0, 1, 0}

// Orientation is the chest's attitude relative to gravity.
type Orientation struct {
	// Pitch in degrees: 0 upright, +90 leaning forward (face down),
	// -90 leaning back (face up), ±180 upside down.
	Pitch float64
	// Roll in [-1, 1]: +1 lying on the right side, -1 on the left side.
	Roll float64
}

// ChestOrientation measures a chest frame against WorldUp.
func ChestOrientation(chest geom.Frame) Orientation {
	pitch := math.Atan2(-chest.Forward.Dot(WorldUp), chest.Up.Dot(WorldUp)) * 180 / math.Pi
	roll := math.Asin(curve.Clamp(-chest.Right.Dot(WorldUp), -1, 1)) / (math.Pi / 2)
	return Orientation{Pitch: pitch, Roll: roll}
}

// UprightAmount is 1 when upright, 0 lying down and negative upside down,
// faded by roll.
func (o Orientation) UprightAmount() float64 {
	return math.Cos(o.Pitch*math.Pi/180) * curve.RollMultiplier(o.Roll)
}

// LeanAmount is positive leaning forward and negative leaning back, faded by
// roll.
func (o Orientation) LeanAmount() float64 {
	return math.Sin(o.Pitch*math.Pi/180) * curve.RollMultiplier(o.Roll)
}
