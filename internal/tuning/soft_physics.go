package tuning

import (
	"math"

	"github.com/san-kum/bodycal/internal/curve"
	"github.com/san-kum/bodycal/internal/param"
)

// Soft-tissue names. These only reach the host through their regions.
const (
	SoftSpring         = "softVerticesCombinedSpring"
	SoftDamper         = "softVerticesCombinedDamper"
	SoftMass           = "softVerticesMass"
	SoftBackForce      = "softVerticesBackForce"
	SoftColliderRadius = "softVerticesColliderRadius"
	SoftDistanceLimit  = "softVerticesDistanceLimit"
)

func constant(v float64) param.StaticFunc {
	return func(mass, softness float64) float64 { return v }
}

func SoftPhysics() []*Definition {
	return []*Definition{
		{
			Config: param.Config{
				Name: SoftSpring,
				Static: func(mass, softness float64) float64 {
					f := 1 - softness
					return 120 + 380*math.Pow(f, 1.5) + 60*massKnee(mass)
				},
				Quickness: func(mass, softness float64) float64 { return 80 * (1 - 0.5*softness) },
				Slowness:  func(mass, softness float64) float64 { return -40 },
				Min:       20,
				Max:       800,
			},
			Regions: []RegionDef{
				{RegionMain, constant(1)},
				{RegionOuter, func(m, s float64) float64 { return 0.82 + 0.1*s }},
				{RegionAreola, func(m, s float64) float64 { return 1.4 - 0.3*s }},
				{RegionNipple, func(m, s float64) float64 { return 2.2 - 0.4*s }},
			},
			Force: &Directional{Effects: map[param.Direction]EffectFunc{
				param.Forward: func(e, m, s float64) float64 { return -45 * e * s },
				param.Back:    func(e, m, s float64) float64 { return 30 * e },
			}},
		},
		{
			Config: param.Config{
				Name: SoftDamper,
				Static: func(mass, softness float64) float64 {
					return 0.6 + 1.2*curve.SmoothStep(1-softness) + 0.2*mass
				},
				Quickness: func(mass, softness float64) float64 { return -0.3 },
				Slowness:  func(mass, softness float64) float64 { return 0.5 },
				Min:       0,
				Max:       5,
			},
			Regions: []RegionDef{
				{RegionMain, constant(1)},
				{RegionOuter, constant(1)},
				{RegionAreola, constant(1.2)},
				{RegionNipple, constant(1.5)},
			},
		},
		{
			Config: param.Config{
				Name:   SoftMass,
				Static: func(mass, softness float64) float64 { return 0.05 + 0.1*mass },
				Min:    0.01,
				Max:    1,
			},
			Regions: []RegionDef{
				{RegionMain, constant(1)},
				{RegionOuter, constant(0.9)},
				{RegionAreola, constant(0.6)},
				{RegionNipple, constant(0.4)},
			},
		},
		{
			Config: param.Config{
				Name: SoftBackForce,
				Static: func(mass, softness float64) float64 {
					return (8 + 30*(1-softness)) * (0.7 + 0.6*mass)
				},
				Min: 0,
				Max: 80,
			},
			Regions: []RegionDef{
				{RegionMain, constant(1)},
				{RegionOuter, constant(0.75)},
				{RegionAreola, constant(0.5)},
				{RegionNipple, constant(0.5)},
			},
			Gravity: &Directional{Effects: map[param.Direction]EffectFunc{
				param.Forward: func(e, m, s float64) float64 { return -10 * e * s },
			}},
			Force: &Directional{Effects: map[param.Direction]EffectFunc{
				param.Forward: func(e, m, s float64) float64 { return 6 * e },
			}},
		},
		{
			Config: param.Config{
				Name:   SoftColliderRadius,
				Static: func(mass, softness float64) float64 { return 0.022 + 0.012*massKnee(mass) },
				Min:    0.005,
				Max:    0.06,
			},
			Regions: []RegionDef{
				{RegionMain, constant(1)},
				{RegionOuter, constant(0.85)},
				{RegionAreola, constant(0.6)},
				{RegionNipple, constant(0.4)},
			},
		},
		{
			Config: param.Config{
				Name: SoftDistanceLimit,
				Static: func(mass, softness float64) float64 {
					return 0.02 + 0.04*mass + 0.02*softness
				},
				Min: 0,
				Max: 0.1,
			},
			Regions: []RegionDef{
				{RegionMain, constant(1)},
				{RegionOuter, constant(1.1)},
				{RegionAreola, constant(0.8)},
				{RegionNipple, constant(0.6)},
			},
			Gravity: &Directional{Effects: map[param.Direction]EffectFunc{
				param.Down: func(e, m, s float64) float64 { return 0.01 * e * m },
			}},
		},
	}
}
