package tuning

import (
	"math"

	"github.com/san-kum/bodycal/internal/curve"
	"github.com/san-kum/bodycal/internal/param"
)

// Main physics names, matching the host's pectoral joint and rigid body.
const (
	Mass                   = "mass"
	CenterOfGravityPercent = "centerOfGravityPercent"
	Spring                 = "spring"
	Damper                 = "damper"
	PositionSpringZ        = "positionSpringZ"
	PositionDamperZ        = "positionDamperZ"
	TargetRotationX        = "targetRotationX"
	TargetRotationY        = "targetRotationY"
)

// massKnee shapes most mass-dependent values: flat for small breasts, steep
// through the middle, flat again near the top.
func massKnee(mass float64) float64 {
	return curve.InverseSmoothStep(mass, 1, 0.42, 0.45)
}

func MainPhysics() []*Definition {
	return []*Definition{
		{
			Config: param.Config{
				Name:   Mass,
				Static: func(mass, softness float64) float64 { return math.Max(0.1, 2*mass) },
				Min:    0.1,
				Max:    2.0,
			},
			Output: true,
		},
		{
			Config: param.Config{
				Name: CenterOfGravityPercent,
				Static: func(mass, softness float64) float64 {
					return 0.36 + 0.38*massKnee(mass) + 0.06*softness
				},
				Min: 0,
				Max: 1,
			},
			Output: true,
			Gravity: &Directional{Effects: map[param.Direction]EffectFunc{
				param.Forward: func(e, m, s float64) float64 { return 0.12 * e * (0.5 + 0.5*m) },
				param.Back:    func(e, m, s float64) float64 { return -0.08 * e * (0.5 + 0.5*m) },
			}},
		},
		{
			Config: param.Config{
				Name: Spring,
				Static: func(mass, softness float64) float64 {
					firm := curve.Exponential1(1-softness, 3, 1.2, 62, 24)
					return firm * (1 + 0.35*massKnee(mass))
				},
				Quickness: func(mass, softness float64) float64 { return 18 + 22*(1-softness) },
				Slowness:  func(mass, softness float64) float64 { return -(10 + 8*mass) },
				Min:       10,
				Max:       200,
			},
			Output: true,
			Gravity: &Directional{Effects: map[param.Direction]EffectFunc{
				param.Down: func(e, m, s float64) float64 { return 6 * e * m },
				param.Up:   func(e, m, s float64) float64 { return 10 * e * m },
			}},
			Force: &Directional{Effects: map[param.Direction]EffectFunc{
				param.Forward: func(e, m, s float64) float64 { return -8 * e * s },
				param.Up:      func(e, m, s float64) float64 { return -5 * e * s },
			}},
		},
		{
			Config: param.Config{
				Name: Damper,
				Static: func(mass, softness float64) float64 {
					return 0.4 + curve.Exponential2(1-softness, 2.5, 1, 0.9) + 0.25*mass
				},
				Quickness: func(mass, softness float64) float64 { return -0.35 * (0.4 + 0.6*softness) },
				Slowness:  func(mass, softness float64) float64 { return 0.6 + 0.4*mass },
				Min:       0.05,
				Max:       5,
			},
			Output: true,
			Force: &Directional{Effects: map[param.Direction]EffectFunc{
				param.Back: func(e, m, s float64) float64 { return 0.3 * e },
			}},
		},
		{
			Config: param.Config{
				Name: PositionSpringZ,
				Static: func(mass, softness float64) float64 {
					f := 1 - softness
					return 250 + 550*f*f
				},
				Quickness: func(mass, softness float64) float64 { return 120 },
				Slowness:  func(mass, softness float64) float64 { return -90 },
				Min:       50,
				Max:       1000,
			},
			Output: true,
			Gravity: &Directional{Effects: map[param.Direction]EffectFunc{
				param.Forward: func(e, m, s float64) float64 { return -140 * e * (0.4 + 0.6*s) },
				param.Back:    func(e, m, s float64) float64 { return 90 * e },
			}},
		},
		{
			Config: param.Config{
				Name: PositionDamperZ,
				Static: func(mass, softness float64) float64 {
					return 5 + 25*curve.DeemphasizeMiddle(1-softness) + 6*mass
				},
				Min: 0,
				Max: 60,
			},
			Output: true,
		},
		{
			Config: param.Config{
				Name: TargetRotationX,
				Min:  -25,
				Max:  25,
			},
			Output: true,
			Gravity: &Directional{Effects: map[param.Direction]EffectFunc{
				param.Down: func(e, m, s float64) float64 { return -(4 + 10*massKnee(m)) * e * (0.6 + 0.4*s) },
				param.Up:   func(e, m, s float64) float64 { return (6 + 8*massKnee(m)) * e * (0.6 + 0.4*s) },
			}},
			Force: &Directional{Effects: map[param.Direction]EffectFunc{
				param.Up:   func(e, m, s float64) float64 { return 5 * e * s },
				param.Down: func(e, m, s float64) float64 { return -5 * e * s },
			}},
		},
		{
			Config: param.Config{
				Name: TargetRotationY,
				Min:  -25,
				Max:  25,
			},
			Output: true,
			Gravity: &Directional{
				Mirror: true,
				Effects: map[param.Direction]EffectFunc{
					param.Outward: func(e, m, s float64) float64 { return (6 + 9*m) * e },
					param.Inward:  func(e, m, s float64) float64 { return -(4 + 6*m) * e },
				},
			},
			Force: &Directional{
				Mirror: true,
				Effects: map[param.Direction]EffectFunc{
					param.Outward: func(e, m, s float64) float64 { return 3 * e * s },
					param.Inward:  func(e, m, s float64) float64 { return -3 * e * s },
				},
			},
		},
	}
}
