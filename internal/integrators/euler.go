package integrators

import "github.com/san-kum/bodycal/internal/sim"

// Euler is first order; use it only to compare against RK4.
type Euler struct {
	dyn sim.Dynamics
	dx  sim.State
}

func NewEuler(dyn sim.Dynamics) *Euler {
	return &Euler{dyn: dyn, dx: make(sim.State, dyn.Dim())}
}

func (e *Euler) Step(x sim.State, t, dt float64) {
	e.dyn.Derivative(e.dx, x, t)
	x.AddScaled(e.dx, dt)
}
