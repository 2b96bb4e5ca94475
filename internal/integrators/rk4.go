package integrators

import (
	"fmt"

	"github.com/san-kum/bodycal/internal/sim"
)

// RK4 is the classic fourth-order Runge-Kutta step, bound to one rig. The
// stage buffers are sized once from the dynamics and the state is updated in
// place, so stepping allocates nothing.
type RK4 struct {
	dyn sim.Dynamics
	k   [4]sim.State
	mid sim.State
}

func NewRK4(dyn sim.Dynamics) *RK4 {
	n := dyn.Dim()
	r := &RK4{dyn: dyn, mid: make(sim.State, n)}
	for i := range r.k {
		r.k[i] = make(sim.State, n)
	}
	return r
}

func (r *RK4) Step(x sim.State, t, dt float64) {
	half := dt / 2
	r.dyn.Derivative(r.k[0], x, t)
	r.stage(x, r.k[0], half)
	r.dyn.Derivative(r.k[1], r.mid, t+half)
	r.stage(x, r.k[1], half)
	r.dyn.Derivative(r.k[2], r.mid, t+half)
	r.stage(x, r.k[2], dt)
	r.dyn.Derivative(r.k[3], r.mid, t+dt)

	dt6 := dt / 6
	for i := range x {
		x[i] += dt6 * (r.k[0][i] + 2*r.k[1][i] + 2*r.k[2][i] + r.k[3][i])
	}
}

// stage fills mid with x + h*k.
func (r *RK4) stage(x, k sim.State, h float64) {
	for i := range x {
		r.mid[i] = x[i] + h*k[i]
	}
}

// New returns a stepper by name, bound to dyn.
func New(name string, dyn sim.Dynamics) (sim.Stepper, error) {
	switch name {
	case "", "rk4":
		return NewRK4(dyn), nil
	case "euler":
		return NewEuler(dyn), nil
	}
	return nil, fmt.Errorf("unknown integrator %q", name)
}
