// Package sim holds the state-vector primitives shared by the integrators
// and the simulated host's body dynamics.
package sim

import "math"

// State is a flat vector of positions and velocities. Its length is fixed
// for the lifetime of a rig.
type State []float64

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// AddScaled sets s to s + k*d.
func (s State) AddScaled(d State, k float64) {
	for i := range s {
		s[i] += k * d[i]
	}
}

// Dynamics writes dx/dt at state x and time t into dx. Both have length
// Dim.
type Dynamics interface {
	Dim() int
	Derivative(dx, x State, t float64)
}

// Stepper advances a state in place by one step of its bound dynamics.
type Stepper interface {
	Step(x State, t, dt float64)
}
