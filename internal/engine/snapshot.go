package engine

import (
	"github.com/san-kum/bodycal/internal/calibrate"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/response"
	"github.com/san-kum/bodycal/internal/tracker"
)

// Snapshot is the engine's state after one fixed tick.
type Snapshot struct {
	Time        float64
	Tick        int
	State       calibrate.State
	Live        bool
	Mass        float64
	RealMass    float64
	Softness    float64
	Quickness   float64
	Orientation tracker.Orientation
	Samples     [2]tracker.Sample
	// Writes is the number of host writes during the tick.
	Writes int
	// Violations counts parameters holding offsets for both ends of an axis.
	Violations int
}

// Observer receives a snapshot after every fixed tick.
type Observer interface {
	OnTick(s Snapshot)
}

type ObserverFunc func(s Snapshot)

func (f ObserverFunc) OnTick(s Snapshot) { f(s) }

func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Time:        e.time,
		Tick:        e.tick,
		State:       e.orch.State(),
		Live:        e.live,
		Mass:        e.mass.Mass(),
		RealMass:    e.mass.RealMass(),
		Softness:    e.softness,
		Quickness:   e.quickness,
		Orientation: e.input.Orientation,
		Samples:     e.input.Samples,
		Writes:      e.writes,
		Violations:  e.ExclusivityViolations(),
	}
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	s := e.Snapshot()
	for _, o := range e.observers {
		o.OnTick(s)
	}
}

// ExclusivityViolations counts, over every parameter and source, axes whose
// two directional offsets are both non-zero. It is always zero unless a
// handler is broken.
func (e *Engine) ExclusivityViolations() int {
	n := 0
	for _, side := range tracker.Sides {
		for _, en := range e.entries[side] {
			for _, src := range []param.Source{param.SourceGravity, param.SourceForce} {
				for _, axis := range response.Axes {
					pos, neg := axis.Regimes()
					if en.Param.OffsetOf(param.Contributor(src, pos)) != 0 &&
						en.Param.OffsetOf(param.Contributor(src, neg)) != 0 {
						n++
					}
				}
			}
		}
	}
	return n
}

// Value returns a parameter's current value, or false if it does not exist.
func (e *Engine) Value(name string, side tracker.Side) (float64, bool) {
	p := e.Parameter(name, side)
	if p == nil {
		return 0, false
	}
	return p.Value(), true
}
