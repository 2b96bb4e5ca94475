// Package metrics summarizes an engine run from its per-tick snapshots.
package metrics

import (
	"sort"

	"github.com/san-kum/bodycal/internal/engine"
)

type Metric interface {
	Name() string
	Observe(s engine.Snapshot)
	Value() float64
	Reset()
}

// Set is an engine observer that feeds every metric it holds.
type Set []Metric

// Default returns the metrics recorded for every CLI run.
func Default() Set {
	return Set{
		NewWrites(),
		NewWriteRate(),
		NewCalibrationTime(),
		NewCalibrations(),
		NewViolations(),
		NewDeflection(),
	}
}

func (s Set) OnTick(snap engine.Snapshot) {
	for _, m := range s {
		m.Observe(snap)
	}
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, m := range s {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}
