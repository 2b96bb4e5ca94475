package engine

import (
	"github.com/san-kum/bodycal/internal/curve"
	"github.com/san-kum/bodycal/internal/response"
	"github.com/san-kum/bodycal/internal/tracker"
)

// FixedUpdate is the host's physics-step callback and the engine's only
// driver: the calibration sequence waits in simulated time, so it advances
// here too. Within one call the orchestrator steps first, then the trackers
// are sampled, then every handler runs, then values are pushed in one batch.
func (e *Engine) FixedUpdate(dt float64) error {
	if e.disabled != nil {
		return ErrDisabled
	}
	if !e.initialized {
		if err := e.Init(); err != nil {
			return err
		}
	}

	e.time += dt
	e.tick++
	e.writes = 0

	e.orch.Step(dt)
	if e.live {
		e.sample()
		e.runner.Run(&e.input)
		e.push()
		if e.monitor.due(dt) {
			e.checkDrift()
		}
	}

	e.notify()
	return nil
}

func (e *Engine) sample() {
	e.input.Orientation = tracker.ChestOrientation(e.chest.Frame())
	for _, side := range tracker.Sides {
		s, err := e.trackers[side].Update()
		if err != nil {
			s = tracker.Sample{}
		}
		e.input.Samples[side] = s
	}
	e.fillAmounts(&e.input)
}

func (e *Engine) fillAmounts(in *response.Input) {
	in.Mass = e.mass.Amount()
	in.Softness = curve.SoftnessAmount(e.softness)
	in.Quickness = curve.QuicknessAmount(e.quickness)
	in.NippleErection = e.nippleErection
}

func (e *Engine) restInput() *response.Input {
	in := &response.Input{}
	e.fillAmounts(in)
	return in
}

func (e *Engine) setBaseValues() {
	e.params.SetBaseValues(
		e.mass.Amount(),
		curve.SoftnessAmount(e.softness),
		curve.QuicknessAmount(e.quickness),
	)
}

func (e *Engine) push() {
	n, errs := e.params.Push()
	for name, err := range errs {
		e.logger.Warn("parameter push failed", "parameter", name, "error", err)
	}
	m, herrs := e.runner.Push()
	for _, err := range herrs {
		e.logger.Warn("morph push failed", "error", err)
	}
	e.writes += n + m
	e.totalWrites += n + m
}
