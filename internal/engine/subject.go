package engine

import (
	"fmt"

	"github.com/san-kum/bodycal/internal/geom"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/tracker"
)

// subject is the engine as seen by the calibration orchestrator.
type subject Engine

func (s *subject) BeginRefresh(updateMass bool) error {
	e := (*Engine)(s)
	e.frozenBefore = e.host.AnimationFrozen()
	e.host.SetAnimationFrozen(true)
	e.live = false
	e.monitor.pause()

	for _, t := range e.trackers {
		t.Reset()
	}
	e.input.Samples = [2]tracker.Sample{}
	e.input.Orientation = tracker.Orientation{}

	if updateMass {
		if err := e.estimateMass(); err != nil {
			return err
		}
	}

	e.params.BeginCalibration()
	e.setBaseValues()
	e.runner.Reset()
	e.runner.Run(e.restInput())
	e.push()
	return nil
}

func (s *subject) SetGravity(on bool) {
	for _, b := range s.pectorals {
		b.SetGravityEnabled(on)
	}
}

func (s *subject) RefreshMass(updateMass bool) error {
	e := (*Engine)(s)
	if updateMass {
		if err := e.estimateMass(); err != nil {
			return err
		}
	}
	e.setBaseValues()
	e.push()
	return nil
}

func (s *subject) Correct() {
	f := tracker.WorldUp.Mul(s.cfg.Calibration.CorrectionForce * s.mass.Mass())
	for _, b := range s.pectorals {
		b.AddForce(f)
	}
}

func (s *subject) Settled() bool {
	settled := true
	for _, t := range s.trackers {
		// every tracker must record its pose on every call
		if !t.CalibrationSettled() {
			settled = false
		}
	}
	return settled
}

func (s *subject) CaptureNeutral() {
	for _, t := range s.trackers {
		t.Calibrate()
	}
}

func (s *subject) FinishRefresh(err error) {
	e := (*Engine)(s)
	e.host.SetAnimationFrozen(e.frozenBefore)
	e.monitor.resume(e.host.AtomScale())
	if err != nil && !e.neutralCaptured() {
		// no neutral pose yet, so there is nothing to measure against
		e.live = false
		e.logger.Warn("first refresh failed, staying idle", "error", err)
		return
	}
	e.params.GoLive()
	e.live = len(e.params) > 0 && e.params[0].State() == param.Live
	if err != nil {
		e.logger.Warn("refresh ended early, keeping previous values", "error", err, "live", e.live)
	}
}

// neutralCaptured reports whether every tracker has a neutral pose.
func (e *Engine) neutralCaptured() bool {
	for _, t := range e.trackers {
		if !t.Calibrated() {
			return false
		}
	}
	return true
}

// volumes estimates both sides' volumes in the chest frame.
func (e *Engine) volumes() ([2]float64, error) {
	var vols [2]float64
	chest := e.chest.Frame()
	scale := e.host.AtomScale()
	for _, side := range tracker.Sides {
		pts, err := e.host.ReadVertexPositions(e.vertices[side])
		if err != nil {
			return vols, fmt.Errorf("read %s vertices: %w", side, err)
		}
		v, err := geom.EstimateVolume(chest, pts, scale)
		if err != nil {
			return vols, fmt.Errorf("%s volume: %w", side, err)
		}
		vols[side] = v
	}
	return vols, nil
}

func (e *Engine) estimateMass() error {
	vols, err := e.volumes()
	if err != nil {
		return err
	}
	e.mass.Update(vols[tracker.Left], vols[tracker.Right])
	if e.adoptNew {
		e.mass.Pin(e.mass.RealMass())
		e.adoptNew = false
	}
	e.monitor.rebase(vols)
	return nil
}
