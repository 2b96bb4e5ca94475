// Package calibrate sequences a physics refresh: wait for the scene lock,
// push a baseline, settle mass in zero gravity, then capture the neutral
// pose. The sequence is an explicit state machine advanced by Step once per
// fixed tick; nothing here blocks.
package calibrate

import (
	"fmt"
	"log/slog"
)

// Subject is what the orchestrator calibrates.
type Subject interface {
	// BeginRefresh freezes animation, zeroes the orientation samples,
	// recomputes amounts (and mass, if asked) and pushes a rest baseline.
	BeginRefresh(updateMass bool) error
	SetGravity(on bool)
	// RefreshMass is one settle pass: re-estimate mass if asked and push
	// main physics.
	RefreshMass(updateMass bool) error
	// Correct counters the overshoot of re-enabled gravity for one tick.
	Correct()
	// Settled reports whether every tracker has stopped moving.
	Settled() bool
	// CaptureNeutral calibrates every tracker at the current pose.
	CaptureNeutral()
	// FinishRefresh restores animation and goes live. err is the failure
	// that ended the sequence early, or nil.
	FinishRefresh(err error)
}

// Lock is the scene-wide calibration lock.
type Lock interface {
	HeldByOthers() (bool, error)
	Acquire()
	Release()
}

// Timings are in seconds of simulated time.
type Timings struct {
	LockPoll          float64
	ZeroGravitySettle float64
	MassPasses        int
	MassPassInterval  float64
	NeutralTimeout    float64
}

func DefaultTimings() Timings {
	return Timings{
		LockPoll:          0.1,
		ZeroGravitySettle: 0.3,
		MassPasses:        5,
		MassPassInterval:  0.1,
		NeutralTimeout:    2.0,
	}
}

// Request asks for a calibration.
type Request struct {
	UpdateMass bool
	Reason     string
}

// Report summarizes one finished calibration.
type Report struct {
	Request  Request
	Duration float64
	LockWait float64
	TimedOut bool
	Err      error
}

const timeSlack = 1e-9

type Orchestrator struct {
	subject Subject
	lock    Lock
	timings Timings
	logger  *slog.Logger

	state   State
	active  Request
	pending *Request

	timer    float64
	elapsed  float64
	lockWait float64
	polled   bool
	passes   int
	timedOut bool
	locked   bool

	last   *Report
	runs   int
	OnDone func(Report)
}

func New(subject Subject, lock Lock, timings Timings, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if timings.MassPasses < 1 {
		timings.MassPasses = 1
	}
	return &Orchestrator{subject: subject, lock: lock, timings: timings, logger: logger}
}

func (o *Orchestrator) State() State     { return o.state }
func (o *Orchestrator) Busy() bool       { return o.state != Idle }
func (o *Orchestrator) Pending() bool    { return o.pending != nil }
func (o *Orchestrator) Runs() int        { return o.runs }
func (o *Orchestrator) Timings() Timings { return o.timings }

// Last returns the report of the most recent calibration.
func (o *Orchestrator) Last() (Report, bool) {
	if o.last == nil {
		return Report{}, false
	}
	return *o.last, true
}

// Request queues a calibration. At most one request waits behind the one in
// flight; a further request is merged into it and ErrCalibrationInProgress
// is returned.
func (o *Orchestrator) Request(r Request) error {
	if o.pending != nil {
		o.pending.UpdateMass = o.pending.UpdateMass || r.UpdateMass
		o.logger.Debug("calibration request coalesced", "reason", r.Reason)
		return ErrCalibrationInProgress
	}
	o.pending = &r
	o.logger.Debug("calibration requested", "reason", r.Reason, "update_mass", r.UpdateMass)
	return nil
}

// Step advances the sequence by dt seconds. A panic in a subject or lock
// call ends the calibration as failed and releases the lock.
func (o *Orchestrator) Step(dt float64) {
	defer o.recoverPhase()

	if o.state != Idle {
		o.elapsed += dt
	}

	switch o.state {
	case Idle:
		if o.pending == nil {
			return
		}
		o.active = *o.pending
		o.pending = nil
		o.elapsed, o.lockWait, o.timer = 0, 0, 0
		o.polled, o.timedOut, o.passes = false, false, 0
		o.state = Waiting
		o.waitForLock(0)

	case Waiting:
		o.waitForLock(dt)

	case PreRefreshStarted:
		if err := o.subject.BeginRefresh(o.active.UpdateMass); err != nil {
			o.fail(err)
			return
		}
		o.state = PreRefreshOk

	case PreRefreshOk:
		o.subject.SetGravity(false)
		o.timer = 0
		o.passes = 0
		o.state = MassRefreshStarted

	case MassRefreshStarted:
		o.timer += dt
		wait := o.timings.MassPassInterval
		if o.passes == 0 {
			wait = o.timings.ZeroGravitySettle
		}
		if o.timer+timeSlack < wait {
			return
		}
		o.timer = 0
		if err := o.subject.RefreshMass(o.active.UpdateMass); err != nil {
			o.fail(err)
			return
		}
		o.passes++
		if o.passes >= o.timings.MassPasses {
			o.state = MassRefreshOk
		}

	case MassRefreshOk:
		o.subject.SetGravity(true)
		o.subject.Correct()
		o.timer = 0
		o.state = NeutralPoseStarted

	case NeutralPoseStarted:
		o.timer += dt
		if !o.subject.Settled() {
			if o.timer+timeSlack < o.timings.NeutralTimeout {
				return
			}
			o.timedOut = true
			o.logger.Warn("neutral pose did not settle, calibrating anyway", "timeout", o.timings.NeutralTimeout)
		}
		o.subject.CaptureNeutral()
		o.state = NeutralPoseOk

	case NeutralPoseOk:
		o.subject.FinishRefresh(nil)
		o.release()
		o.state = Done

	case Done:
		o.finish(nil)
	}
}

func (o *Orchestrator) waitForLock(dt float64) {
	o.timer += dt
	o.lockWait += dt
	if o.polled && o.timer+timeSlack < o.timings.LockPoll {
		return
	}
	o.polled = true
	o.timer = 0

	held, err := o.lock.HeldByOthers()
	if err != nil {
		o.logger.Warn("calibration lock lookup failed, proceeding", "error", err)
	}
	if held {
		return
	}
	o.lock.Acquire()
	o.locked = true
	o.state = PreRefreshStarted
}

func (o *Orchestrator) release() {
	if o.locked {
		o.lock.Release()
		o.locked = false
	}
}

func (o *Orchestrator) fail(err error) {
	perr := &PhaseError{State: o.state, Wrapped: err}
	o.logger.Error("calibration failed", "state", o.state, "error", err)
	o.release()
	if o.state >= PreRefreshStarted {
		o.restore(perr)
	}
	o.finish(perr)
}

// restore re-enables gravity and hands the failure to the subject. A panic
// here is logged and the sequence still ends.
func (o *Orchestrator) restore(err error) {
	defer func() {
		if p := recover(); p != nil {
			o.logger.Error("calibration restore panicked", "panic", p)
		}
	}()
	o.subject.SetGravity(true)
	o.subject.FinishRefresh(err)
}

func (o *Orchestrator) recoverPhase() {
	p := recover()
	if p == nil {
		return
	}
	if o.state == Idle {
		// raised by OnDone after the sequence ended
		o.release()
		o.logger.Error("calibration callback panicked", "panic", p)
		return
	}
	o.fail(fmt.Errorf("%w: %v", errPanicked, p))
}

func (o *Orchestrator) finish(err error) {
	r := Report{
		Request:  o.active,
		Duration: o.elapsed,
		LockWait: o.lockWait,
		TimedOut: o.timedOut,
		Err:      err,
	}
	o.last = &r
	o.runs++
	o.state = Idle
	if err == nil {
		o.logger.Info("calibration done", "reason", o.active.Reason, "duration", o.elapsed, "lock_wait", o.lockWait, "timed_out", o.timedOut)
	}
	if o.OnDone != nil {
		o.OnDone(r)
	}
}

// Abort ends any calibration in flight and drops the pending request. The
// lock is always released.
func (o *Orchestrator) Abort() {
	o.pending = nil
	if o.state == Idle {
		return
	}
	if o.state >= PreRefreshStarted && o.state < Done {
		o.subject.SetGravity(true)
		o.subject.FinishRefresh(errAborted)
	}
	o.release()
	o.state = Idle
}
