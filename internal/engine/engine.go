// Package engine owns every component for one character and exposes the
// host callbacks and user actions. It is not safe for concurrent use; the
// host drives it from a single thread.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/san-kum/bodycal/internal/calibrate"
	"github.com/san-kum/bodycal/internal/config"
	"github.com/san-kum/bodycal/internal/host"
	"github.com/san-kum/bodycal/internal/mass"
	"github.com/san-kum/bodycal/internal/morph"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/response"
	"github.com/san-kum/bodycal/internal/tracker"
	"github.com/san-kum/bodycal/internal/tuning"
)

type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// Vertices are the mesh vertex indices sampled for each side's volume.
	Vertices [2][]int
}

type Engine struct {
	cfg      *config.Config
	host     host.Host
	logger   *slog.Logger
	vertices [2][]int

	id   string
	lock *calibrate.SceneLock
	orch *calibrate.Orchestrator

	chest     host.RigidBody
	pectorals [2]host.RigidBody
	nipples   [2]host.RigidBody
	trackers  [2]*tracker.Tracker

	mass     *mass.Estimator
	adoptNew bool
	entries  [2][]*tuning.Entry
	params   param.Batch

	gravityPhysics *response.Physics
	forcePhysics   *response.Physics
	gravityMorphs  *response.Morphs
	forceMorphs    *response.Morphs
	nipple         *response.Nipple
	runner         *response.Runner

	softness       float64
	quickness      float64
	nippleErection float64

	monitor   monitor
	observers []Observer

	initialized  bool
	disabled     error
	live         bool
	frozenBefore bool

	input       response.Input
	time        float64
	tick        int
	writes      int
	totalWrites int
}

// New creates an engine for one character. Call Init before the first tick.
func New(h host.Host, opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := cfg.Instance
	if id == "" {
		id = uuid.NewString()
	}
	logger = logger.With("instance", id)

	e := &Engine{
		cfg:      cfg,
		host:     h,
		logger:   logger,
		vertices: opts.Vertices,
		id:       id,
		mass: mass.NewEstimator(mass.Curve{
			Min:         cfg.Mass.Min,
			Max:         cfg.Mass.Max,
			Coefficient: cfg.Mass.Coefficient,
			Exponent:    cfg.Mass.Exponent,
		}),
		softness:       cfg.Sliders.Softness,
		quickness:      cfg.Sliders.Quickness,
		nippleErection: cfg.Sliders.NippleErection,
		monitor:        newMonitor(cfg.Monitor),
	}
	if !cfg.Mass.AutoUpdate {
		e.mass.SetAutoUpdate(false)
		e.mass.Pin(cfg.Mass.Pinned)
	}

	e.lock = calibrate.NewSceneLock(id, h, logger)
	c := cfg.Calibration
	e.orch = calibrate.New((*subject)(e), e.lock, calibrate.Timings{
		LockPoll:          c.LockPoll,
		ZeroGravitySettle: c.ZeroGravitySettle,
		MassPasses:        c.MassPasses,
		MassPassInterval:  c.MassPassInterval,
		NeutralTimeout:    c.NeutralTimeout,
	}, logger)
	return e
}

// Init resolves the rig, binds every host parameter and queues the first
// calibration. A missing core rigid body disables the engine for good.
func (e *Engine) Init() error {
	if e.disabled != nil {
		return ErrDisabled
	}
	if e.initialized {
		return nil
	}

	rig := e.cfg.Rig
	var err error
	if e.chest, err = e.body(rig.Chest); err != nil {
		return e.disable(err)
	}
	names := [2][2]string{
		tracker.Left:  {rig.LeftPectoral, rig.LeftNipple},
		tracker.Right: {rig.RightPectoral, rig.RightNipple},
	}
	for _, side := range tracker.Sides {
		if e.pectorals[side], err = e.body(names[side][0]); err != nil {
			return e.disable(err)
		}
		if e.nipples[side], err = e.body(names[side][1]); err != nil {
			return e.disable(err)
		}
		e.trackers[side] = tracker.New(side, e.chest, e.nipples[side], e.pectorals[side], e.cfg.Calibration.SettleTolerance)
	}

	defs := tuning.Catalog()
	var all []*tuning.Entry
	for _, side := range tracker.Sides {
		e.entries[side] = tuning.Bind(defs, side, e.host, e.cfg.Epsilon, e.logger)
		e.params = append(e.params, tuning.Params(e.entries[side])...)
		all = append(all, e.entries[side]...)
	}

	e.gravityPhysics = response.NewGravityPhysics(all)
	e.forcePhysics = response.NewForcePhysics(all)
	e.gravityMorphs = response.NewGravityMorphs(e.loadMorphs(morph.CollectionGravity, e.cfg.Morphs.GravityDir))
	e.forceMorphs = response.NewForceMorphs(e.loadMorphs(morph.CollectionForce, e.cfg.Morphs.ForceDir))
	e.nipple = response.NewNipple(all, e.host, e.cfg.Epsilon, e.logger)
	e.runner = response.NewRunner(e.logger,
		e.gravityPhysics,
		e.forcePhysics,
		e.gravityMorphs,
		e.forceMorphs,
		e.nipple,
	)
	e.applyMultipliers(e.cfg.Multipliers)

	e.initialized = true
	e.logger.Info("engine initialized", "parameters", len(e.params))
	e.orch.Request(calibrate.Request{UpdateMass: true, Reason: "init"})
	return nil
}

func (e *Engine) body(name string) (host.RigidBody, error) {
	b, err := e.host.RigidBody(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingRigidBody, name, err)
	}
	return b, nil
}

func (e *Engine) disable(err error) error {
	e.disabled = err
	e.logger.Error("engine disabled", "error", err)
	return err
}

// loadMorphs returns the direction sets of a collection for both sides,
// bound to the host. A broken collection is a configuration error: it is
// logged and the collection stays empty.
func (e *Engine) loadMorphs(collection, dir string) []*morph.Set {
	var sets []*morph.Set
	for _, side := range tracker.Sides {
		var (
			s   []*morph.Set
			err error
		)
		if dir != "" {
			s, err = morph.LoadDir(dir, collection, side)
		} else {
			s, err = morph.LoadBuiltin(collection, side)
		}
		if err != nil {
			e.logger.Warn("morph collection unavailable", "collection", collection, "dir", dir, "error", err)
			return nil
		}
		for _, set := range s {
			set.Bind(e.host, e.cfg.Epsilon, e.logger)
		}
		sets = append(sets, s...)
	}
	return sets
}

func (e *Engine) applyMultipliers(m config.MultipliersConfig) {
	e.gravityPhysics.Multipliers = response.Multipliers(m.GravityPhysics.Values())
	e.forcePhysics.Multipliers = response.Multipliers(m.ForcePhysics.Values())
	e.gravityMorphs.Multipliers = response.Multipliers(m.GravityMorphs.Values())
	e.forceMorphs.Multipliers = response.Multipliers(m.ForceMorphs.Values())
}

func (e *Engine) ID() string { return e.id }

// Sibling is how other instances in the scene see this one.
func (e *Engine) Sibling() host.Sibling { return e.lock }

func (e *Engine) Config() *config.Config { return e.cfg }
func (e *Engine) Disabled() error        { return e.disabled }
func (e *Engine) Live() bool             { return e.live }
func (e *Engine) Busy() bool             { return e.orch.Busy() }
func (e *Engine) State() calibrate.State { return e.orch.State() }
func (e *Engine) Mass() *mass.Estimator  { return e.mass }
func (e *Engine) Time() float64          { return e.time }
func (e *Engine) Tick() int              { return e.tick }
func (e *Engine) TotalWrites() int       { return e.totalWrites }

// LastCalibration returns the report of the most recent calibration.
func (e *Engine) LastCalibration() (calibrate.Report, bool) { return e.orch.Last() }

// OnCalibrated registers a callback for finished calibrations.
func (e *Engine) OnCalibrated(fn func(calibrate.Report)) { e.orch.OnDone = fn }

// Entries returns the bound parameters of one side.
func (e *Engine) Entries(side tracker.Side) []*tuning.Entry { return e.entries[side] }

// Parameter looks up a bound parameter by catalog name.
func (e *Engine) Parameter(name string, side tracker.Side) *param.Parameter {
	for _, en := range e.entries[side] {
		if en.Param.Name() == name {
			return en.Param
		}
	}
	return nil
}

// Runner exposes the handler runner, mostly for failure counts.
func (e *Engine) Runner() *response.Runner { return e.runner }
