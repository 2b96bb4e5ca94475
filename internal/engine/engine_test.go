package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/bodycal/internal/calibrate"
	"github.com/san-kum/bodycal/internal/config"
	"github.com/san-kum/bodycal/internal/geom"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/simhost"
	"github.com/san-kum/bodycal/internal/tracker"
	"github.com/san-kum/bodycal/internal/tuning"
)

const dt = 1.0 / 60

type rig struct {
	char *simhost.Character
	eng  *Engine
}

func newRig(t *testing.T, mutate func(*config.Config)) *rig {
	t.Helper()
	char, err := simhost.NewCatalog(simhost.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	eng := New(char, Options{
		Config:   cfg,
		Vertices: [2][]int{char.VertexIndices(tracker.Left), char.VertexIndices(tracker.Right)},
	})
	if err := eng.Init(); err != nil {
		t.Fatal(err)
	}
	return &rig{char: char, eng: eng}
}

func (r *rig) run(t *testing.T, seconds float64) {
	t.Helper()
	steps := int(seconds/dt + 0.5)
	for i := 0; i < steps; i++ {
		r.char.Step(dt)
		if err := r.eng.FixedUpdate(dt); err != nil {
			t.Fatal(err)
		}
	}
}

func (r *rig) runUntilLive(t *testing.T) {
	t.Helper()
	for i := 0; i < 60*10; i++ {
		r.char.Step(dt)
		if err := r.eng.FixedUpdate(dt); err != nil {
			t.Fatal(err)
		}
		if r.eng.Live() && !r.eng.orch.Busy() && !r.eng.orch.Pending() {
			return
		}
	}
	t.Fatalf("engine not live, state %s", r.eng.State())
}

func TestInitialCalibration(t *testing.T) {
	r := newRig(t, nil)
	r.runUntilLive(t)

	rep, ok := r.eng.LastCalibration()
	if !ok {
		t.Fatal("no calibration report")
	}
	if rep.Err != nil {
		t.Fatalf("calibration failed: %v", rep.Err)
	}
	m := r.eng.Mass().Mass()
	if m < 0.1 || m > 2.0 {
		t.Errorf("mass %v outside [0.1, 2.0]", m)
	}
	if !r.eng.Mass().Estimated() {
		t.Error("mass was never estimated")
	}
	for _, side := range tracker.Sides {
		for _, en := range r.eng.Entries(side) {
			if en.Param.State() != param.Live {
				t.Errorf("%s %s is %s", en.Param.Name(), side, en.Param.State())
			}
		}
	}
	if r.char.AnimationFrozen() {
		t.Error("animation left frozen")
	}
	if r.char.Wakes() == 0 {
		t.Error("physics never woken")
	}
	spring, _ := r.char.Scalar(tuning.HostName(tuning.Spring, tracker.Left))
	if spring < 10 || spring > 200 {
		t.Errorf("spring L = %v", spring)
	}
}

func TestMassDeterministic(t *testing.T) {
	a := newRig(t, nil)
	b := newRig(t, nil)
	a.runUntilLive(t)
	b.runUntilLive(t)
	if a.eng.Mass().Mass() != b.eng.Mass().Mass() {
		t.Errorf("mass differs: %v vs %v", a.eng.Mass().Mass(), b.eng.Mass().Mass())
	}
}

func TestFreezeDuringCalibration(t *testing.T) {
	r := newRig(t, nil)
	frozenOK := true
	r.eng.AddObserver(ObserverFunc(func(s Snapshot) {
		if s.State >= calibrate.PreRefreshOk && s.State <= calibrate.NeutralPoseOk && !r.char.AnimationFrozen() {
			frozenOK = false
		}
	}))
	r.runUntilLive(t)
	if !frozenOK {
		t.Error("animation not frozen while calibrating")
	}
}

func TestFreezeStateRestored(t *testing.T) {
	r := newRig(t, nil)
	r.char.SetAnimationFrozen(true)
	r.runUntilLive(t)
	if !r.char.AnimationFrozen() {
		t.Error("user freeze was not restored")
	}
}

func TestExclusivityAcrossPoses(t *testing.T) {
	r := newRig(t, nil)
	r.runUntilLive(t)

	violations := 0
	r.eng.AddObserver(ObserverFunc(func(s Snapshot) { violations += s.Violations }))

	for _, pose := range []simhost.Pose{
		{Pitch: 0}, {Pitch: 60}, {Pitch: -60}, {Pitch: 170}, {Roll: 0.8}, {Roll: -0.8}, {Pitch: 30, Roll: 0.4},
	} {
		r.char.SetPose(pose)
		r.run(t, 0.5)
	}
	if violations != 0 {
		t.Errorf("%d exclusivity violations", violations)
	}
}

func TestGravityRegimes(t *testing.T) {
	r := newRig(t, nil)
	r.runUntilLive(t)

	rot := r.eng.Parameter(tuning.TargetRotationX, tracker.Left)
	up := param.Contributor(param.SourceGravity, param.Up)
	down := param.Contributor(param.SourceGravity, param.Down)

	r.run(t, 0.1)
	if rot.OffsetOf(down) == 0 || rot.OffsetOf(up) != 0 {
		t.Errorf("upright: down %v up %v", rot.OffsetOf(down), rot.OffsetOf(up))
	}

	r.char.SetPose(simhost.Pose{Pitch: 180})
	r.run(t, 0.1)
	if rot.OffsetOf(up) == 0 || rot.OffsetOf(down) != 0 {
		t.Errorf("upside down: down %v up %v", rot.OffsetOf(down), rot.OffsetOf(up))
	}
}

func TestLockHeldBySibling(t *testing.T) {
	r := newRig(t, nil)
	scene := simhost.NewScene()
	other := simhost.NewFlagSibling("other")
	other.Set(calibrate.LockParam, true)
	scene.Add(other)
	scene.Add(r.eng.Sibling())
	r.char.Attach(scene)

	r.run(t, 0.5)
	if r.eng.State() != calibrate.Waiting {
		t.Fatalf("state = %s, want waiting", r.eng.State())
	}
	if r.char.Writes() != 0 {
		t.Errorf("%d writes while waiting for the lock", r.char.Writes())
	}

	other.Set(calibrate.LockParam, false)
	r.runUntilLive(t)
	rep, _ := r.eng.LastCalibration()
	if rep.LockWait < 0.45 {
		t.Errorf("lock wait = %v, want >= 0.5", rep.LockWait)
	}
	if held, _ := r.eng.Sibling().BoolParam(calibrate.LockParam); held {
		t.Error("lock still held after calibration")
	}
}

func TestMissingRigidBodyDisables(t *testing.T) {
	char, _ := simhost.NewCatalog(simhost.DefaultOptions())
	eng := New(char, Options{Config: config.GetPreset("default")})
	eng.cfg.Rig.Chest = "spine"

	if err := eng.Init(); !errors.Is(err, ErrMissingRigidBody) {
		t.Fatalf("err = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := eng.FixedUpdate(dt); !errors.Is(err, ErrDisabled) {
			t.Errorf("tick %d: err = %v", i, err)
		}
	}
	if err := eng.RecalibratePhysics(); !errors.Is(err, ErrDisabled) {
		t.Errorf("action err = %v", err)
	}
	if char.Writes() != 0 {
		t.Errorf("disabled engine wrote %d values", char.Writes())
	}
}

func TestEmptyVertexSetFailsLoudly(t *testing.T) {
	char, _ := simhost.NewCatalog(simhost.DefaultOptions())
	eng := New(char, Options{})
	r := &rig{char: char, eng: eng}
	r.run(t, 1)

	rep, ok := eng.LastCalibration()
	if !ok {
		t.Fatal("no report")
	}
	var perr *calibrate.PhaseError
	if !errors.As(rep.Err, &perr) || !errors.Is(rep.Err, geom.ErrInvalidArgument) {
		t.Errorf("err = %v", rep.Err)
	}
	if eng.Live() {
		t.Error("engine went live without a baseline")
	}
	if char.Writes() != 0 {
		t.Errorf("%d writes after failed first refresh", char.Writes())
	}
}

func TestFailedFirstMassRefreshStaysIdle(t *testing.T) {
	r := newRig(t, nil)
	for i := 0; i < 60*5 && r.eng.State() != calibrate.MassRefreshStarted; i++ {
		r.run(t, dt)
	}
	if r.eng.State() != calibrate.MassRefreshStarted {
		t.Fatalf("state %s, want %s", r.eng.State(), calibrate.MassRefreshStarted)
	}

	r.char.SetAtomScale(3)
	r.run(t, 1)

	rep, ok := r.eng.LastCalibration()
	if !ok {
		t.Fatal("no report")
	}
	var perr *calibrate.PhaseError
	if !errors.As(rep.Err, &perr) || perr.State != calibrate.MassRefreshStarted {
		t.Fatalf("err = %v", rep.Err)
	}
	if r.eng.Live() {
		t.Error("engine went live without a neutral pose")
	}
	for _, side := range tracker.Sides {
		if r.eng.trackers[side].Calibrated() {
			t.Errorf("%s tracker calibrated", side)
		}
	}
	if got := r.eng.Entries(tracker.Left)[0].Param.State(); got == param.Live {
		t.Errorf("parameter state %v after failed first refresh", got)
	}

	r.char.SetAtomScale(1)
	r.eng.CalculateBreastMass()
	r.runUntilLive(t)
	for _, side := range tracker.Sides {
		if !r.eng.trackers[side].Calibrated() {
			t.Errorf("%s tracker not calibrated after recovery", side)
		}
	}
}

func TestVolumeDriftRecalibrates(t *testing.T) {
	r := newRig(t, nil)
	r.runUntilLive(t)
	before := r.eng.Mass().Mass()
	runs := r.eng.orch.Runs()

	r.char.SetSize(tracker.Left, 1.3)
	r.run(t, 1.5)
	r.runUntilLive(t)

	if _, triggers := r.eng.MonitorStats(); triggers == 0 {
		t.Error("monitor never triggered")
	}
	if r.eng.orch.Runs() <= runs {
		t.Error("no calibration after drift")
	}
	if after := r.eng.Mass().Mass(); after <= before {
		t.Errorf("mass %v did not grow from %v", after, before)
	}
}

func TestAtomScaleRecalibrates(t *testing.T) {
	r := newRig(t, nil)
	r.runUntilLive(t)
	runs := r.eng.orch.Runs()

	r.char.SetAtomScale(1.2)
	r.run(t, 1.5)
	r.runUntilLive(t)
	if r.eng.orch.Runs() <= runs {
		t.Error("no calibration after scale change")
	}
	rep, _ := r.eng.LastCalibration()
	if rep.Request.Reason != "atom-scale" {
		t.Errorf("reason = %q", rep.Request.Reason)
	}
}

func TestPinnedMass(t *testing.T) {
	r := newRig(t, func(c *config.Config) {
		c.Mass.AutoUpdate = false
		c.Mass.Pinned = 1.5
	})
	r.runUntilLive(t)
	if got := r.eng.Mass().Mass(); got != 1.5 {
		t.Errorf("pinned mass = %v", got)
	}

	if err := r.eng.CalculateBreastMass(); err != nil {
		t.Fatal(err)
	}
	r.runUntilLive(t)
	if got, real := r.eng.Mass().Mass(), r.eng.Mass().RealMass(); got != real {
		t.Errorf("mass %v not adopted from estimate %v", got, real)
	}

	if err := r.eng.SetMass(0.4); err != nil {
		t.Fatal(err)
	}
	r.eng.AutoUpdateMassOn()
	if err := r.eng.SetMass(0.4); err == nil {
		t.Error("SetMass should fail with auto-update on")
	}
}

func TestSoftnessChangesSpring(t *testing.T) {
	r := newRig(t, func(c *config.Config) { c.Sliders.Softness = 10 })
	r.runUntilLive(t)
	firm := r.eng.Parameter(tuning.Spring, tracker.Left).Base()

	if err := r.eng.SetSoftness(90); err != nil {
		t.Fatal(err)
	}
	r.runUntilLive(t)
	soft := r.eng.Parameter(tuning.Spring, tracker.Left).Base()
	if soft >= firm {
		t.Errorf("soft spring %v should be below firm %v", soft, firm)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	r := newRig(t, nil)
	s := r.eng.Settings()
	if s[KeySoftness] != config.DefaultSoftness {
		t.Errorf("softness = %v", s[KeySoftness])
	}
	if s["forceMorphs.up"] != 1 {
		t.Errorf("forceMorphs.up = %v", s["forceMorphs.up"])
	}

	s[KeySoftness] = 70
	s[KeyQuickness] = -40
	s["gravityPhysics.down"] = 1.5
	s[KeyNippleErection] = 0.25
	if err := r.eng.ApplySettings(s); err != nil {
		t.Fatal(err)
	}
	got := r.eng.Settings()
	for k, v := range s {
		if math.Abs(got[k]-v) > 1e-12 {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}

	err := r.eng.ApplySettings(map[string]float64{"gravityPhysics.sideways": 1, "bogus": 2})
	if !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("err = %v", err)
	}
}

func TestSetMultiplier(t *testing.T) {
	r := newRig(t, nil)
	if err := r.eng.SetMultiplier(ForceMorphs, param.Back, 3); err != nil {
		t.Fatal(err)
	}
	if v, _ := r.eng.Multiplier(ForceMorphs, param.Back); v != 2 {
		t.Errorf("multiplier = %v, want clamped 2", v)
	}
	if err := r.eng.SetMultiplier("sideways", param.Up, 1); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("err = %v", err)
	}
}

func TestNippleErectionDrivesMorph(t *testing.T) {
	r := newRig(t, nil)
	r.runUntilLive(t)
	r.eng.SetNippleErection(0.6)
	r.run(t, 2*dt)
	if v, _ := r.char.Scalar("TM_NippleErection R"); math.Abs(v-0.6) > 1e-12 {
		t.Errorf("morph = %v", v)
	}
}
