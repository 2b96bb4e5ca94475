package response

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/bodycal/internal/curve"
	"github.com/san-kum/bodycal/internal/host"
	"github.com/san-kum/bodycal/internal/morph"
	"github.com/san-kum/bodycal/internal/param"
	"github.com/san-kum/bodycal/internal/tracker"
	"github.com/san-kum/bodycal/internal/tuning"
)

type mapParams map[string]float64

func (m mapParams) SetScalar(name string, v float64) error {
	if _, ok := m[name]; !ok {
		return host.ErrUnknownParameter
	}
	m[name] = v
	return nil
}

func (m mapParams) Scalar(name string) (float64, error) {
	v, ok := m[name]
	if !ok {
		return 0, host.ErrUnknownParameter
	}
	return v, nil
}

func (m mapParams) WakePhysics() {}

func liveEntries(t *testing.T, defs []*tuning.Definition, side tracker.Side) ([]*tuning.Entry, mapParams) {
	t.Helper()
	mp := mapParams{}
	for _, n := range tuning.HostNames(defs, side) {
		mp[n] = 0
	}
	entries := tuning.Bind(defs, side, mp, param.DefaultEpsilon, nil)
	b := tuning.Params(entries)
	b.BeginCalibration()
	b.SetBaseValues(0.5, 0.5, 0)
	b.GoLive()
	return entries, mp
}

func find(entries []*tuning.Entry, name string) *param.Parameter {
	for _, e := range entries {
		if e.Param.Name() == name {
			return e.Param
		}
	}
	return nil
}

func TestAxisSplit(t *testing.T) {
	tests := []struct {
		axis     Axis
		v        float64
		active   param.Direction
		inactive param.Direction
		effect   float64
	}{
		{Vertical, 0.5, param.Up, param.Down, 0.5},
		{Vertical, -0.25, param.Down, param.Up, 0.25},
		{Vertical, 0, param.Up, param.Down, 0},
		{Horizontal, 1, param.Outward, param.Inward, 1},
		{Horizontal, -1, param.Inward, param.Outward, 1},
		{Depth, 0.1, param.Forward, param.Back, 0.1},
		{Depth, -0.1, param.Back, param.Forward, 0.1},
	}
	for _, tt := range tests {
		a, i, e := tt.axis.Split(tt.v)
		if a != tt.active || i != tt.inactive || e != tt.effect {
			t.Errorf("%s.Split(%v) = %s, %s, %v", tt.axis, tt.v, a, i, e)
		}
	}
}

func TestGravitySignal(t *testing.T) {
	upright := GravitySignal(&Input{}, tracker.Right)
	if upright[Vertical] != -1 || upright[Horizontal] != 0 || upright[Depth] != 0 {
		t.Errorf("upright = %v", upright)
	}

	// Lying on the right side pulls the right breast outward and the left
	// one inward, with no vertical pull.
	in := &Input{Orientation: tracker.Orientation{Roll: 1}}
	r := GravitySignal(in, tracker.Right)
	l := GravitySignal(in, tracker.Left)
	if r[Horizontal] != 1 || l[Horizontal] != -1 {
		t.Errorf("roll horizontal = %v, %v", r[Horizontal], l[Horizontal])
	}
	if math.Abs(r[Vertical]) > 1e-12 {
		t.Errorf("roll vertical = %v", r[Vertical])
	}

	lean := GravitySignal(&Input{Orientation: tracker.Orientation{Pitch: 90}}, tracker.Left)
	if math.Abs(lean[Depth]-1) > 1e-12 {
		t.Errorf("lean depth = %v", lean[Depth])
	}
}

func TestForceSignalRollFade(t *testing.T) {
	in := &Input{Orientation: tracker.Orientation{Roll: 0.5}}
	in.Samples[tracker.Left] = tracker.Sample{AngleVertical: 20, AngleHorizontal: 20, DepthOffset: -0.0125}
	v := ForceSignal(in, tracker.Left)
	if math.Abs(v[Vertical]-0.25) > 1e-12 {
		t.Errorf("vertical = %v, want 0.25", v[Vertical])
	}
	if math.Abs(v[Horizontal]+0.5) > 1e-12 {
		t.Errorf("horizontal = %v, want -0.5 (inward)", v[Horizontal])
	}
	if math.Abs(v[Depth]-0.25) > 1e-12 {
		t.Errorf("depth = %v, want 0.25", v[Depth])
	}
}

func TestForcePhysicsUpRegime(t *testing.T) {
	entries, _ := liveEntries(t, tuning.MainPhysics(), tracker.Right)
	h := NewForcePhysics(entries)
	rot := find(entries, tuning.TargetRotationX)
	baseline := rot.Value()

	up := param.Contributor(param.SourceForce, param.Up)
	down := param.Contributor(param.SourceForce, param.Down)

	in := &Input{Mass: 0.5, Softness: 0.5}
	in.Samples[tracker.Right] = tracker.Sample{AngleVertical: 30}
	if err := h.Update(in); err != nil {
		t.Fatal(err)
	}
	if got := rot.OffsetOf(up); math.Abs(got-1.875) > 1e-9 {
		t.Errorf("up offset = %v, want 1.875", got)
	}
	if got := rot.OffsetOf(down); got != 0 {
		t.Errorf("down offset = %v, want 0", got)
	}

	in.Samples[tracker.Right] = tracker.Sample{AngleVertical: -30}
	h.Update(in)
	if rot.OffsetOf(up) != 0 || math.Abs(rot.OffsetOf(down)+1.875) > 1e-9 {
		t.Errorf("after flip: up %v down %v", rot.OffsetOf(up), rot.OffsetOf(down))
	}

	in.Samples[tracker.Right] = tracker.Sample{}
	h.Update(in)
	if got := rot.Value(); math.Abs(got-baseline) > 1e-12 {
		t.Errorf("value at rest = %v, want baseline %v", got, baseline)
	}
}

func TestDirectionalExclusivity(t *testing.T) {
	entries, _ := liveEntries(t, tuning.Catalog(), tracker.Left)
	handlers := []*Physics{NewGravityPhysics(entries), NewForcePhysics(entries)}

	for pitch := -180.0; pitch <= 180; pitch += 15 {
		for roll := -1.0; roll <= 1; roll += 0.25 {
			for angle := -60.0; angle <= 60; angle += 20 {
				in := &Input{Mass: 0.7, Softness: 0.4, Orientation: tracker.Orientation{Pitch: pitch, Roll: roll}}
				in.Samples[tracker.Left] = tracker.Sample{AngleVertical: angle, AngleHorizontal: -angle, DepthOffset: angle / 2000}
				for _, h := range handlers {
					if err := h.Update(in); err != nil {
						t.Fatal(err)
					}
					for _, e := range entries {
						for _, axis := range Axes {
							pos, neg := axis.Regimes()
							a := e.Param.OffsetOf(param.Contributor(h.Source(), pos))
							b := e.Param.OffsetOf(param.Contributor(h.Source(), neg))
							if a != 0 && b != 0 {
								t.Fatalf("%s %s %s both set at pitch %v roll %v angle %v", h.Name(), e.Param.Name(), axis, pitch, roll, angle)
							}
						}
					}
				}
			}
		}
	}
}

func TestMirroredTwist(t *testing.T) {
	left, _ := liveEntries(t, tuning.MainPhysics(), tracker.Left)
	right, _ := liveEntries(t, tuning.MainPhysics(), tracker.Right)
	h := NewGravityPhysics(append(left, right...))

	h.Update(&Input{Mass: 0.5, Orientation: tracker.Orientation{Roll: 1}})
	l := find(left, tuning.TargetRotationY).Offset()
	r := find(right, tuning.TargetRotationY).Offset()
	// Both breasts swing toward the character's right: outward for the
	// right one, inward for the left one, and the same twist sign for both.
	if l <= 0 || r <= 0 {
		t.Errorf("twist offsets %v, %v should both be positive", l, r)
	}
	if math.Abs(l-7) > 1e-9 || math.Abs(r-10.5) > 1e-9 {
		t.Errorf("twist offsets %v, %v, want 7, 10.5", l, r)
	}
}

func TestUninitializedFails(t *testing.T) {
	mp := mapParams{}
	entries := tuning.Bind(tuning.MainPhysics(), tracker.Left, mp, param.DefaultEpsilon, nil)
	h := NewGravityPhysics(entries)
	if err := h.Update(&Input{}); !errors.Is(err, param.ErrNotInitialized) {
		t.Errorf("err = %v", err)
	}
}

func testSets(mp mapParams) []*morph.Set {
	up := &morph.Set{Name: "up", Direction: param.Up, Side: tracker.Left, Morphs: []*morph.Config{
		{Name: "Lift", MassMultiplier: 1},
	}}
	down := &morph.Set{Name: "down", Direction: param.Down, Side: tracker.Left, Morphs: []*morph.Config{
		{Name: "Sag", MassMultiplier: 1},
	}}
	mp["Lift L"] = 0
	mp["Sag L"] = 0
	up.Bind(mp, param.DefaultEpsilon, nil)
	down.Bind(mp, param.DefaultEpsilon, nil)
	return []*morph.Set{up, down}
}

func TestMorphsExclusive(t *testing.T) {
	mp := mapParams{}
	h := NewForceMorphs(testSets(mp))

	in := &Input{Mass: 1}
	in.Samples[tracker.Left] = tracker.Sample{AngleVertical: 40}
	h.Update(in)
	lift := h.Set(tracker.Left, param.Up).Morphs[0]
	sag := h.Set(tracker.Left, param.Down).Morphs[0]
	want := curve.QuadraticRegression(1) / 2
	if math.Abs(lift.Value()-want) > 1e-12 || sag.Value() != 0 {
		t.Errorf("lift %v sag %v", lift.Value(), sag.Value())
	}

	in.Samples[tracker.Left] = tracker.Sample{AngleVertical: -40}
	h.Update(in)
	if lift.Value() != 0 || math.Abs(sag.Value()-want) > 1e-12 {
		t.Errorf("after flip: lift %v sag %v", lift.Value(), sag.Value())
	}

	n, err := h.Push()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || math.Abs(mp["Sag L"]-want) > 1e-12 {
		t.Errorf("pushed %d, Sag L = %v", n, mp["Sag L"])
	}

	h.Multipliers.Set(param.Down, 0)
	h.Update(in)
	if sag.Value() != 0 {
		t.Errorf("zero multiplier left sag at %v", sag.Value())
	}
}

func TestNipple(t *testing.T) {
	entries, mp := liveEntries(t, tuning.SoftPhysics(), tracker.Left)
	mp[NippleErectionMorph+" L"] = 0
	mp[NippleErectionMorph+" R"] = 0
	h := NewNipple(entries, mp, param.DefaultEpsilon, nil)

	nipple := find(entries, tuning.SoftSpring).Region(tuning.RegionNipple)
	before := nipple.Value()
	if err := h.Update(&Input{NippleErection: 0.5}); err != nil {
		t.Fatal(err)
	}
	if got := nipple.Value() - before; math.Abs(got-60) > 1e-9 {
		t.Errorf("nipple spring delta = %v, want 60", got)
	}
	if _, err := h.Push(); err != nil {
		t.Fatal(err)
	}
	if mp[NippleErectionMorph+" R"] != 0.5 {
		t.Errorf("morph = %v", mp[NippleErectionMorph+" R"])
	}

	h.Update(&Input{})
	if nipple.Value() != before {
		t.Errorf("offset not cleared: %v vs %v", nipple.Value(), before)
	}
}

type panicky struct{}

func (panicky) Name() string           { return "panicky" }
func (panicky) Update(in *Input) error { panic("boom") }

type counting struct{ n int }

func (c *counting) Name() string           { return "counting" }
func (c *counting) Update(in *Input) error { c.n++; return nil }

func TestRunnerIsolation(t *testing.T) {
	c := &counting{}
	r := NewRunner(nil, panicky{}, c)
	errs := r.Run(&Input{})
	if len(errs) != 1 {
		t.Fatalf("errs = %v", errs)
	}
	var he *HandlerError
	if !errors.As(errs[0], &he) || he.Handler != "panicky" {
		t.Errorf("err = %v", errs[0])
	}
	if c.n != 1 {
		t.Errorf("second handler ran %d times", c.n)
	}
	if r.Failures("panicky") != 1 {
		t.Errorf("failures = %d", r.Failures("panicky"))
	}
}
