package simhost

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/bodycal/internal/geom"
	"github.com/san-kum/bodycal/internal/host"
	"github.com/san-kum/bodycal/internal/tracker"
)

func newTestCharacter(t *testing.T) *Character {
	t.Helper()
	c, err := NewCatalog(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestImplementsHost(t *testing.T) {
	var _ host.Host = newTestCharacter(t)
}

func TestRigidBodies(t *testing.T) {
	c := newTestCharacter(t)
	for _, name := range []string{Chest, LeftPectoral, RightPectoral, LeftNipple, RightNipple} {
		if _, err := c.RigidBody(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := c.RigidBody("hip"); !errors.Is(err, host.ErrUnknownRigidBody) {
		t.Errorf("unknown body err = %v", err)
	}
}

func TestParams(t *testing.T) {
	c := newTestCharacter(t)
	if err := c.SetScalar("spring L", 42); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.Scalar("spring L"); v != 42 {
		t.Errorf("spring L = %v", v)
	}
	if err := c.SetScalar("nope", 1); !errors.Is(err, host.ErrUnknownParameter) {
		t.Errorf("err = %v", err)
	}
	if c.Writes() != 1 {
		t.Errorf("writes = %d", c.Writes())
	}
}

func TestVertexCloudBoundingBox(t *testing.T) {
	c := newTestCharacter(t)
	c.SetPose(Pose{Pitch: 30, Roll: 0.2})
	chest, _ := c.RigidBody(Chest)

	pts, err := c.ReadVertexPositions(c.VertexIndices(tracker.Left))
	if err != nil {
		t.Fatal(err)
	}
	box, err := geom.BoundingBox(chest.Frame(), pts)
	if err != nil {
		t.Fatal(err)
	}
	want := baseSemiAxes.Mul(2)
	if size := box.Size(); !size.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("box size = %v, want %v", size, want)
	}

	c.SetSize(tracker.Left, 1.2)
	pts, _ = c.ReadVertexPositions(c.VertexIndices(tracker.Left))
	box, _ = geom.BoundingBox(chest.Frame(), pts)
	if size := box.Size(); !size.ApproxEqualThreshold(want.Mul(1.2), 1e-9) {
		t.Errorf("scaled box size = %v", size)
	}

	if _, err := c.ReadVertexPositions([]int{-1}); err == nil {
		t.Error("expected out of range error")
	}
}

func TestSagsUnderGravity(t *testing.T) {
	c := newTestCharacter(t)
	nipple, _ := c.RigidBody(LeftNipple)
	start := nipple.Frame().Position

	for i := 0; i < 240; i++ {
		c.Step(1.0 / 60)
	}
	end := nipple.Frame().Position
	if end[1] >= start[1] {
		t.Errorf("nipple did not sag: %v -> %v", start[1], end[1])
	}

	nipple.SetGravityEnabled(false)
	pect, _ := c.RigidBody(LeftPectoral)
	if pect.GravityEnabled() {
		t.Error("gravity flag should be shared by the breast's bodies")
	}
	for i := 0; i < 600; i++ {
		c.Step(1.0 / 60)
	}
	if got := nipple.Frame().Position; math.Abs(got[1]-start[1]) > 1e-3 {
		t.Errorf("zero gravity rest %v, want %v", got[1], start[1])
	}
}

func TestPoseOrientation(t *testing.T) {
	c := newTestCharacter(t)
	chest, _ := c.RigidBody(Chest)

	c.SetPose(Pose{Pitch: 90})
	o := tracker.ChestOrientation(chest.Frame())
	if math.Abs(o.Pitch-90) > 1e-9 {
		t.Errorf("pitch = %v", o.Pitch)
	}

	c.SetPose(Pose{Roll: 1})
	o = tracker.ChestOrientation(chest.Frame())
	if math.Abs(o.Roll-1) > 1e-6 {
		t.Errorf("roll = %v", o.Roll)
	}
}

func TestScene(t *testing.T) {
	s := NewScene()
	a := NewFlagSibling("a")
	b := NewFlagSibling("b")
	s.Add(a)
	s.Add(b)

	sibs := s.Siblings("a")
	if len(sibs) != 1 || sibs[0].ID() != "b" {
		t.Fatalf("siblings = %v", sibs)
	}
	b.Set("calibrationLock", true)
	if v, err := sibs[0].BoolParam("calibrationLock"); err != nil || !v {
		t.Errorf("lock = %v, %v", v, err)
	}
	if _, err := sibs[0].BoolParam("other"); !errors.Is(err, host.ErrUnknownParameter) {
		t.Errorf("err = %v", err)
	}
}
