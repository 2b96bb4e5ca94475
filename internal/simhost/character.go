// Package simhost is an in-memory host: a chest with two breasts, each a
// pectoral point mass on a stiff spring and a nipple point mass on a soft
// spring, driven by the same scalar parameters a real host would expose.
package simhost

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/san-kum/bodycal/internal/geom"
	"github.com/san-kum/bodycal/internal/host"
	"github.com/san-kum/bodycal/internal/integrators"
	"github.com/san-kum/bodycal/internal/sim"
	"github.com/san-kum/bodycal/internal/tracker"
)

// Rigid body names, matching the engine's default rig.
const (
	Chest         = "chest"
	LeftPectoral  = "lPectoral"
	RightPectoral = "rPectoral"
	LeftNipple    = "lNipple"
	RightNipple   = "rNipple"
)

const gravity = 9.81

type Options struct {
	Seed       int64
	Integrator string
	// Substeps per Step call.
	Substeps int
	// Sway is the idle-animation amplitude in degrees of pitch.
	Sway float64
	// Rings and Segments set the density of each breast's vertex cloud.
	Rings    int
	Segments int
}

func DefaultOptions() Options {
	return Options{Integrator: "rk4", Substeps: 4, Rings: 6, Segments: 12}
}

// Pose is the chest's attitude: pitch in degrees (positive leans forward)
// and roll in [-1, 1] (positive lies on the right side).
type Pose struct {
	Pitch float64
	Roll  float64
}

type Character struct {
	opts   Options
	params map[string]float64
	writes int
	wakes  int

	frozen bool
	scale  float64
	pose   Pose
	noise  opensimplex.Noise
	time   float64

	chestPos geom.Vec3
	chest    *body
	breasts  [2]*breast
	sizes    [2]float64

	integ sim.Stepper
	dyn   *rigDynamics
	state sim.State

	scene *Scene
}

func New(opts Options) (*Character, error) {
	if opts.Substeps < 1 {
		opts.Substeps = 1
	}
	if opts.Rings < 2 {
		opts.Rings = 2
	}
	if opts.Segments < 4 {
		opts.Segments = 4
	}
	c := &Character{
		opts:     opts,
		params:   make(map[string]float64),
		scale:    1,
		noise:    opensimplex.New(opts.Seed),
		chestPos: geom.Vec3{0, 1.3, 0},
		sizes:    [2]float64{1, 1},
	}
	c.chest = &body{name: Chest, c: c, kinematic: true}
	for _, side := range tracker.Sides {
		c.breasts[side] = newBreast(c, side)
	}
	c.dyn = &rigDynamics{c: c}
	integ, err := integrators.New(opts.Integrator, c.dyn)
	if err != nil {
		return nil, err
	}
	c.integ = integ
	c.state = make(sim.State, c.dyn.Dim())
	c.reset()
	return c, nil
}

// reset places every body at rest for the current pose.
func (c *Character) reset() {
	chest := c.chestFrame()
	for _, side := range tracker.Sides {
		b := c.breasts[side]
		p := chest.World(b.anchor)
		n := p.Add(c.restOffset(chest, side))
		b.write(c.state, p, geom.Vec3{}, n, geom.Vec3{})
	}
}

// Attach places the character in a scene.
func (c *Character) Attach(s *Scene) { c.scene = s }

func (c *Character) Siblings(selfID string) []host.Sibling {
	if c.scene == nil {
		return nil
	}
	return c.scene.Siblings(selfID)
}

func (c *Character) SetPose(p Pose) { c.pose = p }
func (c *Character) Pose() Pose     { return c.pose }
func (c *Character) Time() float64  { return c.time }

// SetSize scales one breast's mesh, as a user changing a shape morph would.
func (c *Character) SetSize(side tracker.Side, k float64) { c.sizes[side] = k }

func (c *Character) SetAtomScale(s float64) { c.scale = s }
func (c *Character) AtomScale() float64     { return c.scale }

func (c *Character) SetAnimationFrozen(frozen bool) { c.frozen = frozen }
func (c *Character) AnimationFrozen() bool          { return c.frozen }

func (c *Character) RigidBody(name string) (host.RigidBody, error) {
	switch name {
	case Chest:
		return c.chest, nil
	case LeftPectoral:
		return c.breasts[tracker.Left].pectoral, nil
	case RightPectoral:
		return c.breasts[tracker.Right].pectoral, nil
	case LeftNipple:
		return c.breasts[tracker.Left].nipple, nil
	case RightNipple:
		return c.breasts[tracker.Right].nipple, nil
	}
	return nil, fmt.Errorf("%w: %s", host.ErrUnknownRigidBody, name)
}

func (c *Character) chestRotation() mgl64.Quat {
	pitch := c.pose.Pitch
	roll := c.pose.Roll
	if !c.frozen && c.opts.Sway > 0 {
		pitch += c.opts.Sway * c.noise.Eval2(c.time*0.3, 0)
		roll += c.opts.Sway / 90 * c.noise.Eval2(0, c.time*0.3)
	}
	qp := mgl64.QuatRotate(mgl64.DegToRad(pitch), mgl64.Vec3{1, 0, 0})
	qr := mgl64.QuatRotate(mgl64.DegToRad(-roll*90), mgl64.Vec3{0, 0, 1})
	return qp.Mul(qr)
}

func (c *Character) chestFrame() geom.Frame {
	return geom.FrameFromRotation(c.chestPos, c.chestRotation())
}

// restOffset is the world vector from pectoral to nipple at rest, turned by
// the targetRotationX/Y parameters.
func (c *Character) restOffset(chest geom.Frame, side tracker.Side) geom.Vec3 {
	const length = 0.08
	a := mgl64.DegToRad(c.param("targetRotationX", side, 0))
	b := mgl64.DegToRad(c.param("targetRotationY", side, 0))
	local := geom.Vec3{
		length * math.Sin(b),
		length * math.Sin(a),
		length * math.Cos(a) * math.Cos(b),
	}
	return chest.World(local).Sub(chest.Position)
}

// Step advances the simulation by dt seconds.
func (c *Character) Step(dt float64) {
	h := dt / float64(c.opts.Substeps)
	c.dyn.prepare()
	for i := 0; i < c.opts.Substeps; i++ {
		c.integ.Step(c.state, c.time, h)
		// one-tick forces act during the first substep only
		c.dyn.clearForces()
	}
	if !c.state.IsValid() {
		c.reset()
	}
	for _, b := range c.breasts {
		b.pectoral.force = geom.Vec3{}
		b.nipple.force = geom.Vec3{}
	}
	if !c.frozen {
		c.time += dt
	}
}
