package simhost

import (
	"github.com/san-kum/bodycal/internal/geom"
	"github.com/san-kum/bodycal/internal/sim"
	"github.com/san-kum/bodycal/internal/tracker"
)

// body is a point mass that reports the chest's orientation. The chest
// itself is kinematic.
type body struct {
	name      string
	c         *Character
	kinematic bool
	owner     *breast
	offset    int
	force     geom.Vec3
}

func (b *body) Frame() geom.Frame {
	chest := b.c.chestFrame()
	if b.kinematic {
		return chest
	}
	chest.Position = b.position()
	return chest
}

func (b *body) position() geom.Vec3 {
	s := b.c.state
	return geom.Vec3{s[b.offset], s[b.offset+1], s[b.offset+2]}
}

func (b *body) velocity() geom.Vec3 {
	s := b.c.state
	return geom.Vec3{s[b.offset+3], s[b.offset+4], s[b.offset+5]}
}

// GravityEnabled is shared by both bodies of a breast.
func (b *body) GravityEnabled() bool {
	if b.owner == nil {
		return false
	}
	return b.owner.gravity
}

func (b *body) SetGravityEnabled(on bool) {
	if b.owner != nil {
		b.owner.gravity = on
	}
}

func (b *body) AddForce(f geom.Vec3) {
	if !b.kinematic {
		b.force = b.force.Add(f)
	}
}

type breast struct {
	side     tracker.Side
	pectoral *body
	nipple   *body
	gravity  bool
	// anchor is the pectoral's rest position in the chest frame.
	anchor geom.Vec3
}

const bodyStride = 6

func newBreast(c *Character, side tracker.Side) *breast {
	base := int(side) * 2 * bodyStride
	b := &breast{
		side:    side,
		gravity: true,
		anchor:  geom.Vec3{side.Sign() * 0.09, -0.12, 0.06},
	}
	pname, nname := LeftPectoral, LeftNipple
	if side == tracker.Right {
		pname, nname = RightPectoral, RightNipple
	}
	b.pectoral = &body{name: pname, c: c, owner: b, offset: base}
	b.nipple = &body{name: nname, c: c, owner: b, offset: base + bodyStride}
	return b
}

func (b *breast) write(s sim.State, p, pv, n, nv geom.Vec3) {
	o := b.pectoral.offset
	copy(s[o:o+3], p[:])
	copy(s[o+3:o+6], pv[:])
	o = b.nipple.offset
	copy(s[o:o+3], n[:])
	copy(s[o+3:o+6], nv[:])
}
