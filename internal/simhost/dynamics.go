package simhost

import (
	"math"

	"github.com/san-kum/bodycal/internal/geom"
	"github.com/san-kum/bodycal/internal/sim"
	"github.com/san-kum/bodycal/internal/tracker"
)

// Parameter scaling from host scalars to SI values.
const (
	nippleSpringScale = 3.0
	nippleDamperScale = 8.0
	pectoralMass      = 0.4
)

// rigDynamics integrates both breasts. The chest pose and the parameters are
// sampled once per Step by prepare.
type rigDynamics struct {
	c     *Character
	chest geom.Frame
	rest  [2]geom.Vec3
	force [2][2]geom.Vec3

	springZ [2]float64
	damperZ [2]float64
	spring  [2]float64
	damper  [2]float64
	mass    [2]float64
}

func (d *rigDynamics) Dim() int { return 2 * 2 * bodyStride }

func (d *rigDynamics) prepare() {
	c := d.c
	d.chest = c.chestFrame()
	for _, side := range tracker.Sides {
		b := c.breasts[side]
		d.rest[side] = c.restOffset(d.chest, side)
		d.force[side] = [2]geom.Vec3{b.pectoral.force, b.nipple.force}
		d.springZ[side] = c.param("positionSpringZ", side, 400)
		d.damperZ[side] = c.param("positionDamperZ", side, 20)
		d.spring[side] = c.param("spring", side, 60) * nippleSpringScale
		d.damper[side] = c.param("damper", side, 1) * nippleDamperScale
		d.mass[side] = math.Max(0.05, c.param("mass", side, 0.5))
	}
}

func (d *rigDynamics) clearForces() {
	d.force = [2][2]geom.Vec3{}
}

func (d *rigDynamics) Derivative(dx, x sim.State, t float64) {
	g := geom.Vec3{0, -gravity, 0}
	for _, side := range tracker.Sides {
		b := d.c.breasts[side]
		po, no := b.pectoral.offset, b.nipple.offset
		p := geom.Vec3{x[po], x[po+1], x[po+2]}
		pv := geom.Vec3{x[po+3], x[po+4], x[po+5]}
		n := geom.Vec3{x[no], x[no+1], x[no+2]}
		nv := geom.Vec3{x[no+3], x[no+4], x[no+5]}

		anchor := d.chest.World(b.anchor)
		fp := anchor.Sub(p).Mul(d.springZ[side]).Sub(pv.Mul(d.damperZ[side])).Add(d.force[side][0])
		fn := p.Add(d.rest[side]).Sub(n).Mul(d.spring[side]).Sub(nv.Sub(pv).Mul(d.damper[side])).Add(d.force[side][1])
		if b.gravity {
			fp = fp.Add(g.Mul(pectoralMass))
			fn = fn.Add(g.Mul(d.mass[side]))
		}
		ap := fp.Mul(1 / pectoralMass)
		an := fn.Mul(1 / d.mass[side])

		copy(dx[po:po+3], pv[:])
		copy(dx[po+3:po+6], ap[:])
		copy(dx[no:no+3], nv[:])
		copy(dx[no+3:no+6], an[:])
	}
}
