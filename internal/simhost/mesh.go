package simhost

import (
	"fmt"
	"math"

	"github.com/san-kum/bodycal/internal/geom"
	"github.com/san-kum/bodycal/internal/tracker"
)

// Base ellipsoid semi-axes of one breast, in meters.
var baseSemiAxes = geom.Vec3{0.07, 0.06, 0.06}

func (c *Character) pointsPerSide() int {
	// two poles per axis plus the ring grid
	return 6 + c.opts.Rings*c.opts.Segments
}

// VertexIndices lists the mesh vertices of one breast.
func (c *Character) VertexIndices(side tracker.Side) []int {
	n := c.pointsPerSide()
	idx := make([]int, n)
	for i := range idx {
		idx[i] = int(side)*n + i
	}
	return idx
}

func (c *Character) ReadVertexPositions(indices []int) ([]geom.Vec3, error) {
	n := c.pointsPerSide()
	chest := c.chestFrame()
	out := make([]geom.Vec3, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= 2*n {
			return nil, fmt.Errorf("simhost: vertex index %d out of range", idx)
		}
		side := tracker.Side(idx / n)
		out[i] = chest.World(c.localVertex(side, idx%n))
	}
	return out, nil
}

// localVertex returns vertex k of an ellipsoid surface in the chest frame.
// The first six vertices are the poles, so the bounding box is exact.
func (c *Character) localVertex(side tracker.Side, k int) geom.Vec3 {
	b := c.breasts[side]
	r := baseSemiAxes.Mul(c.sizes[side] * c.scale)
	center := b.anchor.Add(geom.Vec3{0, 0, r[2]})

	var unit geom.Vec3
	switch {
	case k < 6:
		unit[k/2] = 1 - 2*float64(k%2)
	default:
		k -= 6
		ring, seg := k/c.opts.Segments, k%c.opts.Segments
		theta := math.Pi * float64(ring+1) / float64(c.opts.Rings+1)
		phi := 2 * math.Pi * float64(seg) / float64(c.opts.Segments)
		unit = geom.Vec3{
			math.Sin(theta) * math.Cos(phi),
			math.Cos(theta),
			math.Sin(theta) * math.Sin(phi),
		}
	}
	return center.Add(geom.Vec3{unit[0] * r[0], unit[1] * r[1], unit[2] * r[2]})
}
