package geom

import (
	"fmt"
	"math"
)

// Supported atom scale range. Outside of it the log correction in
// ResolveAtomScaleFactor approaches a zero denominator.
const (
	MinAtomScale = 0.5
	MaxAtomScale = 2.0
)

const cubicMetersToCC = 1e6

// Box is an axis-aligned bounding box in some frame's local coordinates.
type Box struct {
	Min Vec3
	Max Vec3
}

func (b Box) Size() Vec3 { return b.Max.Sub(b.Min) }

// BoundingBox returns the box enclosing points after projecting them into frame.
func BoundingBox(frame Frame, points []Vec3) (Box, error) {
	if len(points) == 0 {
		return Box{}, fmt.Errorf("%w: empty vertex set", ErrInvalidArgument)
	}

	first := frame.Relative(points[0])
	box := Box{Min: first, Max: first}
	for _, p := range points[1:] {
		r := frame.Relative(p)
		for i := 0; i < 3; i++ {
			box.Min[i] = math.Min(box.Min[i], r[i])
			box.Max[i] = math.Max(box.Max[i], r[i])
		}
	}
	return box, nil
}

// ResolveAtomScaleFactor corrects box depth for a uniform character scale.
// Apparent breast size does not follow the scale slider linearly; the log
// term is an empirical fit. A scale of exactly 1 yields exactly 1.
func ResolveAtomScaleFactor(scale float64) float64 {
	if scale == 1 {
		return 1
	}
	k := 1 - math.Abs(math.Log10(scale*scale*scale))
	if scale > 1 {
		return scale * k
	}
	return scale / k
}

// EllipsoidVolume treats size as the bounding box of an ellipsoid and returns
// its volume in cubic centimeters, with the depth corrected for scale.
func EllipsoidVolume(size Vec3, scale float64) (float64, error) {
	if scale < MinAtomScale || scale > MaxAtomScale || math.IsNaN(scale) {
		return 0, fmt.Errorf("%w: atom scale %.3f outside [%.1f, %.1f]", ErrInvalidArgument, scale, MinAtomScale, MaxAtomScale)
	}
	x := size[0] / 2
	y := size[1] / 2
	z := size[2] * ResolveAtomScaleFactor(scale) / 2
	return 4.0 / 3.0 * math.Pi * x * y * z * cubicMetersToCC, nil
}

// EstimateVolume projects the vertex positions into frame and returns the
// ellipsoid volume of their bounding box in cm³.
func EstimateVolume(frame Frame, points []Vec3, scale float64) (float64, error) {
	box, err := BoundingBox(frame, points)
	if err != nil {
		return 0, err
	}
	return EllipsoidVolume(box.Size(), scale)
}
