// Package geom measures breast geometry in a rigid body's local frame.
package geom

import "github.com/go-gl/mathgl/mgl64"

type Vec3 = mgl64.Vec3

// Frame is a rigid body's world transform reduced to an origin and its three
// unit axes.
type Frame struct {
	Position Vec3
	Right    Vec3
	Up       Vec3
	Forward  Vec3
}

// IdentityFrame is located at the world origin with world-aligned axes.
func IdentityFrame() Frame {
	return Frame{
		Right:   Vec3{1, 0, 0},
		Up:      Vec3{0, 1, 0},
		Forward: Vec3{0, 0, 1},
	}
}

// FrameFromRotation builds a frame from a position and a rotation quaternion.
func FrameFromRotation(pos Vec3, rot mgl64.Quat) Frame {
	return Frame{
		Position: pos,
		Right:    rot.Rotate(Vec3{1, 0, 0}),
		Up:       rot.Rotate(Vec3{0, 1, 0}),
		Forward:  rot.Rotate(Vec3{0, 0, 1}),
	}
}

// Relative projects a world point onto the frame's right/up/forward axes.
func (f Frame) Relative(world Vec3) Vec3 {
	d := world.Sub(f.Position)
	return Vec3{d.Dot(f.Right), d.Dot(f.Up), d.Dot(f.Forward)}
}

// World is the inverse of Relative.
func (f Frame) World(local Vec3) Vec3 {
	return f.Position.
		Add(f.Right.Mul(local[0])).
		Add(f.Up.Mul(local[1])).
		Add(f.Forward.Mul(local[2]))
}

// Direction rotates a world direction into the frame without translating it.
func (f Frame) Direction(world Vec3) Vec3 {
	return Vec3{world.Dot(f.Right), world.Dot(f.Up), world.Dot(f.Forward)}
}
