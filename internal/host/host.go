// Package host declares the narrow interfaces the engine consumes from the
// application it runs inside. Nothing here computes anything; see simhost
// for an in-memory implementation.
package host

import (
	"errors"

	"github.com/san-kum/bodycal/internal/geom"
)

var (
	// ErrUnknownParameter means the host has no scalar parameter by that name.
	ErrUnknownParameter = errors.New("host: unknown parameter")

	// ErrUnknownRigidBody means the host has no rigid body by that name.
	ErrUnknownRigidBody = errors.New("host: unknown rigid body")
)

// RigidBody is a physics body whose transform the engine reads and whose
// gravity it may toggle during calibration.
type RigidBody interface {
	Frame() geom.Frame
	GravityEnabled() bool
	SetGravityEnabled(on bool)
	// AddForce applies a world-space force for the next physics step only.
	AddForce(f geom.Vec3)
}

type Rig interface {
	RigidBody(name string) (RigidBody, error)
}

// VertexSampler reads skinned mesh vertex world positions.
type VertexSampler interface {
	ReadVertexPositions(indices []int) ([]geom.Vec3, error)
}

// Params is the host's scalar parameter sink and source. Joint springs,
// collider radii and morph weights are all addressed by name.
type Params interface {
	SetScalar(name string, value float64) error
	Scalar(name string) (float64, error)
	// WakePhysics nudges the host solver after a parameter change.
	WakePhysics()
}

type Animation interface {
	SetAnimationFrozen(frozen bool)
	AnimationFrozen() bool
}

// Sibling is another engine instance on a different character in the same
// scene, seen only through its published boolean parameters.
type Sibling interface {
	ID() string
	BoolParam(name string) (bool, error)
}

type Scene interface {
	Siblings(selfID string) []Sibling
}

// Host bundles every collaborator the engine needs.
type Host interface {
	Rig
	VertexSampler
	Params
	Animation
	Scene
	AtomScale() float64
}
