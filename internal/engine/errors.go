package engine

import "errors"

var (
	// ErrDisabled is returned by every tick after a fatal initialization
	// error. The host keeps its last pushed values.
	ErrDisabled = errors.New("engine: disabled after fatal error")

	// ErrMissingRigidBody means a core rig body could not be resolved.
	ErrMissingRigidBody = errors.New("engine: missing rigid body")

	// ErrUnknownSetting is returned for settings keys the engine does not own.
	ErrUnknownSetting = errors.New("engine: unknown setting")
)
