package calibrate

import (
	"errors"
	"fmt"
)

// ErrCalibrationInProgress is returned by Request when a calibration is
// already queued; the new request was merged into it.
var ErrCalibrationInProgress = errors.New("calibrate: calibration already queued")

// PhaseError records the state in which a calibration step failed.
type PhaseError struct {
	State   State
	Wrapped error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("calibrate: %s: %v", e.State, e.Wrapped)
}

func (e *PhaseError) Unwrap() error {
	return e.Wrapped
}

var (
	errAborted  = errors.New("calibrate: aborted")
	errPanicked = errors.New("calibrate: phase panicked")
)
