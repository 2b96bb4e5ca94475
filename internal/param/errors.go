package param

import "errors"

// ErrNotInitialized is returned when offsets are applied to a parameter that
// has not entered calibration yet.
var ErrNotInitialized = errors.New("param: parameter not initialized")
