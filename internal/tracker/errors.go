package tracker

import "errors"

// ErrUncalibrated is returned by Update before a neutral pose was captured.
var ErrUncalibrated = errors.New("tracker: neutral pose not calibrated")
