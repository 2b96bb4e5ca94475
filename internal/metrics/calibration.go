package metrics

import (
	"github.com/san-kum/bodycal/internal/calibrate"
	"github.com/san-kum/bodycal/internal/engine"
)

// CalibrationTime is the simulated time, in seconds, spent with a
// calibration waiting or running.
type CalibrationTime struct {
	last    float64
	started bool
	total   float64
}

func NewCalibrationTime() *CalibrationTime { return &CalibrationTime{} }

func (c *CalibrationTime) Name() string { return "calibration_seconds" }

func (c *CalibrationTime) Observe(s engine.Snapshot) {
	if c.started && s.State != calibrate.Idle {
		c.total += s.Time - c.last
	}
	c.last = s.Time
	c.started = true
}

func (c *CalibrationTime) Value() float64 { return c.total }

func (c *CalibrationTime) Reset() {
	c.last = 0
	c.started = false
	c.total = 0
}

// Calibrations counts completed calibrations, successful or not.
type Calibrations struct {
	busy  bool
	count int
}

func NewCalibrations() *Calibrations { return &Calibrations{} }

func (c *Calibrations) Name() string { return "calibrations" }

func (c *Calibrations) Observe(s engine.Snapshot) {
	busy := s.State != calibrate.Idle
	if c.busy && !busy {
		c.count++
	}
	c.busy = busy
}

func (c *Calibrations) Value() float64 { return float64(c.count) }

func (c *Calibrations) Reset() {
	c.busy = false
	c.count = 0
}
