// Package tracker follows each breast's orientation relative to a neutral
// pose captured during calibration, and the chest's orientation relative to
// gravity.
package tracker

import (
	"math"

	"github.com/san-kum/bodycal/internal/geom"
)

// DefaultSettleTolerance is the largest movement, in meters, between two
// consecutive settle checks that still counts as "not moving".
const DefaultSettleTolerance = 0.0005

// Exponential weights for the depth window, newest first. They sum to 1.
var depthWeights = [4]float64{0.75, 0.1875, 0.046875, 0.015625}

// FrameSource is anything with a world transform. host.RigidBody satisfies it.
type FrameSource interface {
	Frame() geom.Frame
}

// Sample is one tick's orientation reading for one side. All values are
// deltas from the neutral pose.
type Sample struct {
	// AngleVertical is in degrees; positive means the breast moved up.
	AngleVertical float64
	// AngleHorizontal is in degrees; positive means toward the character's right.
	AngleHorizontal float64
	// DepthOffset is a smoothed distance; negative means moved forward.
	DepthOffset float64
}

type Tracker struct {
	side      Side
	chest     FrameSource
	nipple    FrameSource
	pectoral  FrameSource
	tolerance float64

	calibrated      bool
	neutralNipple   geom.Vec3
	neutralPectoral geom.Vec3

	hasCandidate      bool
	candidateNipple   geom.Vec3
	candidatePectoral geom.Vec3

	depthHistory [4]float64
	sample       Sample
}

func New(side Side, chest, nipple, pectoral FrameSource, tolerance float64) *Tracker {
	if tolerance <= 0 {
		tolerance = DefaultSettleTolerance
	}
	return &Tracker{
		side:      side,
		chest:     chest,
		nipple:    nipple,
		pectoral:  pectoral,
		tolerance: tolerance,
	}
}

func (t *Tracker) Side() Side         { return t.side }
func (t *Tracker) Calibrated() bool   { return t.calibrated }
func (t *Tracker) Sample() Sample     { return t.sample }
func (t *Tracker) Tolerance() float64 { return t.tolerance }

func (t *Tracker) positions() (nipple, pectoral geom.Vec3) {
	chest := t.chest.Frame()
	return chest.Relative(t.nipple.Frame().Position), chest.Relative(t.pectoral.Frame().Position)
}

// Calibrate captures the current pose as neutral and zeroes the sample.
func (t *Tracker) Calibrate() {
	t.neutralNipple, t.neutralPectoral = t.positions()
	t.calibrated = true
	t.hasCandidate = false
	t.Reset()
}

// Reset zeroes the sample and depth window without touching the neutral pose.
func (t *Tracker) Reset() {
	t.depthHistory = [4]float64{}
	t.sample = Sample{}
}

// Update recomputes the sample from the current transforms.
func (t *Tracker) Update() (Sample, error) {
	if !t.calibrated {
		return Sample{}, ErrUncalibrated
	}

	nipple, pectoral := t.positions()
	neutral := t.neutralNipple.Sub(t.neutralPectoral)
	current := nipple.Sub(pectoral)

	t.sample.AngleVertical = signedAngle(neutral[2], neutral[1], current[2], current[1])
	t.sample.AngleHorizontal = signedAngle(neutral[2], neutral[0], current[2], current[0])

	copy(t.depthHistory[1:], t.depthHistory[:3])
	t.depthHistory[0] = t.neutralPectoral[2] - pectoral[2]
	depth := 0.0
	for i, w := range depthWeights {
		depth += w * t.depthHistory[i]
	}
	t.sample.DepthOffset = depth

	return t.sample, nil
}

// CalibrationSettled compares both tracked points with the pose captured by
// the previous call and reports whether neither moved more than the
// tolerance. The first call after Calibrate only records a pose.
func (t *Tracker) CalibrationSettled() bool {
	nipple, pectoral := t.positions()
	settled := t.hasCandidate &&
		nipple.Sub(t.candidateNipple).Len() < t.tolerance &&
		pectoral.Sub(t.candidatePectoral).Len() < t.tolerance

	t.candidateNipple, t.candidatePectoral = nipple, pectoral
	t.hasCandidate = true
	return settled
}

// signedAngle returns the angle in degrees from (ax, ay) to (bx, by),
// positive counterclockwise.
func signedAngle(ax, ay, bx, by float64) float64 {
	if (ax == 0 && ay == 0) || (bx == 0 && by == 0) {
		return 0
	}
	cross := ax*by - ay*bx
	dot := ax*bx + ay*by
	return math.Atan2(cross, dot) * 180 / math.Pi
}
