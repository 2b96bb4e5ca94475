package curve

import "math"

// Func maps one input to one output.
type Func func(x float64) float64

const (
	minCurvature = -0.99
	maxCurvature = 0.99
)

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func Clamp01(x float64) float64 { return Clamp(x, 0, 1) }

func Lerp(a, b, t float64) float64 { return a + (b-a)*Clamp01(t) }

// InverseLerp returns where v sits between a and b, clamped to [0, 1].
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

// SmoothStep is the cubic Hermite step on [0, 1].
func SmoothStep(x float64) float64 {
	x = Clamp01(x)
	return x * x * (3 - 2*x)
}

// InverseSmoothStep maps x in [0, upperBound] to [0, 1] with two power
// branches that meet at midpointFraction*upperBound.
//
// curvature is clamped to [-0.99, 0.99] and sets the branch exponent
// c = 2/(1-curvature) - 1: zero is linear, positive values flatten both ends,
// negative values flatten the middle.
//
//	x < p:  x^c / p^(c-1)
//	x >= p: b - (b-x)^c / (b-p)^(c-1)
//
// Both branches evaluate to p at x == p, so the curve is continuous there.
func InverseSmoothStep(x, upperBound, curvature, midpointFraction float64) float64 {
	if upperBound <= 0 || x <= 0 || math.IsNaN(x) {
		return 0
	}
	if x >= upperBound {
		return 1
	}

	s := Clamp(curvature, minCurvature, maxCurvature)
	c := 2/(1-s) - 1
	b := upperBound
	p := Clamp01(midpointFraction) * b

	var y float64
	if x < p {
		y = math.Pow(x, c) / math.Pow(p, c-1)
	} else {
		y = b - math.Pow(b-x, c)/math.Pow(b-p, c-1)
	}
	return Clamp01(y / b)
}

// QuadraticRegression is -0.173x² + 1.142x, an empirical fit that makes a
// [0, 2] multiplier slider feel linear.
func QuadraticRegression(x float64) float64 {
	return -0.173*x*x + 1.142*x
}

// Exponential1 grows convexly from offset at x=0 to offset+scale at x=1.
// base must be > 0 and != 1; exponent stretches the input before the growth.
func Exponential1(x, base, exponent, scale, offset float64) float64 {
	if base <= 0 || base == 1 {
		return offset + scale*x
	}
	num := math.Pow(base, math.Pow(Clamp01(x), exponent)) - 1
	return offset + scale*num/(base-1)
}

// Exponential2 rises quickly then saturates, returning 0 at x=0 and scale at
// x=1. rate controls how early the curve saturates.
func Exponential2(x, rate, exponent, scale float64) float64 {
	if rate <= 0 {
		return scale * Clamp01(x)
	}
	x = math.Pow(Clamp01(x), exponent)
	return scale * (1 - math.Exp(-rate*x)) / (1 - math.Exp(-rate))
}

// DeemphasizeMiddle keeps the end points of a [0, 1] slider but flattens the
// response around 0.5.
func DeemphasizeMiddle(x float64) float64 {
	d := Clamp01(x) - 0.5
	return 0.5 + 4*d*d*d
}

// RollMultiplier fades up/down and forward/back effects as the chest rolls
// onto its side. roll is normalized to [-1, 1].
func RollMultiplier(roll float64) float64 {
	return 1 - math.Abs(Clamp(roll, -1, 1))
}

// SoftnessAmount converts the [0, 100] softness slider to [0, 1].
func SoftnessAmount(slider float64) float64 {
	return math.Pow(Clamp(slider, 0, 100)/100, 0.67)
}

// QuicknessAmount converts the [-100, 100] quickness slider to [-1, 1].
func QuicknessAmount(slider float64) float64 {
	return Clamp(slider, -100, 100) / 100
}

// Sign returns -1 for negative x and 1 otherwise.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
