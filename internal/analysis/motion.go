package analysis

import "math"

// DominantFrequency returns the strongest frequency, in Hz, of a series
// sampled every dt seconds. The mean is removed first so a resting offset
// does not register; a flat series returns 0.
func DominantFrequency(data []float64, dt float64) float64 {
	if len(data) < 4 || dt <= 0 {
		return 0
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	n := 2 * len(ps)
	maxPower, maxIdx := 1e-12, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	return float64(maxIdx) / (float64(n) * dt)
}

// SettlingTime returns the first time after which every later sample stays
// within tolerance of the final sample, relative to times[0]. It returns
// -1 for an empty series.
func SettlingTime(times, data []float64, tolerance float64) float64 {
	if len(data) == 0 || len(times) != len(data) {
		return -1
	}
	final := data[len(data)-1]
	settled := len(data) - 1
	for i := len(data) - 1; i >= 0; i-- {
		if math.Abs(data[i]-final) > tolerance {
			break
		}
		settled = i
	}
	return times[settled] - times[0]
}

// Overshoot is the largest distance past the final value on the far side
// of the starting value.
func Overshoot(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	start, final := data[0], data[len(data)-1]
	dir := 1.0
	if final < start {
		dir = -1
	}
	over := 0.0
	for _, v := range data {
		over = math.Max(over, dir*(v-final))
	}
	return over
}
