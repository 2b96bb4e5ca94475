package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrumImpulse(t *testing.T) {
	for i, v := range PowerSpectrum([]float64{1, 0, 0, 0}) {
		if math.Abs(v-1) > 1e-12 {
			t.Errorf("bin %d = %v, want 1", i, v)
		}
	}
}

func TestPowerSpectrumPads(t *testing.T) {
	if got := len(PowerSpectrum(make([]float64, 100))); got != 64 {
		t.Errorf("len = %d, want 64", got)
	}
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		freq float64
	}{
		{"slow", 2},
		{"fast", 8},
	}
	const dt = 1.0 / 128
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, 256)
			for i := range data {
				data[i] = 3 + math.Sin(2*math.Pi*tt.freq*float64(i)*dt)
			}
			if got := DominantFrequency(data, dt); math.Abs(got-tt.freq) > 0.5 {
				t.Errorf("frequency = %v, want %v", got, tt.freq)
			}
		})
	}

	if got := DominantFrequency(make([]float64, 64), 0.01); got != 0 {
		t.Errorf("flat series frequency = %v", got)
	}
}

func TestSettlingTime(t *testing.T) {
	times := []float64{1, 2, 3, 4, 5}
	data := []float64{0, 5, 3.8, 4.05, 4}
	if got := SettlingTime(times, data, 0.1); got != 3 {
		t.Errorf("settling time = %v, want 3", got)
	}
	if got := SettlingTime(nil, nil, 0.1); got != -1 {
		t.Errorf("empty settling time = %v", got)
	}
}

func TestOvershoot(t *testing.T) {
	if got := Overshoot([]float64{0, 5, 3.9, 4}); got != 1 {
		t.Errorf("overshoot = %v, want 1", got)
	}
	if got := Overshoot([]float64{0, -5, -4}); got != 1 {
		t.Errorf("downward overshoot = %v, want 1", got)
	}
}
