package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

var (
	ErrTooFewSamples = errors.New("analysis: need at least 8 samples")
	ErrNoOscillation = errors.New("analysis: series does not oscillate")
)

// PowerSpectrum returns |X_k| for k in [0, n/2) of the mean-removed,
// Hann-windowed series.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	w := window.Hann(n)
	x := make([]float64, n)
	for i, v := range data {
		x[i] = (v - mean) * w[i]
	}

	spec := fft.FFTReal(x)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantPeriod returns the period, in the units of dt, of the strongest
// non-DC component of data. The peak bin is refined by parabolic
// interpolation over its neighbours.
func DominantPeriod(data []float64, dt float64) (float64, error) {
	n := len(data)
	if n < 8 {
		return 0, ErrTooFewSamples
	}

	ps := PowerSpectrum(data)
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] < 1e-12 {
		return 0, ErrNoOscillation
	}

	bin := float64(peak)
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if d := a - 2*b + c; d != 0 {
			bin += 0.5 * (a - c) / d
		}
	}

	freq := bin / (float64(n) * dt)
	if freq <= 0 || math.IsNaN(freq) {
		return 0, ErrNoOscillation
	}
	return 1 / freq, nil
}
