package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// EnergySpectrum returns the magnitude of each frequency bin of series,
// after removing its mean. Bin k corresponds to k cycles over the whole
// series; bin 0 is omitted, so index i holds bin i+1.
func EnergySpectrum(series []float64) []float64 {
	n := len(series)
	if n < 4 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i+1])
	}
	return ps
}

// DominantPeriod returns the period, in frames, of the strongest
// oscillation in series. ok is false for series too short to analyse or
// with no oscillation at all.
func DominantPeriod(series []float64) (period float64, ok bool) {
	ps := EnergySpectrum(series)
	maxIdx, maxPower := -1, 0.0
	for i, p := range ps {
		if p > maxPower {
			maxIdx, maxPower = i, p
		}
	}
	if maxIdx < 0 {
		return 0, false
	}
	return float64(len(series)) / float64(maxIdx+1), true
}
