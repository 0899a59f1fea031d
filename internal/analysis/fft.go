package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of each frequency bin up to Nyquist.
// The mean is removed first so bin 0 only reflects drift.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	centered := make([]float64, len(data))
	mean := Summarize(data).Mean
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period in samples of the strongest bin above
// zero, and that bin's magnitude. A flat series has no period.
func DominantPeriod(data []float64) (float64, float64) {
	ps := PowerSpectrum(data)
	best, power := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > power {
			best, power = k, ps[k]
		}
	}
	if best == 0 || power < 1e-9 {
		return 0, 0
	}
	return float64(len(data)) / float64(best), power
}
