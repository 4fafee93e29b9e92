package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// MatchedFilter correlates the received samples against the reference pulse.
// Element k of the result is the correlation at a lag of k samples, so a copy of
// ref that starts at rx[d] produces the peak at index d. The result has len(rx)
// elements.
func MatchedFilter(rx, ref []complex64) ([]complex128, error) {
	if len(ref) == 0 {
		return nil, ErrEmptyReference
	}
	if len(rx) == 0 {
		return nil, ErrEmptyInput
	}
	size := fftSize(len(rx), len(ref))
	fft := fourier.NewCmplxFFT(size)
	refSpec := fft.Coefficients(nil, padded(ref, size))
	conjugate(refSpec)
	return correlate(fft, rx, refSpec), nil
}

// correlate multiplies the spectrum of rx with an already conjugated reference
// spectrum and returns the positive lags.
func correlate(fft *fourier.CmplxFFT, rx []complex64, refSpec []complex128) []complex128 {
	size := fft.Len()
	spec := fft.Coefficients(nil, padded(rx, size))
	for i := range spec {
		spec[i] *= refSpec[i]
	}
	out := fft.Sequence(spec, spec)
	// gonum's inverse transform is unnormalized.
	scale := complex(float64(size), 0)
	for i := range out {
		out[i] /= scale
	}
	return out[:len(rx)]
}

// PeakIndex returns the index and magnitude of the largest element.
// It returns -1 for empty input.
func PeakIndex(data []complex128) (int, float64) {
	best, bestMag := -1, math.Inf(-1)
	for i, v := range data {
		if mag := cmplx.Abs(v); mag > bestMag {
			best, bestMag = i, mag
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, bestMag
}

// PeakToSidelobeDB returns the ratio in dB between the magnitude at peak and the
// largest magnitude more than guard samples away from it. If nothing lies
// outside the guard region the ratio is +Inf.
func PeakToSidelobeDB(data []complex128, peak, guard int) float64 {
	if peak < 0 || peak >= len(data) {
		return math.NaN()
	}
	peakMag := cmplx.Abs(data[peak])
	side := 0.0
	for i, v := range data {
		if i >= peak-guard && i <= peak+guard {
			continue
		}
		if mag := cmplx.Abs(v); mag > side {
			side = mag
		}
	}
	if side == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(peakMag/side)
}

// MagnitudeDB converts complex samples to dB relative to ref.
func MagnitudeDB(data []complex128, ref float64) []float64 {
	return toDB(data, ref)
}

func fftSize(rxLen, refLen int) int {
	return nextPow2(rxLen + refLen - 1)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func padded(src []complex64, size int) []complex128 {
	out := make([]complex128, size)
	for i, v := range src {
		out[i] = complex128(v)
	}
	return out
}

func conjugate(data []complex128) {
	for i, v := range data {
		data[i] = cmplx.Conj(v)
	}
}
