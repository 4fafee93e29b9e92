package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// fullScale is the amplitude of an unwindowed generator sample.
const fullScale = 1.0

// FFTShift returns the FFT output shifted so that DC is centered.
func FFTShift(data []complex128) []complex128 {
	n := len(data)
	if n == 0 {
		return []complex128{}
	}
	half := n / 2
	shifted := make([]complex128, 0, n)
	shifted = append(shifted, data[half:]...)
	shifted = append(shifted, data[:half]...)
	return shifted
}

// Spectrum performs an FFT on the provided samples after applying the given window,
// normalizes by the window sum, and converts the magnitude to dB relative to full scale.
// The returned slices are shifted so that DC sits at index len/2.
func Spectrum(samples []complex64, kind WindowKind) ([]complex128, []float64) {
	if len(samples) == 0 {
		return []complex128{}, []float64{}
	}
	win := Window(kind, len(samples))
	windowed := ApplyWindow(samples, win)
	coeffs := fourier.NewCmplxFFT(len(samples)).Coefficients(nil, windowed)
	sumWin := 0.0
	for _, v := range win {
		sumWin += v
	}
	for i := range coeffs {
		coeffs[i] /= complex(sumWin, 0)
	}
	shifted := FFTShift(coeffs)
	return shifted, toDB(shifted, fullScale)
}

// BinFrequency returns the frequency in Hz of index i of a shifted spectrum of length n.
func BinFrequency(i, n int, sampleRate float64) float64 {
	if n == 0 {
		return 0
	}
	return float64(i-n/2) * sampleRate / float64(n)
}

func toDB(data []complex128, ref float64) []float64 {
	db := make([]float64, len(data))
	for i, v := range data {
		mag := cmplx.Abs(v)
		if mag == 0 {
			db[i] = math.Inf(-1)
			continue
		}
		db[i] = 20 * math.Log10(mag/ref)
	}
	return db
}
