package dsp

import (
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// CachedCompressor pre-computes the conjugated reference spectrum and the FFT plan
// for one reference pulse and receive length, so repeated pulses only pay for the
// forward and inverse transforms of the received buffer.
type CachedCompressor struct {
	mu      sync.Mutex
	ref     []complex64
	rxLen   int
	refSpec []complex128
	fft     *fourier.CmplxFFT
}

// NewCachedCompressor builds a compressor for ref and receive buffers of rxLen samples.
func NewCachedCompressor(ref []complex64, rxLen int) (*CachedCompressor, error) {
	c := &CachedCompressor{}
	if err := c.Reset(ref, rxLen); err != nil {
		return nil, err
	}
	return c, nil
}

// Reset recreates cached resources for a new reference pulse or receive length.
func (c *CachedCompressor) Reset(ref []complex64, rxLen int) error {
	if len(ref) == 0 {
		return ErrEmptyReference
	}
	if rxLen <= 0 {
		return ErrEmptyInput
	}
	size := fftSize(rxLen, len(ref))
	fft := fourier.NewCmplxFFT(size)
	spec := fft.Coefficients(nil, padded(ref, size))
	conjugate(spec)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ref = append([]complex64(nil), ref...)
	c.rxLen = rxLen
	c.refSpec = spec
	c.fft = fft
	return nil
}

// Compress runs the matched filter using the cached plan. Buffers whose length
// differs from the cached receive length fall back to MatchedFilter.
func (c *CachedCompressor) Compress(rx []complex64) ([]complex128, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(rx) != c.rxLen {
		return MatchedFilter(rx, c.ref)
	}
	// The FFT plan carries work buffers and is not safe for concurrent use.
	return correlate(c.fft, rx, c.refSpec), nil
}

// RxLen returns the receive length the cache was built for.
func (c *CachedCompressor) RxLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rxLen
}
