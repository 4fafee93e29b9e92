// Package iq packs pulses as interleaved signed 16-bit little endian I/Q,
// the sample format radio transmit buffers take (SC16).
package iq

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// BytesPerSample is one I and one Q int16.
const BytesPerSample = 4

// ErrRaggedBuffer indicates a byte count that does not hold whole samples.
var ErrRaggedBuffer = errors.New("iq: buffer length not a multiple of 4")

// Interleave quantizes samples to SC16. Components outside [-1, 1] are clipped.
func Interleave(samples []complex64) []byte {
	buf := make([]byte, len(samples)*BytesPerSample)
	for n, s := range samples {
		off := n * BytesPerSample
		binary.LittleEndian.PutUint16(buf[off:], uint16(quantize(real(s))))
		binary.LittleEndian.PutUint16(buf[off+2:], uint16(quantize(imag(s))))
	}
	return buf
}

// Deinterleave converts an SC16 buffer back to samples normalized to [-1, 1].
func Deinterleave(buf []byte) ([]complex64, error) {
	if len(buf)%BytesPerSample != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrRaggedBuffer, len(buf))
	}
	out := make([]complex64, len(buf)/BytesPerSample)
	for n := range out {
		off := n * BytesPerSample
		i := int16(binary.LittleEndian.Uint16(buf[off:]))
		q := int16(binary.LittleEndian.Uint16(buf[off+2:]))
		out[n] = complex(normalize(i), normalize(q))
	}
	return out, nil
}

// Write streams samples to w as SC16.
func Write(w io.Writer, samples []complex64) error {
	if _, err := w.Write(Interleave(samples)); err != nil {
		return fmt.Errorf("write sc16: %w", err)
	}
	return nil
}

// Read consumes r to EOF and decodes it as SC16.
func Read(r io.Reader) ([]complex64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sc16: %w", err)
	}
	return Deinterleave(buf)
}

// normalize maps an int16 to [-1, 1]. -32768 has no positive twin and is
// clipped to -1.
func normalize(v int16) float32 {
	return max(float32(v)/math.MaxInt16, -1)
}

func quantize(v float32) int16 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	v = max(min(v, 1), -1)
	return int16(math.Round(float64(v) * math.MaxInt16))
}
