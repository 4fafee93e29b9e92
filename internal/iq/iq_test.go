package iq

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterleaveLayout(t *testing.T) {
	buf := Interleave([]complex64{complex(1, -1), complex(0, 0.5)})
	require.Len(t, buf, 2*BytesPerSample)
	// 32767, -32767, 0, 16384 as little endian int16
	assert.Equal(t, []byte{0xff, 0x7f, 0x01, 0x80, 0x00, 0x00, 0x00, 0x40}, buf)
}

func TestInterleaveClipsAndDropsNaN(t *testing.T) {
	got, err := Deinterleave(Interleave([]complex64{complex(3, -7), complex(float32(math.NaN()), 0)}))
	require.NoError(t, err)
	assert.Equal(t, complex64(complex(1, -1)), got[0])
	assert.Equal(t, complex64(0), got[1])
}

func TestQuantizationError(t *testing.T) {
	in := make([]complex64, 256)
	for n := range in {
		ph := 2 * math.Pi * float64(n) / 37
		in[n] = complex(float32(math.Cos(ph)), float32(math.Sin(ph)))
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, in))
	assert.Equal(t, len(in)*BytesPerSample, buf.Len())

	out, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for n := range in {
		if d := math.Abs(float64(real(in[n]) - real(out[n]))); d > 1.0/math.MaxInt16 {
			t.Fatalf("sample %d: I error %g", n, d)
		}
		if d := math.Abs(float64(imag(in[n]) - imag(out[n]))); d > 1.0/math.MaxInt16 {
			t.Fatalf("sample %d: Q error %g", n, d)
		}
	}
}

func TestDeinterleaveClipsMinInt16(t *testing.T) {
	// I = -32768, Q = 32767
	got, err := Deinterleave([]byte{0x00, 0x80, 0xff, 0x7f})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, float32(-1), real(got[0]))
	assert.Equal(t, float32(1), imag(got[0]))
}

func TestDeinterleaveRejectsRaggedBuffer(t *testing.T) {
	_, err := Deinterleave(make([]byte, 6))
	require.ErrorIs(t, err, ErrRaggedBuffer)

	out, err := Deinterleave(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWritePropagatesErrors(t *testing.T) {
	err := Write(failingWriter{}, []complex64{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
