package dsp

import (
	"fmt"
	"math"
	"strings"
)

// WindowKind selects the amplitude taper applied to the edges of a pulse.
type WindowKind int

const (
	WindowNone WindowKind = iota
	WindowHanning
	WindowHamming
	WindowBlackman
)

// Blackman coefficients, the usual a0/a1/a2 approximation.
const (
	blackmanA0 = 0.42
	blackmanA1 = 0.5
	blackmanA2 = 0.08
)

func (k WindowKind) String() string {
	switch k {
	case WindowNone:
		return "None"
	case WindowHanning:
		return "Hanning"
	case WindowHamming:
		return "Hamming"
	case WindowBlackman:
		return "Blackman"
	default:
		return fmt.Sprintf("WindowKind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known window kinds.
func (k WindowKind) Valid() bool {
	return k >= WindowNone && k <= WindowBlackman
}

// ParseWindowKind converts a string to a WindowKind.
func ParseWindowKind(s string) (WindowKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return WindowNone, nil
	case "hanning", "hann":
		return WindowHanning, nil
	case "hamming":
		return WindowHamming, nil
	case "blackman":
		return WindowBlackman, nil
	default:
		return WindowNone, fmt.Errorf("%w: %q", ErrUnknownWindow, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k WindowKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWindow, int(k))
	}
	return []byte(strings.ToLower(k.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *WindowKind) UnmarshalText(text []byte) error {
	parsed, err := ParseWindowKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// WindowScale returns the taper value for one edge sample. The window spans
// 2*edge points and index counts from the outer edge of the pulse, so the
// result rises from near 0 at index 0 towards 1 at index edge-1.
//
// A tapering kind with edge < 1 has no valid width; the result is NaN.
func WindowScale(kind WindowKind, index, edge int) float64 {
	if kind == WindowNone {
		return 1.0
	}
	width := float64(edge) * 2
	if width <= 1 {
		return math.NaN()
	}
	n := float64(index + 1)
	return taper(kind, n, width-1)
}

// taper evaluates the raised cosine family at position n over a span of denom.
func taper(kind WindowKind, n, denom float64) float64 {
	x := 2 * math.Pi * n / denom
	switch kind {
	case WindowHanning:
		return 0.5 * (1 - math.Cos(x))
	case WindowHamming:
		return 0.54 - 0.46*math.Cos(x)
	case WindowBlackman:
		return blackmanA0 - blackmanA1*math.Cos(x) + blackmanA2*math.Cos(2*x)
	default:
		return 1.0
	}
}

// Window returns a symmetric window of length n.
// If n is zero or negative, an empty slice is returned.
func Window(kind WindowKind, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	win := make([]float64, n)
	if n == 1 {
		win[0] = 1
		return win
	}
	for i := 0; i < n; i++ {
		win[i] = taper(kind, float64(i), float64(n-1))
	}
	return win
}

// Hamming returns a Hamming window of length n.
func Hamming(n int) []float64 {
	return Window(WindowHamming, n)
}

// ApplyWindow multiplies the input complex samples with the provided window.
// The window length must match the input length.
func ApplyWindow(samples []complex64, window []float64) []complex128 {
	if len(samples) != len(window) {
		return []complex128{}
	}
	out := make([]complex128, len(samples))
	for i, v := range samples {
		out[i] = complex(float64(real(v))*window[i], float64(imag(v))*window[i])
	}
	return out
}
