package waveform

import (
	"fmt"
	"math"
	"strings"

	"github.com/rjboer/chirpgen/internal/dsp"
)

// SignalKind controls whether the generator produces an imaginary component.
type SignalKind int

const (
	Real SignalKind = iota
	Complex
)

func (k SignalKind) String() string {
	switch k {
	case Real:
		return "Real"
	case Complex:
		return "Complex"
	default:
		return fmt.Sprintf("SignalKind(%d)", int(k))
	}
}

// ParseSignalKind converts a string to a SignalKind.
func ParseSignalKind(s string) (SignalKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "real":
		return Real, nil
	case "complex", "iq":
		return Complex, nil
	default:
		return Real, fmt.Errorf("%w: unknown signal kind %q", ErrInvalidConfig, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k SignalKind) MarshalText() ([]byte, error) {
	if k != Real && k != Complex {
		return nil, fmt.Errorf("%w: unknown signal kind %d", ErrInvalidConfig, int(k))
	}
	return []byte(strings.ToLower(k.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SignalKind) UnmarshalText(text []byte) error {
	parsed, err := ParseSignalKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Config describes one linear FM pulse.
type Config struct {
	SampleRateHz  float64
	StartFreqHz   float64
	StopFreqHz    float64
	LengthSec     float64
	StartPhaseDeg float32
	Signal        SignalKind
	Window        dsp.WindowKind
	// UnwindowedFraction is the centred share of the pulse left at full scale.
	// The remainder is split between the two tapered edges.
	UnwindowedFraction float32
}

// Validate reports the first field that cannot describe a pulse.
func (c Config) Validate() error {
	if !(c.SampleRateHz > 0) || math.IsInf(c.SampleRateHz, 0) {
		return fmt.Errorf("%w: sample rate must be positive and finite, got %v", ErrInvalidConfig, c.SampleRateHz)
	}
	if !(c.LengthSec > 0) || math.IsInf(c.LengthSec, 0) {
		return fmt.Errorf("%w: length must be positive and finite, got %v", ErrInvalidConfig, c.LengthSec)
	}
	if !finite(c.StartFreqHz) || !finite(c.StopFreqHz) {
		return fmt.Errorf("%w: frequencies must be finite, got %v..%v", ErrInvalidConfig, c.StartFreqHz, c.StopFreqHz)
	}
	if !finite(float64(c.StartPhaseDeg)) {
		return fmt.Errorf("%w: start phase must be finite, got %v", ErrInvalidConfig, c.StartPhaseDeg)
	}
	if c.Signal != Real && c.Signal != Complex {
		return fmt.Errorf("%w: unknown signal kind %d", ErrInvalidConfig, int(c.Signal))
	}
	if !c.Window.Valid() {
		return fmt.Errorf("%w: unknown window kind %d", ErrInvalidConfig, int(c.Window))
	}
	if !(c.UnwindowedFraction >= 0 && c.UnwindowedFraction <= 1) {
		return fmt.Errorf("%w: unwindowed fraction must be within [0,1], got %v", ErrInvalidConfig, c.UnwindowedFraction)
	}
	return nil
}

// Bandwidth returns the swept bandwidth in Hz; negative for a down-chirp.
func (c Config) Bandwidth() float64 {
	return c.StopFreqHz - c.StartFreqHz
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
