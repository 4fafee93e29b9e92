package waveform

import (
	"math"

	"github.com/rjboer/chirpgen/internal/dsp"
)

// Sample is one generated point. Imag is always zero for a Real signal.
type Sample struct {
	Real float32 `json:"real" yaml:"real"`
	Imag float32 `json:"imag" yaml:"imag"`
}

// Waveform generates a windowed linear FM chirp from a Config.
// A Waveform is owned by a single caller and is not safe for concurrent use.
type Waveform struct {
	cfg          Config
	totalSamples int
	edgeSamples  int
	samples      []Sample
}

// New validates cfg and returns a generator with its derived fields computed.
// No samples exist until Generate is called.
func New(cfg Config) (*Waveform, error) {
	w := &Waveform{}
	if err := w.Update(cfg); err != nil {
		return nil, err
	}
	return w, nil
}

// Update replaces the configuration and recomputes the derived sample counts.
// Any previously generated buffer is discarded.
func (w *Waveform) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	w.cfg = cfg
	w.totalSamples = int(math.Floor(cfg.LengthSec * cfg.SampleRateHz))
	w.edgeSamples = int(math.Floor(float64(w.totalSamples) * (1 - float64(cfg.UnwindowedFraction)) / 2))
	w.samples = nil
	return nil
}

// Config returns the current configuration.
func (w *Waveform) Config() Config { return w.cfg }

// TotalSamples is floor(LengthSec * SampleRateHz).
func (w *Waveform) TotalSamples() int { return w.totalSamples }

// WindowedEdgeSamples is the number of tapered samples at each end of the pulse.
func (w *Waveform) WindowedEdgeSamples() int { return w.edgeSamples }

// Generate computes the full pulse, replacing any earlier buffer.
func (w *Waveform) Generate() {
	cfg := w.cfg
	phaseOffset := float64(cfg.StartPhaseDeg) * math.Pi / 180
	bw := cfg.Bandwidth()

	samples := make([]Sample, w.totalSamples)
	for i := range samples {
		t := float64(i) / cfg.SampleRateHz
		phase := phaseOffset +
			t*cfg.StartFreqHz*2*math.Pi +
			(t*t*bw*math.Pi)/cfg.LengthSec
		scale := w.WindowScale(i)

		samples[i].Real = float32(math.Cos(phase) * scale)
		if cfg.Signal == Complex {
			samples[i].Imag = float32(math.Sin(phase) * scale)
		}
	}
	w.samples = samples
}

// WindowScale returns the amplitude applied to sample i. Only the first and last
// WindowedEdgeSamples samples are tapered; the tail is evaluated at the mirrored
// head index so both edges carry the same taper.
func (w *Waveform) WindowScale(i int) float64 {
	edge := w.edgeSamples
	switch {
	case i < edge:
		return dsp.WindowScale(w.cfg.Window, i, edge)
	case i >= w.totalSamples-edge:
		return dsp.WindowScale(w.cfg.Window, w.totalSamples-1-i, edge)
	default:
		return 1.0
	}
}

// InstantaneousFreq returns the sweep frequency in Hz at time t seconds.
func (w *Waveform) InstantaneousFreq(t float64) float64 {
	return w.cfg.StartFreqHz + w.cfg.Bandwidth()*t/w.cfg.LengthSec
}

// Samples returns a copy of the generated buffer.
func (w *Waveform) Samples() []Sample {
	out := make([]Sample, len(w.samples))
	copy(out, w.samples)
	return out
}

// Complex64 returns the generated buffer as IQ samples.
func (w *Waveform) Complex64() []complex64 {
	out := make([]complex64, len(w.samples))
	for i, s := range w.samples {
		out[i] = complex(s.Real, s.Imag)
	}
	return out
}

// String implements fmt.Stringer with the Describe summary.
func (w *Waveform) String() string {
	return Describe(w.cfg, w.totalSamples, w.edgeSamples)
}
