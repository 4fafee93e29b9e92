package waveform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjboer/chirpgen/internal/dsp"
)

func demoConfig() Config {
	return Config{
		SampleRateHz:       200e6,
		StartFreqHz:        10e6,
		StopFreqHz:         20e6,
		LengthSec:          1e-5,
		StartPhaseDeg:      0,
		Signal:             Complex,
		Window:             dsp.WindowHanning,
		UnwindowedFraction: 0.80,
	}
}

func mustNew(t *testing.T, cfg Config) *Waveform {
	t.Helper()
	wf, err := New(cfg)
	require.NoError(t, err)
	return wf
}

func TestDemoConfig(t *testing.T) {
	wf := mustNew(t, demoConfig())
	assert.Equal(t, 2000, wf.TotalSamples())
	// 0.8 is not exact in float32, so (1-f)*2000/2 lands just under 200.
	assert.Equal(t, 199, wf.WindowedEdgeSamples())

	wf.Generate()
	samples := wf.Samples()
	require.Len(t, samples, 2000)

	scale0 := wf.WindowScale(0)
	assert.InDelta(t, 0.5*(1-math.Cos(2*math.Pi/397)), scale0, 1e-12)
	assert.InDelta(t, math.Cos(0)*scale0, float64(samples[0].Real), 1e-7)
	assert.InDelta(t, math.Sin(0)*scale0, float64(samples[0].Imag), 1e-7)
}

func TestTotalSamplesIsFlooredProduct(t *testing.T) {
	tests := []struct {
		rate, length float64
		want         int
	}{
		{200e6, 1e-5, 2000},
		{1e4, 1e-3, 10},
		{48000, 0.0101, 484},
		{1000, 2.5, 2500},
		{10, 0.05, 0},
	}
	for _, tt := range tests {
		cfg := demoConfig()
		cfg.SampleRateHz, cfg.LengthSec = tt.rate, tt.length
		wf := mustNew(t, cfg)
		assert.Equal(t, int(math.Floor(tt.length*tt.rate)), wf.TotalSamples())
		assert.Equal(t, tt.want, wf.TotalSamples())
	}
}

func TestEdgeSamplesInvariant(t *testing.T) {
	for _, frac := range []float32{0, 0.1, 0.25, 0.5, 0.8, 0.999, 1} {
		for _, rate := range []float64{7, 1e3, 200e6} {
			cfg := demoConfig()
			cfg.SampleRateHz = rate
			cfg.UnwindowedFraction = frac
			wf := mustNew(t, cfg)
			edge, total := wf.WindowedEdgeSamples(), wf.TotalSamples()
			assert.GreaterOrEqual(t, edge, 0, "frac %v rate %v", frac, rate)
			assert.LessOrEqual(t, 2*edge, total, "frac %v rate %v", frac, rate)
		}
	}
}

func TestFullyUnwindowedHasUnitScale(t *testing.T) {
	for _, kind := range []dsp.WindowKind{dsp.WindowHanning, dsp.WindowHamming, dsp.WindowBlackman} {
		cfg := demoConfig()
		cfg.Window = kind
		cfg.UnwindowedFraction = 1
		wf := mustNew(t, cfg)
		require.Equal(t, 0, wf.WindowedEdgeSamples())
		for i := 0; i < wf.TotalSamples(); i++ {
			if s := wf.WindowScale(i); s != 1.0 {
				t.Fatalf("%s: index %d scale %v", kind, i, s)
			}
		}
	}
}

func TestNoWindowHasUnitScale(t *testing.T) {
	for _, frac := range []float32{0, 0.3, 1} {
		cfg := demoConfig()
		cfg.Window = dsp.WindowNone
		cfg.UnwindowedFraction = frac
		wf := mustNew(t, cfg)
		for i := 0; i < wf.TotalSamples(); i++ {
			if s := wf.WindowScale(i); s != 1.0 {
				t.Fatalf("fraction %v: index %d scale %v", frac, i, s)
			}
		}
	}
}

func TestTaperIsMirrored(t *testing.T) {
	for _, kind := range []dsp.WindowKind{dsp.WindowHanning, dsp.WindowHamming, dsp.WindowBlackman} {
		for _, frac := range []float32{0, 0.5, 0.8} {
			cfg := demoConfig()
			cfg.Window = kind
			cfg.UnwindowedFraction = frac
			wf := mustNew(t, cfg)
			n := wf.TotalSamples()
			edge := wf.WindowedEdgeSamples()
			require.Positive(t, edge)
			for i := 0; i < edge; i++ {
				head, tail := wf.WindowScale(i), wf.WindowScale(n-1-i)
				if math.Abs(head-tail) > 1e-12 {
					t.Fatalf("%s frac %v: index %d head %.12f tail %.12f", kind, frac, i, head, tail)
				}
				assert.Less(t, head, 1.0+1e-12)
			}
			// Taper rises towards the unwindowed centre.
			assert.Less(t, wf.WindowScale(0), wf.WindowScale(edge-1))
		}
	}
}

func TestTaperedEdgeMagnitudes(t *testing.T) {
	wf := mustNew(t, demoConfig())
	wf.Generate()
	samples := wf.Samples()
	n := len(samples)
	for i := range samples {
		s := samples[i]
		mag := math.Hypot(float64(s.Real), float64(s.Imag))
		assert.InDelta(t, wf.WindowScale(i), mag, 1e-6, "index %d", i)
	}
	first, last := samples[0], samples[n-1]
	assert.InDelta(t,
		math.Hypot(float64(first.Real), float64(first.Imag)),
		math.Hypot(float64(last.Real), float64(last.Imag)), 1e-6)
}

func TestRealSignalHasZeroImag(t *testing.T) {
	cfg := demoConfig()
	cfg.Signal = Real
	cfg.StartPhaseDeg = 33
	wf := mustNew(t, cfg)
	wf.Generate()
	for i, s := range wf.Samples() {
		if s.Imag != 0 {
			t.Fatalf("index %d imag %v", i, s.Imag)
		}
	}
}

func TestGenerateReplacesBuffer(t *testing.T) {
	wf := mustNew(t, demoConfig())
	wf.Generate()
	first := wf.Samples()
	wf.Generate()
	second := wf.Samples()

	require.Len(t, second, wf.TotalSamples())
	assert.Equal(t, first, second)
}

func TestUpdateRecomputesDerivedFields(t *testing.T) {
	wf := mustNew(t, demoConfig())
	wf.Generate()
	require.Len(t, wf.Samples(), 2000)

	cfg := demoConfig()
	cfg.LengthSec = 5e-6
	cfg.UnwindowedFraction = 0.5
	require.NoError(t, wf.Update(cfg))
	assert.Equal(t, 1000, wf.TotalSamples())
	assert.Equal(t, 250, wf.WindowedEdgeSamples())
	assert.Empty(t, wf.Samples())
	assert.Equal(t, cfg, wf.Config())

	wf.Generate()
	assert.Len(t, wf.Samples(), 1000)
}

func TestUpdateRejectsInvalidAndKeepsState(t *testing.T) {
	wf := mustNew(t, demoConfig())
	bad := demoConfig()
	bad.SampleRateHz = 0
	require.ErrorIs(t, wf.Update(bad), ErrInvalidConfig)
	assert.Equal(t, demoConfig(), wf.Config())
	assert.Equal(t, 2000, wf.TotalSamples())
}

func TestPhaseFollowsLinearSweep(t *testing.T) {
	cfg := demoConfig()
	cfg.Window = dsp.WindowNone
	cfg.StartPhaseDeg = 90
	wf := mustNew(t, cfg)
	wf.Generate()
	samples := wf.Samples()

	for _, i := range []int{0, 1, 37, 999, 1999} {
		tm := float64(i) / cfg.SampleRateHz
		phase := math.Pi/2 + tm*cfg.StartFreqHz*2*math.Pi + tm*tm*cfg.Bandwidth()*math.Pi/cfg.LengthSec
		assert.InDelta(t, math.Cos(phase), float64(samples[i].Real), 1e-6, "index %d", i)
		assert.InDelta(t, math.Sin(phase), float64(samples[i].Imag), 1e-6, "index %d", i)
	}
}

func TestConstantToneAndDownChirp(t *testing.T) {
	tone := demoConfig()
	tone.StopFreqHz = tone.StartFreqHz
	wf := mustNew(t, tone)
	assert.Equal(t, 10e6, wf.InstantaneousFreq(0))
	assert.Equal(t, 10e6, wf.InstantaneousFreq(tone.LengthSec))

	down := demoConfig()
	down.StartFreqHz, down.StopFreqHz = 20e6, -5e6
	wf = mustNew(t, down)
	assert.Equal(t, -25e6, down.Bandwidth())
	assert.InDelta(t, 7.5e6, wf.InstantaneousFreq(down.LengthSec/2), 1e-6)
	assert.InDelta(t, -5e6, wf.InstantaneousFreq(down.LengthSec), 1e-6)

	wf.Generate()
	assert.Len(t, wf.Samples(), 2000)
}

func TestEmptyPulse(t *testing.T) {
	cfg := demoConfig()
	cfg.SampleRateHz = 10
	cfg.LengthSec = 0.05
	wf := mustNew(t, cfg)
	wf.Generate()
	assert.Empty(t, wf.Samples())
	assert.Empty(t, wf.Complex64())
}

func TestSamplesReturnsCopy(t *testing.T) {
	wf := mustNew(t, demoConfig())
	wf.Generate()
	samples := wf.Samples()
	orig := samples[5]
	samples[5] = Sample{Real: 42, Imag: 42}
	assert.Equal(t, orig, wf.Samples()[5])
}

func TestComplex64MatchesSamples(t *testing.T) {
	wf := mustNew(t, demoConfig())
	wf.Generate()
	iq := wf.Complex64()
	samples := wf.Samples()
	require.Len(t, iq, len(samples))
	for i, s := range samples {
		assert.Equal(t, s.Real, real(iq[i]))
		assert.Equal(t, s.Imag, imag(iq[i]))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rate", func(c *Config) { c.SampleRateHz = 0 }},
		{"negative rate", func(c *Config) { c.SampleRateHz = -1 }},
		{"nan rate", func(c *Config) { c.SampleRateHz = math.NaN() }},
		{"inf rate", func(c *Config) { c.SampleRateHz = math.Inf(1) }},
		{"zero length", func(c *Config) { c.LengthSec = 0 }},
		{"nan start", func(c *Config) { c.StartFreqHz = math.NaN() }},
		{"inf stop", func(c *Config) { c.StopFreqHz = math.Inf(-1) }},
		{"nan phase", func(c *Config) { c.StartPhaseDeg = float32(math.NaN()) }},
		{"signal kind", func(c *Config) { c.Signal = SignalKind(7) }},
		{"window kind", func(c *Config) { c.Window = dsp.WindowKind(-1) }},
		{"fraction above one", func(c *Config) { c.UnwindowedFraction = 1.01 }},
		{"negative fraction", func(c *Config) { c.UnwindowedFraction = -0.1 }},
		{"nan fraction", func(c *Config) { c.UnwindowedFraction = float32(math.NaN()) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := demoConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParseSignalKind(t *testing.T) {
	k, err := ParseSignalKind("Complex")
	require.NoError(t, err)
	assert.Equal(t, Complex, k)

	k, err = ParseSignalKind(" real ")
	require.NoError(t, err)
	assert.Equal(t, Real, k)

	_, err = ParseSignalKind("quaternion")
	require.ErrorIs(t, err, ErrInvalidConfig)

	var sk SignalKind
	require.NoError(t, sk.UnmarshalText([]byte("iq")))
	assert.Equal(t, Complex, sk)
	text, err := Real.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "real", string(text))
}
