package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjboer/chirpgen/internal/dsp"
	"github.com/rjboer/chirpgen/internal/waveform"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultsYieldDemoPulse(t *testing.T) {
	s, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)

	cfg, err := s.WaveformConfig()
	require.NoError(t, err)
	assert.Equal(t, waveform.Config{
		SampleRateHz:       200e6,
		StartFreqHz:        10e6,
		StopFreqHz:         20e6,
		LengthSec:          1e-5,
		Signal:             waveform.Complex,
		Window:             dsp.WindowHanning,
		UnwindowedFraction: 0.8,
	}, cfg)
}

func TestReadFileYAML(t *testing.T) {
	path := writeFile(t, "chirp.yaml", `
waveform:
  sample_rate_hz: 1e6
  window: blackman
  signal: real
radar:
  pulses: 3
log:
  format: json
`)
	v := New()
	require.NoError(t, ReadFile(v, path))
	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 1e6, s.Waveform.SampleRateHz)
	assert.Equal(t, "blackman", s.Waveform.Window)
	assert.Equal(t, "real", s.Waveform.Signal)
	assert.Equal(t, 3, s.Radar.Pulses)
	assert.Equal(t, "json", s.Log.Format)
	// untouched keys keep their defaults
	assert.Equal(t, 10e6, s.Waveform.StartFreqHz)
	assert.Equal(t, 700, s.Radar.EchoDelay)
}

func TestReadFileTOML(t *testing.T) {
	path := writeFile(t, "chirp.toml", `
[waveform]
stop_freq_hz = 30000000.0
unwindowed_fraction = 0.5

[radar]
echo_delay = 123
`)
	v := New()
	require.NoError(t, ReadFile(v, path))
	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 30e6, s.Waveform.StopFreqHz)
	assert.InDelta(t, 0.5, s.Waveform.UnwindowedFraction, 1e-12)
	assert.Equal(t, 123, s.Radar.EchoDelay)
}

func TestReadFileErrors(t *testing.T) {
	require.NoError(t, ReadFile(New(), ""))
	err := ReadFile(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "chirp.json", `{"radar": {"seed": 5}, "waveform": {"window": "hamming"}}`)
	t.Setenv("CHIRPGEN_RADAR_SEED", "9")

	v := New()
	require.NoError(t, ReadFile(v, path))
	s, err := Load(v)
	require.NoError(t, err)
	assert.EqualValues(t, 9, s.Radar.Seed)
	assert.Equal(t, "hamming", s.Waveform.Window)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("CHIRPGEN_WAVEFORM_LENGTH_SEC", "2e-5")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Float64("length", 1e-5, "")
	fs.String("window", "hanning", "")
	fs.Int("pulses", 1, "")
	fs.Bool("unrelated", false, "")
	require.NoError(t, fs.Parse([]string{"--length=5e-6", "--pulses=4"}))

	v := New()
	require.NoError(t, BindFlags(v, fs))
	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 5e-6, s.Waveform.LengthSec)
	assert.Equal(t, 4, s.Radar.Pulses)
	assert.Equal(t, "hanning", s.Waveform.Window)
}

func TestUnchangedFlagLeavesEnvironment(t *testing.T) {
	t.Setenv("CHIRPGEN_WAVEFORM_LENGTH_SEC", "2e-5")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Float64("length", 1e-5, "")
	require.NoError(t, fs.Parse(nil))

	v := New()
	require.NoError(t, BindFlags(v, fs))
	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 2e-5, s.Waveform.LengthSec)
}

func TestBindAllReportsEveryFailure(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("pulses", 1, "")

	err := bindAll(New(), []flagBinding{
		{name: "length", key: "waveform.length_sec"},
		{name: "pulses", key: "radar.pulses", flag: fs.Lookup("pulses")},
		{name: "seed", key: "radar.seed"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bind --length")
	assert.Contains(t, err.Error(), "bind --seed")
	assert.NotContains(t, err.Error(), "bind --pulses")
}

func TestValidateRejectsBadSections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"window", func(s *Settings) { s.Waveform.Window = "kaiser" }},
		{"signal", func(s *Settings) { s.Waveform.Signal = "quad" }},
		{"rate", func(s *Settings) { s.Waveform.SampleRateHz = 0 }},
		{"fraction", func(s *Settings) { s.Waveform.UnwindowedFraction = 2 }},
		{"rx samples", func(s *Settings) { s.Radar.RxSamples = -1 }},
		{"pulses", func(s *Settings) { s.Radar.Pulses = -1 }},
		{"warmup", func(s *Settings) { s.Radar.WarmupBuffers = -2 }},
		{"noise", func(s *Settings) { s.Radar.NoiseStd = -0.1 }},
		{"log level", func(s *Settings) { s.Log.Level = "loud" }},
		{"log format", func(s *Settings) { s.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			require.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestLoadRejectsInvalidEnvironment(t *testing.T) {
	t.Setenv("CHIRPGEN_WAVEFORM_WINDOW", "triangle")
	_, err := Load(New())
	require.ErrorIs(t, err, ErrInvalidSettings)
}

func TestEncodeRoundTrips(t *testing.T) {
	want := Defaults()
	want.Waveform.Window = "blackman"
	want.Radar.Pulses = 8

	for _, format := range []string{"yaml", "toml", "json"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, want, format))

			path := writeFile(t, "settings."+format, buf.String())
			v := New()
			require.NoError(t, ReadFile(v, path))
			got, err := Load(v)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Defaults(), "toml"))
	assert.Contains(t, buf.String(), "[waveform]")
	assert.Contains(t, buf.String(), `window = "hanning"`)

	buf.Reset()
	require.NoError(t, Encode(&buf, Defaults(), "YAML"))
	assert.Contains(t, buf.String(), "waveform:\n  sample_rate_hz:")

	require.Error(t, Encode(&buf, Defaults(), "ini"))
}

func TestSettingsLogger(t *testing.T) {
	s := Defaults()
	s.Log.Format = "json"
	var buf bytes.Buffer
	log, err := s.Logger(&buf)
	require.NoError(t, err)
	log.Info("ready")
	assert.Contains(t, buf.String(), `"msg":"ready"`)

	s.Log.Level = "chatty"
	_, err = s.Logger(&buf)
	require.Error(t, err)
}
