// Package config loads chirpgen settings from defaults, an optional config
// file, CHIRPGEN_* environment variables and command line flags, in rising
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rjboer/chirpgen/internal/dsp"
	"github.com/rjboer/chirpgen/internal/logging"
	"github.com/rjboer/chirpgen/internal/waveform"
)

// EnvPrefix is prepended to every environment override, e.g. CHIRPGEN_WAVEFORM_SAMPLE_RATE_HZ.
const EnvPrefix = "CHIRPGEN"

// ErrInvalidSettings indicates settings that failed validation.
var ErrInvalidSettings = errors.New("config: invalid settings")

// Settings represents the application configuration.
type Settings struct {
	Waveform WaveformSettings `mapstructure:"waveform" yaml:"waveform" toml:"waveform" json:"waveform"`
	Radar    RadarSettings    `mapstructure:"radar" yaml:"radar" toml:"radar" json:"radar"`
	Log      LogSettings      `mapstructure:"log" yaml:"log" toml:"log" json:"log"`
}

// WaveformSettings mirrors waveform.Config with text enums.
type WaveformSettings struct {
	SampleRateHz       float64 `mapstructure:"sample_rate_hz" yaml:"sample_rate_hz" toml:"sample_rate_hz" json:"sample_rate_hz"`
	StartFreqHz        float64 `mapstructure:"start_freq_hz" yaml:"start_freq_hz" toml:"start_freq_hz" json:"start_freq_hz"`
	StopFreqHz         float64 `mapstructure:"stop_freq_hz" yaml:"stop_freq_hz" toml:"stop_freq_hz" json:"stop_freq_hz"`
	LengthSec          float64 `mapstructure:"length_sec" yaml:"length_sec" toml:"length_sec" json:"length_sec"`
	StartPhaseDeg      float64 `mapstructure:"start_phase_deg" yaml:"start_phase_deg" toml:"start_phase_deg" json:"start_phase_deg"`
	Signal             string  `mapstructure:"signal" yaml:"signal" toml:"signal" json:"signal"`
	Window             string  `mapstructure:"window" yaml:"window" toml:"window" json:"window"`
	UnwindowedFraction float64 `mapstructure:"unwindowed_fraction" yaml:"unwindowed_fraction" toml:"unwindowed_fraction" json:"unwindowed_fraction"`
}

// RadarSettings drives the pulse compression loop against the mock radio.
type RadarSettings struct {
	RxSamples     int     `mapstructure:"rx_samples" yaml:"rx_samples" toml:"rx_samples" json:"rx_samples"`
	Pulses        int     `mapstructure:"pulses" yaml:"pulses" toml:"pulses" json:"pulses"`
	WarmupBuffers int     `mapstructure:"warmup_buffers" yaml:"warmup_buffers" toml:"warmup_buffers" json:"warmup_buffers"`
	EchoDelay     int     `mapstructure:"echo_delay" yaml:"echo_delay" toml:"echo_delay" json:"echo_delay"`
	EchoGain      float64 `mapstructure:"echo_gain" yaml:"echo_gain" toml:"echo_gain" json:"echo_gain"`
	NoiseStd      float64 `mapstructure:"noise_std" yaml:"noise_std" toml:"noise_std" json:"noise_std"`
	Seed          int64   `mapstructure:"seed" yaml:"seed" toml:"seed" json:"seed"`
}

// LogSettings selects the logger level and encoding.
type LogSettings struct {
	Level  string `mapstructure:"level" yaml:"level" toml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" toml:"format" json:"format"`
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"sample-rate":         "waveform.sample_rate_hz",
	"start-freq":          "waveform.start_freq_hz",
	"stop-freq":           "waveform.stop_freq_hz",
	"length":              "waveform.length_sec",
	"start-phase":         "waveform.start_phase_deg",
	"signal":              "waveform.signal",
	"window":              "waveform.window",
	"unwindowed-fraction": "waveform.unwindowed_fraction",
	"rx-samples":          "radar.rx_samples",
	"pulses":              "radar.pulses",
	"warmup-buffers":      "radar.warmup_buffers",
	"echo-delay":          "radar.echo_delay",
	"echo-gain":           "radar.echo_gain",
	"noise-std":           "radar.noise_std",
	"seed":                "radar.seed",
	"log-level":           "log.level",
	"log-format":          "log.format",
}

// New returns a viper instance carrying defaults and environment lookups.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a yaml, toml or json config file into v. The format follows
// the file extension. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// BindFlags binds every known flag present in fs to its configuration key.
// Every failed binding is reported.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindings []flagBinding
	fs.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			bindings = append(bindings, flagBinding{name: f.Name, key: key, flag: f})
		}
	})
	return bindAll(v, bindings)
}

type flagBinding struct {
	name string
	key  string
	flag *pflag.Flag
}

func bindAll(v *viper.Viper, bindings []flagBinding) error {
	var errs []error
	for _, b := range bindings {
		if err := v.BindPFlag(b.key, b.flag); err != nil {
			errs = append(errs, fmt.Errorf("bind --%s: %w", b.name, err))
		}
	}
	return errors.Join(errs...)
}

// Load decodes and validates the effective settings.
func Load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks every section.
func (s Settings) Validate() error {
	if _, err := s.WaveformConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if s.Radar.RxSamples < 0 {
		return fmt.Errorf("%w: rx_samples cannot be negative", ErrInvalidSettings)
	}
	if s.Radar.Pulses < 0 {
		return fmt.Errorf("%w: pulses cannot be negative", ErrInvalidSettings)
	}
	if s.Radar.WarmupBuffers < 0 {
		return fmt.Errorf("%w: warmup_buffers cannot be negative", ErrInvalidSettings)
	}
	if s.Radar.NoiseStd < 0 {
		return fmt.Errorf("%w: noise_std cannot be negative", ErrInvalidSettings)
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if _, err := logging.ParseFormat(s.Log.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

// WaveformConfig converts the waveform section into a generator config.
func (s Settings) WaveformConfig() (waveform.Config, error) {
	w := s.Waveform
	signal, err := waveform.ParseSignalKind(w.Signal)
	if err != nil {
		return waveform.Config{}, err
	}
	window, err := dsp.ParseWindowKind(w.Window)
	if err != nil {
		return waveform.Config{}, err
	}
	cfg := waveform.Config{
		SampleRateHz:       w.SampleRateHz,
		StartFreqHz:        w.StartFreqHz,
		StopFreqHz:         w.StopFreqHz,
		LengthSec:          w.LengthSec,
		StartPhaseDeg:      float32(w.StartPhaseDeg),
		Signal:             signal,
		Window:             window,
		UnwindowedFraction: float32(w.UnwindowedFraction),
	}
	if err := cfg.Validate(); err != nil {
		return waveform.Config{}, err
	}
	return cfg, nil
}

// Logger builds a logger from the log section.
func (s Settings) Logger(out io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(s.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(s.Log.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format, out), nil
}
