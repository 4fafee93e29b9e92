package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rjboer/chirpgen/internal/config"
	"github.com/rjboer/chirpgen/internal/logging"
	"github.com/rjboer/chirpgen/internal/waveform"
)

// cliState is shared by every subcommand of one root command.
type cliState struct {
	v          *viper.Viper
	configFile string
	settings   config.Settings
	logger     logging.Logger
}

func newRootCmd() *cobra.Command {
	state := &cliState{v: config.New()}

	root := &cobra.Command{
		Use:   "chirpgen",
		Short: "Linear FM chirp generator and pulse compression toolkit",
		Long: `chirpgen builds windowed linear FM (chirp) pulses.

Settings come from built-in defaults, an optional --config file (yaml, toml
or json), CHIRPGEN_* environment variables and flags, in rising precedence.
Data goes to stdout; logs go to stderr.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: state.load,
	}

	defaults := config.Defaults()
	pf := root.PersistentFlags()
	pf.StringVar(&state.configFile, "config", "", "config file (yaml, toml or json)")
	pf.String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	pf.String("log-format", defaults.Log.Format, "log format (text, json)")
	addWaveformFlags(pf, defaults.Waveform)

	root.AddCommand(
		newGenerateCmd(state),
		newDescribeCmd(state),
		newPlotCmd(state),
		newCompressCmd(state),
		newConfigCmd(state),
	)
	return root
}

func addWaveformFlags(fs *pflag.FlagSet, d config.WaveformSettings) {
	fs.Float64("sample-rate", d.SampleRateHz, "sample rate in Hz")
	fs.Float64("start-freq", d.StartFreqHz, "sweep start frequency in Hz")
	fs.Float64("stop-freq", d.StopFreqHz, "sweep stop frequency in Hz")
	fs.Float64("length", d.LengthSec, "pulse length in seconds")
	fs.Float64("start-phase", d.StartPhaseDeg, "start phase in degrees")
	fs.String("signal", d.Signal, "signal kind (real, complex)")
	fs.String("window", d.Window, "edge window (none, hanning, hamming, blackman)")
	fs.Float64("unwindowed-fraction", d.UnwindowedFraction, "centred share of the pulse left at full scale, 0..1")
}

func addRadarFlags(fs *pflag.FlagSet, d config.RadarSettings) {
	fs.Int("rx-samples", d.RxSamples, "receive window in samples (0: twice the pulse)")
	fs.Int("pulses", d.Pulses, "number of pulses to transmit")
	fs.Int("warmup-buffers", d.WarmupBuffers, "receive buffers to discard before the first pulse")
	fs.Int("echo-delay", d.EchoDelay, "simulated echo delay in samples")
	fs.Float64("echo-gain", d.EchoGain, "simulated echo amplitude")
	fs.Float64("noise-std", d.NoiseStd, "simulated receiver noise standard deviation")
	fs.Int64("seed", d.Seed, "noise seed")
}

// load resolves settings for the command being executed. Flags are bound
// here so both persistent and local flags of cmd are seen.
func (s *cliState) load(cmd *cobra.Command, _ []string) error {
	if err := config.ReadFile(s.v, s.configFile); err != nil {
		return err
	}
	if err := config.BindFlags(s.v, cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	settings, err := config.Load(s.v)
	if err != nil {
		return err
	}
	logger, err := settings.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	s.settings = settings
	s.logger = logger.With(logging.F("cmd", cmd.Name()))
	logging.SetDefault(logger)
	if s.v.ConfigFileUsed() != "" {
		s.logger.Debug("using config file", logging.F("path", s.v.ConfigFileUsed()))
	}
	return nil
}

// waveform builds an ungenerated pulse from the loaded settings.
func (s *cliState) waveform() (*waveform.Waveform, error) {
	cfg, err := s.settings.WaveformConfig()
	if err != nil {
		return nil, err
	}
	return waveform.New(cfg)
}
