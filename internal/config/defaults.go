package config

import "github.com/spf13/viper"

// Defaults returns the demo pulse: a 10 us complex 10-20 MHz sweep at
// 200 MS/s with Hanning edges on the outer 20 %.
func Defaults() Settings {
	return Settings{
		Waveform: WaveformSettings{
			SampleRateHz:       200e6,
			StartFreqHz:        10e6,
			StopFreqHz:         20e6,
			LengthSec:          1e-5,
			StartPhaseDeg:      0,
			Signal:             "complex",
			Window:             "hanning",
			UnwindowedFraction: 0.8,
		},
		Radar: RadarSettings{
			RxSamples:     0,
			Pulses:        1,
			WarmupBuffers: 0,
			EchoDelay:     700,
			EchoGain:      0.5,
			NoiseStd:      0.01,
			Seed:          1,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("waveform.sample_rate_hz", d.Waveform.SampleRateHz)
	v.SetDefault("waveform.start_freq_hz", d.Waveform.StartFreqHz)
	v.SetDefault("waveform.stop_freq_hz", d.Waveform.StopFreqHz)
	v.SetDefault("waveform.length_sec", d.Waveform.LengthSec)
	v.SetDefault("waveform.start_phase_deg", d.Waveform.StartPhaseDeg)
	v.SetDefault("waveform.signal", d.Waveform.Signal)
	v.SetDefault("waveform.window", d.Waveform.Window)
	v.SetDefault("waveform.unwindowed_fraction", d.Waveform.UnwindowedFraction)

	v.SetDefault("radar.rx_samples", d.Radar.RxSamples)
	v.SetDefault("radar.pulses", d.Radar.Pulses)
	v.SetDefault("radar.warmup_buffers", d.Radar.WarmupBuffers)
	v.SetDefault("radar.echo_delay", d.Radar.EchoDelay)
	v.SetDefault("radar.echo_gain", d.Radar.EchoGain)
	v.SetDefault("radar.noise_std", d.Radar.NoiseStd)
	v.SetDefault("radar.seed", d.Radar.Seed)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
