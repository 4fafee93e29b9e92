package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rjboer/chirpgen/internal/dsp"
	"github.com/rjboer/chirpgen/internal/plot"
	"github.com/rjboer/chirpgen/internal/waveform"
)

type plotOptions struct {
	spectrum  bool
	autocorr  bool
	fftWindow string
	width     int
	height    int
	color     bool
}

func newPlotCmd(state *cliState) *cobra.Command {
	var opts plotOptions
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Draw the pulse, or its spectrum, as a text plot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, err := state.waveform()
			if err != nil {
				return err
			}
			wf.Generate()

			var title string
			var series []plot.Series
			switch {
			case opts.spectrum:
				kind, err := dsp.ParseWindowKind(opts.fftWindow)
				if err != nil {
					return err
				}
				title, series = spectrumSeries(wf, kind)
			case opts.autocorr:
				if title, series, err = autocorrelationSeries(wf); err != nil {
					return err
				}
			default:
				title, series = timeSeries(wf)
			}
			return plot.Render(cmd.OutOrStdout(), series, plot.Options{
				Title:  title,
				Width:  opts.width,
				Height: opts.height,
				Color:  opts.color,
			})
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.spectrum, "spectrum", false, "plot the magnitude spectrum in dBFS instead of I/Q")
	f.BoolVar(&opts.autocorr, "autocorrelation", false, "plot the compressed pulse in dB against lag")
	f.StringVar(&opts.fftWindow, "fft-window", "none", "window applied before the FFT")
	f.IntVar(&opts.width, "width", 0, "plot columns (0: fit the terminal)")
	f.IntVar(&opts.height, "height", 0, "plot rows (0: default)")
	f.BoolVar(&opts.color, "color", false, "force ANSI colors")
	cmd.MarkFlagsMutuallyExclusive("spectrum", "autocorrelation")
	return cmd
}

func timeSeries(wf *waveform.Waveform) (string, []plot.Series) {
	samples := wf.Samples()
	re := make([]float64, len(samples))
	im := make([]float64, len(samples))
	for i, s := range samples {
		re[i], im[i] = float64(s.Real), float64(s.Imag)
	}
	cfg := wf.Config()
	title := fmt.Sprintf("%s chirp, %d samples over %g s", cfg.Signal, len(samples), cfg.LengthSec)
	series := []plot.Series{{Name: "I", Values: re}}
	if cfg.Signal == waveform.Complex {
		series = append(series, plot.Series{Name: "Q", Values: im})
	}
	return title, series
}

func spectrumSeries(wf *waveform.Waveform, kind dsp.WindowKind) (string, []plot.Series) {
	_, db := dsp.Spectrum(wf.Complex64(), kind)
	n := len(db)
	fs := wf.Config().SampleRateHz
	title := fmt.Sprintf("spectrum (dBFS, %s window), %g Hz .. %g Hz",
		kind, dsp.BinFrequency(0, n, fs), dsp.BinFrequency(n-1, n, fs))
	return title, []plot.Series{{Name: "|X(f)|", Values: db}}
}

// autocorrelationSeries matched-filters the pulse against itself. Lag 0 is
// the mainlobe peak, so the curve shows how fast the sidelobes fall away.
func autocorrelationSeries(wf *waveform.Waveform) (string, []plot.Series, error) {
	ref := wf.Complex64()
	compressed, err := dsp.MatchedFilter(ref, ref)
	if err != nil {
		return "", nil, err
	}
	_, peak := dsp.PeakIndex(compressed)
	title := fmt.Sprintf("autocorrelation (dB), lags 0 .. %d", len(compressed)-1)
	return title, []plot.Series{{Name: "|R(k)|", Values: dsp.MagnitudeDB(compressed, peak)}}, nil
}
