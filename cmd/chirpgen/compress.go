package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rjboer/chirpgen/internal/app"
	"github.com/rjboer/chirpgen/internal/config"
	"github.com/rjboer/chirpgen/internal/logging"
	"github.com/rjboer/chirpgen/internal/sdr"
	"github.com/rjboer/chirpgen/internal/telemetry"
)

type detectionRow struct {
	Pulse        int      `json:"pulse" yaml:"pulse"`
	DelaySamples int      `json:"delay_samples" yaml:"delay_samples"`
	RangeMeters  float64  `json:"range_m" yaml:"range_m"`
	PeakDB       *float64 `json:"peak_db,omitempty" yaml:"peak_db,omitempty"`
	PSLRDB       *float64 `json:"pslr_db,omitempty" yaml:"pslr_db,omitempty"`
}

type compressOutput struct {
	Waveform   telemetry.WaveformSummary `json:"waveform" yaml:"waveform"`
	Detections []detectionRow            `json:"detections" yaml:"detections"`
}

func newCompressCmd(state *cliState) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Transmit pulses through the simulated radio and matched-filter the echoes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := pipelineConfig(state.settings)
			if err != nil {
				return err
			}
			recorder := telemetry.NewRecorder(cfg.Pulses)
			reporter := telemetry.MultiReporter{
				telemetry.NewStdoutReporter(state.logger),
				recorder,
			}

			p := app.NewPipeline(sdr.NewMock(), reporter, state.logger, cfg)
			defer func() {
				if err := p.Close(); err != nil {
					state.logger.Warn("close radio", logging.F("error", err))
				}
			}()
			ctx := cmd.Context()
			if err := p.Init(ctx); err != nil {
				return err
			}
			if err := p.Run(ctx); err != nil {
				return err
			}

			summary, _ := recorder.Waveform()
			out := compressOutput{Waveform: summary}
			for _, s := range recorder.History() {
				out.Detections = append(out.Detections, detectionRow{
					Pulse:        s.Pulse,
					DelaySamples: s.DelaySamples,
					RangeMeters:  s.RangeMeters,
					PeakDB:       finite(s.PeakDB),
					PSLRDB:       finite(s.PSLRDB),
				})
			}
			return writeCompressed(cmd.OutOrStdout(), out, format)
		},
	}
	addRadarFlags(cmd.Flags(), config.Defaults().Radar)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml)")
	return cmd
}

func pipelineConfig(s config.Settings) (app.Config, error) {
	wf, err := s.WaveformConfig()
	if err != nil {
		return app.Config{}, err
	}
	return app.Config{
		Waveform:      wf,
		RxSamples:     s.Radar.RxSamples,
		Pulses:        max(s.Radar.Pulses, 1),
		WarmupBuffers: s.Radar.WarmupBuffers,
		EchoDelay:     s.Radar.EchoDelay,
		EchoGain:      s.Radar.EchoGain,
		NoiseStd:      s.Radar.NoiseStd,
		Seed:          s.Radar.Seed,
	}, nil
}

func writeCompressed(w io.Writer, out compressOutput, format string) error {
	switch strings.ToLower(format) {
	case "text":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PULSE\tDELAY\tRANGE_M\tPEAK_DB\tPSLR_DB")
		for _, d := range out.Detections {
			fmt.Fprintf(tw, "%d\t%d\t%.2f\t%s\t%s\n", d.Pulse, d.DelaySamples, d.RangeMeters, dbText(d.PeakDB), dbText(d.PSLRDB))
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// finite returns nil for values json cannot carry.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func dbText(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
