package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rjboer/chirpgen/internal/config"
	"github.com/rjboer/chirpgen/internal/iq"
	"github.com/rjboer/chirpgen/internal/logging"
	"github.com/rjboer/chirpgen/internal/waveform"
)

type generateOutput struct {
	Waveform     config.WaveformSettings `json:"waveform" yaml:"waveform"`
	TotalSamples int                     `json:"total_samples" yaml:"total_samples"`
	EdgeSamples  int                     `json:"windowed_edge_samples" yaml:"windowed_edge_samples"`
	Samples      []waveform.Sample       `json:"samples" yaml:"samples"`
}

func newGenerateCmd(state *cliState) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a pulse and print its summary and samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, err := state.waveform()
			if err != nil {
				return err
			}
			wf.Generate()
			state.logger.Info("pulse generated",
				logging.F("samples", wf.TotalSamples()),
				logging.F("windowed_edge_samples", wf.WindowedEdgeSamples()),
			)
			return writeGenerated(cmd.OutOrStdout(), wf, state.settings.Waveform, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml, sc16)")
	return cmd
}

func writeGenerated(w io.Writer, wf *waveform.Waveform, settings config.WaveformSettings, format string) error {
	switch strings.ToLower(format) {
	case "text":
		if _, err := fmt.Fprintln(w, wf.String()); err != nil {
			return err
		}
		for _, s := range wf.Samples() {
			if _, err := fmt.Fprintf(w, "%s %s\n", formatSample(s.Real), formatSample(s.Imag)); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newGenerateOutput(wf, settings))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newGenerateOutput(wf, settings)); err != nil {
			return err
		}
		return enc.Close()
	case "sc16":
		return iq.Write(w, wf.Complex64())
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func newGenerateOutput(wf *waveform.Waveform, settings config.WaveformSettings) generateOutput {
	return generateOutput{
		Waveform:     settings,
		TotalSamples: wf.TotalSamples(),
		EdgeSamples:  wf.WindowedEdgeSamples(),
		Samples:      wf.Samples(),
	}
}

// formatSample prints the shortest decimal that round-trips the float32.
func formatSample(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

func newDescribeCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the pulse summary without generating samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, err := state.waveform()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), wf.String())
			return err
		},
	}
}
