package waveform

import (
	"fmt"
	"strconv"
	"strings"
)

// Describe renders the fixed-field summary of a configuration and its derived counts.
func Describe(cfg Config, totalSamples, edgeSamples int) string {
	var b strings.Builder
	b.WriteString("Waveform:\n")
	fmt.Fprintf(&b, "  Sample Rate Hz:  %s\n", formatFloat(cfg.SampleRateHz, 64))
	fmt.Fprintf(&b, "  Start Freq Hz:   %s\n", formatFloat(cfg.StartFreqHz, 64))
	fmt.Fprintf(&b, "  Stop Freq Hz:    %s\n", formatFloat(cfg.StopFreqHz, 64))
	fmt.Fprintf(&b, "  Length Seconds:  %s\n", formatFloat(cfg.LengthSec, 64))
	fmt.Fprintf(&b, "  Total Samples:   %d\n", totalSamples)
	fmt.Fprintf(&b, "  Start Phase Deg: %s\n", formatFloat(float64(cfg.StartPhaseDeg), 32))
	fmt.Fprintf(&b, "  Complex Type:    %s\n", cfg.Signal)
	fmt.Fprintf(&b, "  Windowing:       %s\n", cfg.Window)
	fmt.Fprintf(&b, "  Windowed Samples:%d\n", edgeSamples)
	fmt.Fprintf(&b, "  Unwindowed Pct:  %s\n", formatFloat(float64(cfg.UnwindowedFraction), 32))
	return b.String()
}

func formatFloat(v float64, bits int) string {
	return strconv.FormatFloat(v, 'f', -1, bits)
}
