package telemetry

import (
	"math"
	"time"

	"github.com/rjboer/chirpgen/internal/logging"
)

// WaveformSummary describes a generated reference pulse.
type WaveformSummary struct {
	SampleRateHz float64 `json:"sampleRateHz" yaml:"sampleRateHz"`
	BandwidthHz  float64 `json:"bandwidthHz" yaml:"bandwidthHz"`
	LengthSec    float64 `json:"lengthSec" yaml:"lengthSec"`
	TotalSamples int     `json:"totalSamples" yaml:"totalSamples"`
	EdgeSamples  int     `json:"edgeSamples" yaml:"edgeSamples"`
	Signal       string  `json:"signal" yaml:"signal"`
	Window       string  `json:"window" yaml:"window"`
}

// CompressionSample captures the outcome of compressing one received pulse.
type CompressionSample struct {
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	Pulse        int       `json:"pulse" yaml:"pulse"`
	DelaySamples int       `json:"delaySamples" yaml:"delaySamples"`
	RangeMeters  float64   `json:"rangeMeters" yaml:"rangeMeters"`
	PeakDB       float64   `json:"peakDb" yaml:"peakDb"`
	PSLRDB       float64   `json:"pslrDb" yaml:"pslrDb"`
}

// Reporter captures telemetry events.
type Reporter interface {
	ReportWaveform(summary WaveformSummary)
	ReportCompression(sample CompressionSample)
}

// StdoutReporter writes telemetry through the structured logger.
type StdoutReporter struct {
	logger logging.Logger
}

// NewStdoutReporter builds a reporter with the provided logger.
func NewStdoutReporter(logger logging.Logger) StdoutReporter {
	if logger == nil {
		logger = logging.Default()
	}
	return StdoutReporter{logger: logger}
}

func (r StdoutReporter) ReportWaveform(s WaveformSummary) {
	r.logger.Info("reference pulse",
		logging.F("subsystem", "telemetry"),
		logging.F("sample_rate_hz", s.SampleRateHz),
		logging.F("bandwidth_hz", s.BandwidthHz),
		logging.F("length_sec", s.LengthSec),
		logging.F("total_samples", s.TotalSamples),
		logging.F("edge_samples", s.EdgeSamples),
		logging.F("signal", s.Signal),
		logging.F("window", s.Window),
	)
}

func (r StdoutReporter) ReportCompression(s CompressionSample) {
	fields := []logging.Field{
		{Key: "subsystem", Value: "telemetry"},
		{Key: "pulse", Value: s.Pulse},
		{Key: "delay_samples", Value: s.DelaySamples},
		{Key: "range_m", Value: s.RangeMeters},
		{Key: "peak_db", Value: s.PeakDB},
	}
	// NaN means the peak index was unusable.
	if !math.IsNaN(s.PSLRDB) {
		fields = append(fields, logging.Field{Key: "pslr_db", Value: s.PSLRDB})
	}
	r.logger.Info("compressed pulse", fields...)
}

// MultiReporter fans out telemetry to multiple destinations.
type MultiReporter []Reporter

func (m MultiReporter) ReportWaveform(s WaveformSummary) {
	for _, r := range m {
		if r != nil {
			r.ReportWaveform(s)
		}
	}
}

func (m MultiReporter) ReportCompression(s CompressionSample) {
	for _, r := range m {
		if r != nil {
			r.ReportCompression(s)
		}
	}
}
