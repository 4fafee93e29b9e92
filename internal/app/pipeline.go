package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rjboer/chirpgen/internal/dsp"
	"github.com/rjboer/chirpgen/internal/logging"
	"github.com/rjboer/chirpgen/internal/sdr"
	"github.com/rjboer/chirpgen/internal/telemetry"
	"github.com/rjboer/chirpgen/internal/waveform"
)

const speedOfLight = 3e8

var errNotInitialized = errors.New("pipeline not initialized")

// Config captures application level configuration.
type Config struct {
	Waveform waveform.Config
	// RxSamples is the receive window length; zero means twice the pulse length.
	RxSamples int
	// Pulses is the number of transmit/receive cycles performed by Run.
	Pulses        int
	WarmupBuffers int
	// GuardSamples is the half-width excluded around the peak when measuring
	// sidelobes; zero derives it from the sweep bandwidth.
	GuardSamples int
	EchoDelay    int
	EchoGain     float64
	NoiseStd     float64
	Seed         int64
}

// Detection is the outcome of compressing one received pulse.
type Detection struct {
	Pulse        int
	DelaySamples int
	RangeMeters  float64
	// PeakDB is the compressed peak relative to a full-strength echo.
	PeakDB float64
	PSLRDB float64
}

// Pipeline wires the chirp generator into a radio loop and compresses each echo.
type Pipeline struct {
	sdr        sdr.SDR
	reporter   telemetry.Reporter
	logger     logging.Logger
	cfg        Config
	wf         *waveform.Waveform
	ref        []complex64
	refEnergy  float64
	compressor *dsp.CachedCompressor
	detections []Detection
}

func NewPipeline(backend sdr.SDR, reporter telemetry.Reporter, logger logging.Logger, cfg Config) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		sdr:      backend,
		reporter: reporter,
		logger:   logger.With(logging.F("subsystem", "pipeline")),
		cfg:      cfg,
	}
}

// Init generates the reference pulse, configures the radio and prepares the
// matched filter.
func (p *Pipeline) Init(ctx context.Context) error {
	wf, err := waveform.New(p.cfg.Waveform)
	if err != nil {
		return fmt.Errorf("build waveform: %w", err)
	}
	wf.Generate()
	ref := wf.Complex64()
	if len(ref) == 0 {
		return fmt.Errorf("build waveform: %w: pulse has no samples", waveform.ErrInvalidConfig)
	}

	if p.cfg.RxSamples == 0 {
		p.cfg.RxSamples = 2 * len(ref)
	}
	if p.cfg.Pulses == 0 {
		p.cfg.Pulses = 1
	}
	if p.cfg.GuardSamples == 0 {
		p.cfg.GuardSamples = mainlobeGuard(p.cfg.Waveform, len(ref))
	}

	compressor, err := dsp.NewCachedCompressor(ref, p.cfg.RxSamples)
	if err != nil {
		return fmt.Errorf("prepare matched filter: %w", err)
	}
	if err := p.sdr.Init(ctx, sdr.Config{
		SampleRate: p.cfg.Waveform.SampleRateHz,
		NumSamples: p.cfg.RxSamples,
		EchoDelay:  p.cfg.EchoDelay,
		EchoGain:   p.cfg.EchoGain,
		NoiseStd:   p.cfg.NoiseStd,
		Seed:       p.cfg.Seed,
	}); err != nil {
		return fmt.Errorf("init SDR: %w", err)
	}

	p.wf = wf
	p.ref = ref
	p.refEnergy = energy(ref)
	p.compressor = compressor
	p.detections = nil

	if p.reporter != nil {
		cfg := wf.Config()
		p.reporter.ReportWaveform(telemetry.WaveformSummary{
			SampleRateHz: cfg.SampleRateHz,
			BandwidthHz:  cfg.Bandwidth(),
			LengthSec:    cfg.LengthSec,
			TotalSamples: wf.TotalSamples(),
			EdgeSamples:  wf.WindowedEdgeSamples(),
			Signal:       cfg.Signal.String(),
			Window:       cfg.Window.String(),
		})
	}
	p.logger.Debug("pipeline initialized",
		logging.F("pulse_samples", len(ref)),
		logging.F("rx_samples", p.cfg.RxSamples),
		logging.F("guard_samples", p.cfg.GuardSamples),
	)
	return nil
}

// Run transmits Pulses pulses, compressing and reporting each echo.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.compressor == nil {
		return errNotInitialized
	}
	if err := p.warmup(ctx); err != nil {
		return fmt.Errorf("warmup: %w", err)
	}
	for pulse := 0; pulse < p.cfg.Pulses; pulse++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := time.Now()
		if err := p.sdr.TX(ctx, p.ref); err != nil {
			return fmt.Errorf("transmit pulse %d: %w", pulse, err)
		}
		rx, err := p.sdr.RX(ctx)
		if err != nil {
			return fmt.Errorf("receive pulse %d: %w", pulse, err)
		}
		if len(rx) == 0 {
			p.logger.Warn("received empty buffer", logging.F("pulse", pulse))
			continue
		}
		compressed, err := p.compressor.Compress(rx)
		if err != nil {
			return fmt.Errorf("compress pulse %d: %w", pulse, err)
		}

		det := p.detect(pulse, compressed)
		p.detections = append(p.detections, det)
		if p.reporter != nil {
			p.reporter.ReportCompression(telemetry.CompressionSample{
				Timestamp:    time.Now(),
				Pulse:        det.Pulse,
				DelaySamples: det.DelaySamples,
				RangeMeters:  det.RangeMeters,
				PeakDB:       det.PeakDB,
				PSLRDB:       det.PSLRDB,
			})
		}
		p.logger.Debug("pulse complete",
			logging.F("pulse", pulse),
			logging.F("elapsed_ms", time.Since(start).Seconds()*1000),
		)
	}
	return nil
}

// Close releases the radio backend.
func (p *Pipeline) Close() error {
	return p.sdr.Close()
}

// Detections returns a copy of every detection made so far.
func (p *Pipeline) Detections() []Detection {
	out := make([]Detection, len(p.detections))
	copy(out, p.detections)
	return out
}

// Reference returns a copy of the transmitted pulse.
func (p *Pipeline) Reference() []complex64 {
	return append([]complex64(nil), p.ref...)
}

// Waveform returns the generator behind the reference pulse, or nil before Init.
func (p *Pipeline) Waveform() *waveform.Waveform {
	return p.wf
}

func (p *Pipeline) detect(pulse int, compressed []complex128) Detection {
	peak, mag := dsp.PeakIndex(compressed)
	det := Detection{
		Pulse:        pulse,
		DelaySamples: peak,
		RangeMeters:  DelayToRange(peak, p.cfg.Waveform.SampleRateHz),
		PeakDB:       math.Inf(-1),
		PSLRDB:       dsp.PeakToSidelobeDB(compressed, peak, p.cfg.GuardSamples),
	}
	if mag > 0 && p.refEnergy > 0 {
		det.PeakDB = 20 * math.Log10(mag/p.refEnergy)
	}
	return det
}

func (p *Pipeline) warmup(ctx context.Context) error {
	for i := 0; i < p.cfg.WarmupBuffers; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := p.sdr.RX(ctx); err != nil {
			return fmt.Errorf("warmup RX buffer %d: %w", i, err)
		}
	}
	return nil
}

// DelayToRange converts a two-way echo delay in samples to a one-way range in meters.
func DelayToRange(delaySamples int, sampleRate float64) float64 {
	if sampleRate == 0 {
		return 0
	}
	return float64(delaySamples) / sampleRate * speedOfLight / 2
}

// mainlobeGuard covers the compressed mainlobe, roughly two nulls of fs/|bw|
// samples each side. A constant tone does not compress, so its whole pulse is guarded.
func mainlobeGuard(cfg waveform.Config, pulseLen int) int {
	bw := math.Abs(cfg.Bandwidth())
	if bw == 0 {
		return pulseLen
	}
	guard := int(math.Ceil(2 * cfg.SampleRateHz / bw))
	if guard < 1 {
		guard = 1
	}
	return guard
}

func energy(iq []complex64) float64 {
	sum := 0.0
	for _, v := range iq {
		re, im := float64(real(v)), float64(imag(v))
		sum += re*re + im*im
	}
	return sum
}
