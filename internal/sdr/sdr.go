package sdr

import (
	"context"
	"errors"
)

// ErrNotInitialized indicates RX or TX was called before Init.
var ErrNotInitialized = errors.New("sdr: backend not initialized")

// Config carries parameters required to initialize a radio backend.
type Config struct {
	SampleRate float64
	// NumSamples is the length of each receive window.
	NumSamples int
	// EchoDelay is the loopback delay in samples between TX and RX (mock only).
	EchoDelay int
	// EchoGain scales the looped-back pulse (mock only).
	EchoGain float64
	// NoiseStd is the per-component standard deviation of added Gaussian noise (mock only).
	NoiseStd float64
	// Seed makes the mock noise reproducible.
	Seed int64
}

// SDR captures the minimal radio operations required by the pulse pipeline.
type SDR interface {
	Init(ctx context.Context, cfg Config) error
	TX(ctx context.Context, iq []complex64) error
	RX(ctx context.Context) ([]complex64, error)
	Close() error
}
