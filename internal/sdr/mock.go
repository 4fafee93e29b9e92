package sdr

import (
	"context"
	"math/rand"
	"sync"
)

// MockSDR loops the last transmitted pulse back into the receive window after a
// fixed delay, with gain and Gaussian noise.
type MockSDR struct {
	mu    sync.RWMutex
	cfg   Config
	ready bool
	pulse []complex64
	rng   *rand.Rand
}

func NewMock() *MockSDR { return &MockSDR{} }

func (m *MockSDR) Init(_ context.Context, cfg Config) error {
	if cfg.NumSamples == 0 {
		cfg.NumSamples = 4096
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 200e6
	}
	if cfg.EchoGain == 0 {
		cfg.EchoGain = 1
	}
	m.mu.Lock()
	m.cfg = cfg
	m.rng = rand.New(rand.NewSource(cfg.Seed))
	m.pulse = nil
	m.ready = true
	m.mu.Unlock()
	return nil
}

func (m *MockSDR) Close() error {
	m.mu.Lock()
	m.ready = false
	m.mu.Unlock()
	return nil
}

// TX stores a copy of the pulse for the next RX call.
func (m *MockSDR) TX(ctx context.Context, iq []complex64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return ErrNotInitialized
	}
	m.pulse = append(m.pulse[:0], iq...)
	return nil
}

// SetEchoDelay moves the simulated target to a new delay in samples.
func (m *MockSDR) SetEchoDelay(samples int) {
	m.mu.Lock()
	m.cfg.EchoDelay = samples
	m.mu.Unlock()
}

// EchoDelay returns the current simulated delay in samples.
func (m *MockSDR) EchoDelay() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.EchoDelay
}

// RX returns one receive window. The echo is truncated if it runs past the end.
func (m *MockSDR) RX(ctx context.Context) ([]complex64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return nil, ErrNotInitialized
	}
	cfg := m.cfg
	out := make([]complex64, cfg.NumSamples)
	gain := complex64(complex(cfg.EchoGain, 0))
	for i, v := range m.pulse {
		j := cfg.EchoDelay + i
		if j < 0 {
			continue
		}
		if j >= len(out) {
			break
		}
		out[j] = v * gain
	}
	if cfg.NoiseStd > 0 {
		for i := range out {
			noiseI := m.rng.NormFloat64() * cfg.NoiseStd
			noiseQ := m.rng.NormFloat64() * cfg.NoiseStd
			out[i] += complex64(complex(noiseI, noiseQ))
		}
	}
	return out, nil
}
