package telemetry

import "sync"

const defaultHistoryLimit = 500

// Recorder keeps the most recent telemetry in memory.
type Recorder struct {
	mu           sync.RWMutex
	waveform     *WaveformSummary
	history      []CompressionSample
	historyLimit int
}

// NewRecorder builds a recorder that keeps at most historyLimit compression samples.
func NewRecorder(historyLimit int) *Recorder {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Recorder{historyLimit: historyLimit}
}

func (r *Recorder) ReportWaveform(s WaveformSummary) {
	r.mu.Lock()
	r.waveform = &s
	r.mu.Unlock()
}

func (r *Recorder) ReportCompression(s CompressionSample) {
	r.mu.Lock()
	r.history = append(r.history, s)
	if len(r.history) > r.historyLimit {
		r.history = r.history[len(r.history)-r.historyLimit:]
	}
	r.mu.Unlock()
}

// Waveform returns the last reported pulse summary.
func (r *Recorder) Waveform() (WaveformSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.waveform == nil {
		return WaveformSummary{}, false
	}
	return *r.waveform, true
}

// History returns a copy of stored compression samples.
func (r *Recorder) History() []CompressionSample {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CompressionSample, len(r.history))
	copy(out, r.history)
	return out
}
