package waveform

import "errors"

// ErrInvalidConfig indicates a waveform configuration that cannot describe a pulse.
var ErrInvalidConfig = errors.New("waveform: invalid config")
