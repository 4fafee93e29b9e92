package dsp

import "errors"

var (
	// ErrUnknownWindow indicates a window name or value outside the supported set.
	ErrUnknownWindow = errors.New("dsp: unknown window kind")
	// ErrEmptyReference indicates a matched filter was given no reference pulse.
	ErrEmptyReference = errors.New("dsp: reference pulse is empty")
	// ErrEmptyInput indicates a matched filter was given no received samples.
	ErrEmptyInput = errors.New("dsp: received samples are empty")
)
