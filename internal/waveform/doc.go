// Package waveform generates linear frequency modulated (chirp) pulses.
//
// A pulse sweeps from StartFreqHz to StopFreqHz over LengthSec seconds with a
// quadratic phase, so the instantaneous frequency moves linearly across the
// band. The outer edges of the pulse can be tapered with one of the dsp window
// kinds; UnwindowedFraction sets how much of the centre stays at full scale.
//
//	wf, err := waveform.New(waveform.Config{
//		SampleRateHz:       200e6,
//		StartFreqHz:        10e6,
//		StopFreqHz:         20e6,
//		LengthSec:          1e-5,
//		Signal:             waveform.Complex,
//		Window:             dsp.WindowHanning,
//		UnwindowedFraction: 0.8,
//	})
//	if err != nil {
//		return err
//	}
//	wf.Generate()
//	for _, s := range wf.Samples() {
//		fmt.Println(s.Real, s.Imag)
//	}
package waveform
