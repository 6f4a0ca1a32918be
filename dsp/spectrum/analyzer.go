package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-ppg/dsp/core"
	"github.com/cwbudde/algo-ppg/dsp/window"
)

// Analyzer produces windowed magnitude spectra with a calibrated frequency
// axis. It is the diagnostic companion to the raw transforms: Hann
// windowing suppresses leakage from the finite segment, and the sample
// rate maps bins to Hz so callers can read off pulse-band peaks directly.
type Analyzer struct {
	cfg core.ProcessorConfig
}

// NewAnalyzer creates an Analyzer. The sample rate defaults to 30 Hz and
// can be overridden with core.WithSampleRate.
func NewAnalyzer(opts ...core.ProcessorOption) *Analyzer {
	return &Analyzer{cfg: core.ApplyProcessorOptions(opts...)}
}

// SampleRate returns the configured sample rate in Hz.
func (a *Analyzer) SampleRate() float64 { return a.cfg.SampleRate }

// MagnitudeSpectrum returns the Hann-windowed magnitude spectrum of signal
// and the width of one frequency bin in Hz. The signal is zero-padded to
// the next power of two.
func (a *Analyzer) MagnitudeSpectrum(signal []float64) (mags []float64, binHz float64, err error) {
	if len(signal) < 2 {
		return nil, 0, fmt.Errorf("spectrum analyzer needs at least 2 samples: %d", len(signal))
	}

	n := NextPowerOfTwo(len(signal))

	coeffs := window.Generate(window.TypeHann, len(signal))
	windowed := make([]float64, len(signal))
	if err := window.ApplyTo(windowed, signal, coeffs); err != nil {
		return nil, 0, err
	}

	in := make([]complex128, n)
	for i, x := range windowed {
		in[i] = complex(x, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, 0, fmt.Errorf("spectrum analyzer fft plan: %w", err)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, 0, fmt.Errorf("spectrum analyzer fft: %w", err)
	}

	return foldMagnitudes(out), a.cfg.SampleRate / float64(n), nil
}

// DominantFrequency returns the frequency in Hz of the strongest spectral
// bin within [lowHz, highHz]. For a cleaned PPG segment searched over the
// pulse band this is the heart-rate fundamental.
func (a *Analyzer) DominantFrequency(signal []float64, lowHz, highHz float64) (float64, error) {
	if lowHz < 0 || highHz <= lowHz {
		return 0, fmt.Errorf("spectrum analyzer invalid search band [%v, %v]", lowHz, highHz)
	}

	mags, binHz, err := a.MagnitudeSpectrum(signal)
	if err != nil {
		return 0, err
	}

	bestBin := -1
	bestMag := math.Inf(-1)
	for k, m := range mags {
		f := float64(k) * binHz
		if f < lowHz || f > highHz {
			continue
		}
		if m > bestMag {
			bestMag = m
			bestBin = k
		}
	}

	if bestBin < 0 {
		return 0, fmt.Errorf("spectrum analyzer search band [%v, %v] contains no bins at %v Hz resolution", lowHz, highHz, binHz)
	}

	return float64(bestBin) * binHz, nil
}
