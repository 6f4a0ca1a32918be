// Package rate estimates pulse rate from a cleaned quasi-periodic
// segment, either spectrally or by counting rising zero crossings.
package rate

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ppg/dsp/core"
	"github.com/cwbudde/algo-ppg/dsp/spectrum"
)

// Plausible pulse band in Hz (30 to 240 beats per minute).
const (
	DefaultLowHz  = 0.5
	DefaultHighHz = 4.0
)

// ErrNoCrossings is returned when a segment never crosses its mean and
// no period can be measured.
var ErrNoCrossings = errors.New("rate: no rising crossings in segment")

// Estimator derives beats-per-minute figures from cleaned segments.
type Estimator struct {
	cfg      core.ProcessorConfig
	analyzer *spectrum.Analyzer
	lowHz    float64
	highHz   float64
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithBand replaces the search band in Hz.
func WithBand(lowHz, highHz float64) Option {
	return func(e *Estimator) {
		e.lowHz = lowHz
		e.highHz = highHz
	}
}

// NewEstimator creates an Estimator. The sample rate defaults to 30 Hz
// and can be overridden with core.WithSampleRate.
func NewEstimator(coreOpts []core.ProcessorOption, opts ...Option) *Estimator {
	e := &Estimator{
		cfg:      core.ApplyProcessorOptions(coreOpts...),
		analyzer: spectrum.NewAnalyzer(coreOpts...),
		lowHz:    DefaultLowHz,
		highHz:   DefaultHighHz,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// FromSpectrum returns the pulse rate in BPM at the strongest spectral
// peak inside the search band.
func (e *Estimator) FromSpectrum(signal []float64) (float64, error) {
	f, err := e.analyzer.DominantFrequency(signal, e.lowHz, e.highHz)
	if err != nil {
		return 0, err
	}
	return f * 60, nil
}

// FromCrossings returns the pulse rate in BPM from the count of rising
// mean crossings over the segment duration. It is cheaper than the
// spectral estimate but needs a well-cleaned segment.
func (e *Estimator) FromCrossings(signal []float64) (float64, error) {
	if len(signal) < 2 {
		return 0, fmt.Errorf("rate: segment too short: %d samples", len(signal))
	}

	n := RisingCrossings(signal)
	if n == 0 {
		return 0, ErrNoCrossings
	}

	duration := float64(len(signal)) / e.cfg.SampleRate
	return float64(n) / duration * 60, nil
}

// RisingCrossings counts upward crossings of the segment mean.
func RisingCrossings(signal []float64) int {
	if len(signal) < 2 {
		return 0
	}

	mean := 0.0
	for _, v := range signal {
		mean += v
	}
	mean /= float64(len(signal))

	count := 0
	for i := 1; i < len(signal); i++ {
		if signal[i-1] < mean && signal[i] >= mean {
			count++
		}
	}
	return count
}
