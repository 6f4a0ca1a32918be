// Package pipeline chains the processing stages for one segment of a
// quasi-periodic physiological signal: linear detrending, statistical
// outlier suppression, a double Butterworth bandpass pass, quality
// assessment, and range normalization.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ppg/dsp/despike"
	"github.com/cwbudde/algo-ppg/dsp/detrend"
	"github.com/cwbudde/algo-ppg/dsp/filter/design"
	"github.com/cwbudde/algo-ppg/dsp/filter/iir"
	"github.com/cwbudde/algo-ppg/dsp/spectrum"
	"github.com/cwbudde/algo-ppg/stats/quality"
)

// ErrEmptySignal is returned when a segment holds no samples.
var ErrEmptySignal = errors.New("pipeline: empty signal")

// StageError reports which stage of the pipeline failed. The zero stages
// never partially succeed; a StageError means no result was produced.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("signal processing failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Result holds the outcome of one full pipeline run.
type Result struct {
	// Raw echoes the input segment.
	Raw []float64

	// Bandpass is the signal after both filter passes, before the final
	// outlier pass and normalization.
	Bandpass []float64

	// Cleaned is the fully processed signal, normalized to the configured
	// output range.
	Cleaned []float64

	// Metrics is the quality verdict for the segment.
	Metrics quality.Metrics
}

// Processor runs the full chain with a fixed despike threshold, output
// range, and quality configuration. The bandpass design (corner
// frequencies, sample rate, order) varies per call, so segments from
// different sources can share one Processor.
type Processor struct {
	despikeThreshold float64
	normLow          float64
	normHigh         float64
	assessor         *quality.Assessor
}

// Option configures a Processor.
type Option func(*Processor)

// WithDespikeThreshold replaces the outlier threshold used by both
// suppression passes.
func WithDespikeThreshold(threshold float64) Option {
	return func(p *Processor) { p.despikeThreshold = threshold }
}

// WithNormalizationRange replaces the output range of the cleaned signal.
func WithNormalizationRange(low, high float64) Option {
	return func(p *Processor) {
		p.normLow = low
		p.normHigh = high
	}
}

// WithAssessor replaces the quality assessor.
func WithAssessor(a *quality.Assessor) Option {
	return func(p *Processor) { p.assessor = a }
}

// NewProcessor creates a Processor with the default despike threshold,
// an output range of [0, 255], and a default quality assessor.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		despikeThreshold: despike.DefaultThreshold,
		normLow:          0,
		normHigh:         255,
		assessor:         quality.NewAssessor(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Process runs the full chain over one segment: detrend, despike, two
// bandpass passes, despike the filtered result, assess quality, and
// normalize into the configured output range. The second filter pass
// runs over the reversed sequence, so the cascade doubles the rolloff
// while cancelling the phase distortion of the first pass.
func (p *Processor) Process(raw []float64, sampleRate, lowCutoff, highCutoff float64, order int) (*Result, error) {
	if len(raw) == 0 {
		return nil, stageErr("input", ErrEmptySignal)
	}

	detrended, err := detrend.Linear(raw)
	if err != nil {
		return nil, stageErr("detrend", err)
	}

	sup := despike.NewSuppressor(despike.WithThreshold(p.despikeThreshold))
	despiked := sup.Apply(detrended)

	coeffs, err := design.ButterworthBandpass(lowCutoff, highCutoff, sampleRate, order)
	if err != nil {
		return nil, stageErr("filter design", err)
	}

	bandpassed, err := p.bandpassTwice(despiked, coeffs)
	if err != nil {
		return nil, stageErr("bandpass", err)
	}

	cleaned := sup.Apply(bandpassed)

	metrics := p.assessor.Assess(quality.Signals{
		Cleaned:   cleaned,
		Detrended: detrended,
		Raw:       raw,
	})

	result := &Result{
		Raw:      append([]float64(nil), raw...),
		Bandpass: bandpassed,
		Cleaned:  normalizeRange(cleaned, p.normLow, p.normHigh),
		Metrics:  metrics,
	}

	return result, nil
}

// Spectrum returns the folded magnitude spectrum of a segment, zero-padded
// to the next power of two. It is the pure analysis entry point; nothing
// from the processing chain runs here.
func (p *Processor) Spectrum(signal []float64) []float64 {
	return spectrum.Magnitudes(signal)
}

// bandpassTwice applies the design forward and then backward over the
// reversed signal. Odd reflection padding at both ends keeps the filter
// startup transients out of the segment itself.
func (p *Processor) bandpassTwice(signal []float64, coeffs iir.Coefficients) ([]float64, error) {
	pad := 3 * len(coeffs.A)
	if pad > len(signal)-1 {
		pad = len(signal) - 1
	}
	ext := reflectPad(signal, pad)

	forward, err := iir.NewFilter(coeffs)
	if err != nil {
		return nil, err
	}
	out := forward.Process(ext)

	reverse(out)
	backward, err := iir.NewFilter(coeffs)
	if err != nil {
		return nil, err
	}
	out = backward.Process(out)
	reverse(out)

	return out[pad : pad+len(signal)], nil
}

// reflectPad extends the signal by pad samples at each end using odd
// reflection about the end points, so the extension continues the local
// slope instead of introducing a step.
func reflectPad(signal []float64, pad int) []float64 {
	n := len(signal)
	out := make([]float64, pad+n+pad)
	copy(out[pad:], signal)
	for i := 1; i <= pad; i++ {
		out[pad-i] = 2*signal[0] - signal[i]
		out[pad+n-1+i] = 2*signal[n-1] - signal[n-1-i]
	}
	return out
}

func reverse(signal []float64) {
	for i, j := 0, len(signal)-1; i < j; i, j = i+1, j-1 {
		signal[i], signal[j] = signal[j], signal[i]
	}
}

// normalizeRange maps the signal linearly into [low, high]. The observed
// range is floored at 1 so near-constant segments stay near the bottom of
// the output range instead of exploding.
func normalizeRange(signal []float64, low, high float64) []float64 {
	if len(signal) == 0 {
		return []float64{}
	}

	minVal, maxVal := signal[0], signal[0]
	for _, v := range signal[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	span := maxVal - minVal
	if span < 1 {
		span = 1
	}

	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = low + (v-minVal)/span*(high-low)
	}
	return out
}
