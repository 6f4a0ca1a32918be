package quality

import "github.com/cwbudde/algo-ppg/dsp/core"

// Signals bundles the views of one segment that the metrics read from.
// Cleaned and Detrended must have equal length. Raw is the unprocessed
// acquisition trace; when nil, Detrended stands in for it.
type Signals struct {
	// Cleaned is the filtered, despiked signal.
	Cleaned []float64

	// Detrended is the drift-free reference the cleaned signal came from.
	Detrended []float64

	// Raw is the original trace as acquired, baseline drift included.
	Raw []float64
}

// Assessor computes the full Metrics bundle for one segment under a fixed
// configuration. It holds no per-call state; one Assessor may score any
// number of segments.
type Assessor struct {
	thresholds   Thresholds
	clipMethod   ClippingMethod
	motionMethod MotionMethod
	clipOnRaw    bool
}

// Option configures an Assessor.
type Option func(*Assessor)

// WithThresholds replaces the acceptance limits.
func WithThresholds(t Thresholds) Option {
	return func(a *Assessor) { a.thresholds = t }
}

// WithClippingMethod selects the clipping heuristic.
func WithClippingMethod(m ClippingMethod) Option {
	return func(a *Assessor) { a.clipMethod = m }
}

// WithMotionMethod selects the motion-artifact heuristic.
func WithMotionMethod(m MotionMethod) Option {
	return func(a *Assessor) { a.motionMethod = m }
}

// WithClippingOnCleaned computes the clipping percentage on the cleaned
// signal instead of the raw trace. Clipping is an acquisition artifact,
// so the raw trace is the default source; some call sites score the
// cleaned signal instead.
func WithClippingOnCleaned() Option {
	return func(a *Assessor) { a.clipOnRaw = false }
}

// NewAssessor creates an Assessor with default thresholds, the near-max
// clipping heuristic, and the first-difference standard-deviation motion
// heuristic.
func NewAssessor(opts ...Option) *Assessor {
	a := &Assessor{
		thresholds: DefaultThresholds(),
		clipOnRaw:  true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Thresholds returns the configured acceptance limits.
func (a *Assessor) Thresholds() Thresholds { return a.thresholds }

// Assess scores one segment. SNR compares the cleaned signal against the
// detrended reference, motion is scored on the detrended signal (filtering
// smooths exactly the jumps the score is after), and clipping reads the
// configured source. All numeric metrics are rounded to one decimal place,
// and the validity verdict is taken over the rounded values so the report
// is self-consistent.
func (a *Assessor) Assess(s Signals) Metrics {
	clipSource := s.Cleaned
	if a.clipOnRaw {
		clipSource = s.Raw
		if clipSource == nil {
			clipSource = s.Detrended
		}
	}

	snr := core.Round1(SNR(s.Cleaned, s.Detrended))
	clip := core.Round1(ClippingPercentage(clipSource, a.clipMethod))
	motion := core.Round1(MotionArtifactScore(s.Detrended, a.motionMethod))

	return Metrics{
		SNR:                 snr,
		ClippingPercentage:  clip,
		MotionArtifactScore: motion,
		ValidSegment:        a.thresholds.Valid(clip, motion, snr),
	}
}
