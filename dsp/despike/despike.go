// Package despike clamps transient spikes in a sample sequence.
//
// Extreme samples from motion or contact loss ring badly through an IIR
// bandpass, so the despike pass runs before filtering. Outliers are clamped
// to the mean rather than removed, preserving sequence length and sample
// positions.
package despike

// DefaultThreshold is the default outlier threshold in variance units.
// A sample is flagged when its squared deviation from the mean exceeds
// DefaultThreshold times the population variance, i.e. when its absolute
// z-score exceeds sqrt(DefaultThreshold).
const DefaultThreshold = 3.0

// Suppressor clamps outlier samples to the sequence mean.
type Suppressor struct {
	threshold float64
}

// Option configures a Suppressor.
type Option func(*Suppressor)

// WithThreshold sets the outlier threshold in variance units.
// Non-positive values keep the default.
func WithThreshold(threshold float64) Option {
	return func(s *Suppressor) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// NewSuppressor creates a Suppressor with the given options.
func NewSuppressor(opts ...Option) *Suppressor {
	s := &Suppressor{threshold: DefaultThreshold}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Threshold returns the configured outlier threshold.
func (s *Suppressor) Threshold() float64 { return s.threshold }

// Apply returns a copy of signal with outlier samples replaced by the
// pre-suppression mean. The output always has the same length as the input.
// A constant signal (zero variance) is returned unchanged.
func (s *Suppressor) Apply(signal []float64) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)

	if len(signal) == 0 {
		return out
	}

	mean, variance := MeanVariance(signal)
	if variance == 0 {
		return out
	}

	limit := s.threshold * variance
	for i, x := range out {
		d := x - mean
		if d*d > limit {
			out[i] = mean
		}
	}

	return out
}

// MeanVariance returns the mean and population variance of signal.
func MeanVariance(signal []float64) (mean, variance float64) {
	n := len(signal)
	if n == 0 {
		return 0, 0
	}

	for _, x := range signal {
		mean += x
	}
	mean /= float64(n)

	for _, x := range signal {
		d := x - mean
		variance += d * d
	}
	variance /= float64(n)

	return mean, variance
}
