// Package window generates taper functions for spectral analysis of
// short physiological segments. The set is deliberately small: the
// windows that matter for resolving a pulse peak against leakage from
// baseline wander.
package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeTukey
)

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	periodic bool
}

func defaultConfig() config {
	return config{alpha: 0.5}
}

// WithAlpha sets the taper fraction for the Tukey window. Values outside
// [0, 1] are ignored.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 && v <= 1 {
			c.alpha = v
		}
	}
}

// WithPeriodic selects the periodic (FFT framing) form instead of the
// symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		x := samplePosition(i, length, cfg.periodic)
		out[i] = eval(t, x, cfg)
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// ApplyTo writes samples multiplied by coeffs into out. All three slices
// must have the same length.
func ApplyTo(out, samples, coeffs []float64) error {
	if len(samples) != len(coeffs) || len(out) != len(samples) {
		return fmt.Errorf("window: mismatched lengths %d/%d/%d", len(out), len(samples), len(coeffs))
	}

	vecmath.MulBlock(out, samples, coeffs)
	return nil
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// Hamming returns Hamming window coefficients.
func Hamming(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHamming, size, opts...), validateLength(size)
}

// Blackman returns Blackman window coefficients.
func Blackman(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeBlackman, size, opts...), validateLength(size)
}

// Tukey returns Tukey window coefficients with the given taper fraction.
func Tukey(size int, alpha float64, opts ...Option) ([]float64, error) {
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("window: tukey alpha must be in [0,1]: %f", alpha)
	}

	return Generate(TypeTukey, size, append(opts, WithAlpha(alpha))...), validateLength(size)
}

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window: size must be > 0: %d", size)
	}
	return nil
}

// samplePosition maps a sample index into [0, 1]. The symmetric form
// places the last sample at 1; the periodic form stops one step short so
// consecutive frames tile seamlessly.
func samplePosition(i, length int, periodic bool) float64 {
	if periodic {
		return float64(i) / float64(length)
	}
	if length == 1 {
		return 0.5
	}
	return float64(i) / float64(length-1)
}

func eval(t Type, x float64, cfg config) float64 {
	switch t {
	case TypeHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case TypeHamming:
		return 0.54 - 0.46*math.Cos(2*math.Pi*x)
	case TypeBlackman:
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	case TypeTukey:
		return tukey(x, cfg.alpha)
	default:
		return 1
	}
}

func tukey(x, alpha float64) float64 {
	if alpha == 0 {
		return 1
	}
	half := alpha / 2
	switch {
	case x < half:
		return 0.5 * (1 + math.Cos(math.Pi*(x/half-1)))
	case x > 1-half:
		return 0.5 * (1 + math.Cos(math.Pi*((x-1)/half+1)))
	default:
		return 1
	}
}
