// Package iir implements direct-form IIR filtering over explicit
// feedforward/feedback coefficient vectors.
//
// Unlike a cascade of second-order sections, a Filter here evaluates the
// full-order recurrence directly:
//
//	y[n] = (b[0]*x[n] + b[1]*x[n-1] + ... + b[N]*x[n-N]
//	        - a[1]*y[n-1] - ... - a[N]*y[n-N]) / a[0]
//
// Each Filter owns its own delay lines. Missing history at the start of a
// sequence is treated as zero, so two fresh instances with identical
// coefficients always produce identical output for identical input.
package iir

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidCoefficients = errors.New("iir: invalid coefficients")

// Coefficients holds the transfer-function coefficients of a single
// direct-form filter. B is the feedforward (numerator) vector, A the
// feedback (denominator) vector. Both have length order+1 and A[0] must be
// non-zero; it normalizes the recurrence.
type Coefficients struct {
	B []float64
	A []float64
}

// Order returns the filter order (len(A)-1).
func (c Coefficients) Order() int {
	if len(c.A) == 0 {
		return 0
	}
	return len(c.A) - 1
}

// Validate checks structural soundness: equal non-empty vector lengths,
// finite values, and a non-zero A[0].
func (c Coefficients) Validate() error {
	if len(c.B) == 0 || len(c.B) != len(c.A) {
		return fmt.Errorf("%w: b/a length mismatch: %d != %d", ErrInvalidCoefficients, len(c.B), len(c.A))
	}

	if c.A[0] == 0 {
		return fmt.Errorf("%w: a[0] must be non-zero", ErrInvalidCoefficients)
	}

	for i := range c.B {
		if !isFinite(c.B[i]) || !isFinite(c.A[i]) {
			return fmt.Errorf("%w: non-finite coefficient at index %d", ErrInvalidCoefficients, i)
		}
	}

	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Filter applies a coefficient pair to a sample stream. The zero value is
// not usable; create instances with NewFilter.
type Filter struct {
	coeffs Coefficients

	// Delay lines, most recent first: xh[0] = x[n-1], yh[0] = y[n-1].
	xh []float64
	yh []float64
}

// NewFilter creates a Filter with zeroed delay lines. The coefficient
// slices are copied, so callers may reuse or mutate theirs afterwards.
func NewFilter(c Coefficients) (*Filter, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	order := c.Order()
	cc := Coefficients{
		B: append([]float64(nil), c.B...),
		A: append([]float64(nil), c.A...),
	}

	return &Filter{
		coeffs: cc,
		xh:     make([]float64, order),
		yh:     make([]float64, order),
	}, nil
}

// Coefficients returns a copy of the filter's coefficient pair.
func (f *Filter) Coefficients() Coefficients {
	return Coefficients{
		B: append([]float64(nil), f.coeffs.B...),
		A: append([]float64(nil), f.coeffs.A...),
	}
}

// Order returns the filter order.
func (f *Filter) Order() int { return f.coeffs.Order() }

// ProcessSample filters one input sample and returns the output, advancing
// the delay lines.
func (f *Filter) ProcessSample(x float64) float64 {
	b, a := f.coeffs.B, f.coeffs.A
	order := len(b) - 1

	acc := b[0] * x
	for j := 1; j <= order; j++ {
		acc += b[j] * f.xh[j-1]
		acc -= a[j] * f.yh[j-1]
	}
	y := acc / a[0]

	for j := order - 1; j > 0; j-- {
		f.xh[j] = f.xh[j-1]
		f.yh[j] = f.yh[j-1]
	}
	if order > 0 {
		f.xh[0] = x
		f.yh[0] = y
	}

	return y
}

// Process filters a full sequence and returns a new slice of equal length.
func (f *Filter) Process(signal []float64) []float64 {
	out := make([]float64, len(signal))
	for i, x := range signal {
		out[i] = f.ProcessSample(x)
	}
	return out
}

// Reset clears the delay lines to the zero initial condition.
func (f *Filter) Reset() {
	for i := range f.xh {
		f.xh[i] = 0
		f.yh[i] = 0
	}
}
