// Package design derives IIR bandpass coefficients for the pulse band.
//
// The designer implements a textbook digital Butterworth bandpass: analog
// prototype poles, lowpass-to-bandpass transformation, bilinear transform
// with frequency prewarping, and unity-gain normalization at the geometric
// center of the passband. Supported orders are 2, 4 and 6; anything else
// fails fast with ErrUnsupportedOrder rather than degrading silently.
package design

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-ppg/dsp/filter/iir"
)

var (
	// ErrInvalidSpecification is returned for cutoffs that are out of
	// range or misordered relative to the sample rate.
	ErrInvalidSpecification = errors.New("design: invalid filter specification")

	// ErrUnsupportedOrder is returned for orders outside {2, 4, 6}.
	ErrUnsupportedOrder = errors.New("design: unsupported filter order")
)

// Spec describes a bandpass filter request.
type Spec struct {
	LowCutoff  float64
	HighCutoff float64
	SampleRate float64
	Order      int
}

// Validate checks the spec against the constraints
// 0 < low < high < sampleRate/2 and order in {2, 4, 6}.
func (s Spec) Validate() error {
	if s.SampleRate <= 0 || math.IsNaN(s.SampleRate) || math.IsInf(s.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate must be > 0: %v", ErrInvalidSpecification, s.SampleRate)
	}

	nyquist := s.SampleRate / 2
	if !(s.LowCutoff > 0) || math.IsNaN(s.LowCutoff) {
		return fmt.Errorf("%w: low cutoff must be > 0: %v", ErrInvalidSpecification, s.LowCutoff)
	}

	if s.HighCutoff >= nyquist || math.IsNaN(s.HighCutoff) {
		return fmt.Errorf("%w: high cutoff must be below Nyquist (%v): %v", ErrInvalidSpecification, nyquist, s.HighCutoff)
	}

	if s.LowCutoff >= s.HighCutoff {
		return fmt.Errorf("%w: low cutoff must be below high cutoff: %v >= %v", ErrInvalidSpecification, s.LowCutoff, s.HighCutoff)
	}

	switch s.Order {
	case 2, 4, 6:
	default:
		return fmt.Errorf("%w: %d (supported: 2, 4, 6)", ErrUnsupportedOrder, s.Order)
	}

	return nil
}

// ButterworthBandpass designs bandpass coefficients for the given spec.
// The result is a pure function of the four inputs: identical inputs yield
// bit-identical coefficients. A[0] is always 1.
func ButterworthBandpass(lowCutoff, highCutoff, sampleRate float64, order int) (iir.Coefficients, error) {
	spec := Spec{
		LowCutoff:  lowCutoff,
		HighCutoff: highCutoff,
		SampleRate: sampleRate,
		Order:      order,
	}
	if err := spec.Validate(); err != nil {
		return iir.Coefficients{}, err
	}

	n := order / 2 // analog prototype order
	fs2 := 2 * sampleRate

	// Prewarped band edges in rad/s.
	w1 := fs2 * math.Tan(math.Pi*lowCutoff/sampleRate)
	w2 := fs2 * math.Tan(math.Pi*highCutoff/sampleRate)
	w0sq := w1 * w2
	bw := w2 - w1

	// Butterworth prototype poles on the left half of the unit circle.
	// Lowpass-to-bandpass maps each prototype pole p to the two roots of
	// s^2 - bw*p*s + w0^2 = 0.
	poles := make([]complex128, 0, order)
	for k := 0; k < n; k++ {
		theta := math.Pi * float64(2*k+n+1) / float64(2*n)
		p := cmplx.Rect(1, theta)

		h := complex(bw/2, 0) * p
		d := cmplx.Sqrt(h*h - complex(w0sq, 0))
		poles = append(poles, h+d, h-d)
	}

	// Bilinear transform. The n analog zeros at s=0 map to z=1 and the n
	// zeros at infinity map to z=-1.
	k := complex(fs2, 0)
	zPoles := make([]complex128, len(poles))
	for i, s := range poles {
		zPoles[i] = (k + s) / (k - s)
	}

	zZeros := make([]complex128, 0, order)
	for i := 0; i < n; i++ {
		zZeros = append(zZeros, 1, -1)
	}

	b := realParts(polyFromRoots(zZeros))
	a := realParts(polyFromRoots(zPoles))

	// Unity gain at the geometric center of the requested band.
	center := math.Sqrt(lowCutoff * highCutoff)
	gain := cmplx.Abs(response(b, a, 2*math.Pi*center/sampleRate))
	if gain == 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
		return iir.Coefficients{}, fmt.Errorf("%w: degenerate passband gain %v", ErrInvalidSpecification, gain)
	}

	for i := range b {
		b[i] /= gain
	}

	coeffs := iir.Coefficients{B: b, A: a}
	if err := coeffs.Validate(); err != nil {
		return iir.Coefficients{}, err
	}

	return coeffs, nil
}

// polyFromRoots expands prod(1 - r*z^-1) into z^-1 polynomial coefficients.
// The leading coefficient is always 1.
func polyFromRoots(roots []complex128) []complex128 {
	poly := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(poly)+1)
		for i, c := range poly {
			next[i] += c
			next[i+1] -= c * r
		}
		poly = next
	}
	return poly
}

// realParts drops the residual imaginary parts left over from expanding
// conjugate root pairs in complex arithmetic.
func realParts(poly []complex128) []float64 {
	out := make([]float64, len(poly))
	for i, c := range poly {
		out[i] = real(c)
	}
	return out
}

// response evaluates H(e^jw) = B(e^-jw) / A(e^-jw).
func response(b, a []float64, w float64) complex128 {
	var num, den complex128
	for i := range b {
		e := cmplx.Exp(complex(0, -w*float64(i)))
		num += complex(b[i], 0) * e
		den += complex(a[i], 0) * e
	}
	if den == 0 {
		return complex(math.Inf(1), 0)
	}
	return num / den
}

// Response returns the complex frequency response of a coefficient pair at
// normalized angular frequency w (rad/sample). Useful for verifying a
// design empirically.
func Response(c iir.Coefficients, w float64) complex128 {
	return response(c.B, c.A, w)
}
