// Package spectrum computes magnitude spectra for diagnostic frequency
// inspection of physiological signals.
//
// Two entry points are exposed on purpose: Magnitudes zero-pads to the next
// power of two and runs a radix-2 FFT (O(n log n)); MagnitudesDirect
// evaluates the DFT at the native length (O(n^2)). The direct path exists
// for callers that cannot tolerate the frequency-axis change zero-padding
// introduces; it is not meant for large inputs.
package spectrum

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
)

// ErrNotPowerOfTwo is returned by FFT for lengths the radix-2 algorithm
// cannot handle.
var ErrNotPowerOfTwo = errors.New("spectrum: length is not a power of two")

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// FFT computes the complex spectrum of a real signal whose length is a
// power of two, using recursive radix-2 decimation in time.
func FFT(signal []float64) ([]complex128, error) {
	if !IsPowerOfTwo(len(signal)) {
		return nil, ErrNotPowerOfTwo
	}

	in := make([]complex128, len(signal))
	for i, x := range signal {
		in[i] = complex(x, 0)
	}

	return fftRecursive(in), nil
}

func fftRecursive(in []complex128) []complex128 {
	n := len(in)
	if n <= 1 {
		return in
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = in[2*i]
		odd[i] = in[2*i+1]
	}

	even = fftRecursive(even)
	odd = fftRecursive(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		t := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n))) * odd[k]
		out[k] = even[k] + t
		out[k+n/2] = even[k] - t
	}

	return out
}

// DFT computes the complex spectrum of a real signal of any length by
// direct O(n^2) summation.
func DFT(signal []float64) []complex128 {
	n := len(signal)
	out := make([]complex128, n)

	for k := 0; k < n; k++ {
		var re, im float64
		for i, x := range signal {
			angle := -2 * math.Pi * float64(k) * float64(i) / float64(n)
			re += x * math.Cos(angle)
			im += x * math.Sin(angle)
		}
		out[k] = complex(re, im)
	}

	return out
}

// Magnitudes returns the Nyquist-folded magnitude spectrum of signal via
// the radix-2 path, zero-padding to the next power of two when needed.
// Bin k holds sqrt(re^2+im^2)/N where N is the padded length; the output
// has N/2 bins.
func Magnitudes(signal []float64) []float64 {
	if len(signal) == 0 {
		return nil
	}

	n := NextPowerOfTwo(len(signal))
	padded := make([]float64, n)
	copy(padded, signal)

	bins, err := FFT(padded)
	if err != nil {
		// Unreachable: the input was just padded to a power of two.
		return nil
	}

	return foldMagnitudes(bins)
}

// MagnitudesDirect returns the Nyquist-folded magnitude spectrum at the
// signal's native length via the direct O(n^2) path.
func MagnitudesDirect(signal []float64) []float64 {
	if len(signal) == 0 {
		return nil
	}

	return foldMagnitudes(DFT(signal))
}

// foldMagnitudes converts a full complex spectrum into len/2 scaled
// magnitudes using the SIMD magnitude kernel.
func foldMagnitudes(bins []complex128) []float64 {
	half := len(bins) / 2
	if half == 0 {
		half = 1
	}

	re := make([]float64, half)
	im := make([]float64, half)
	for i := 0; i < half; i++ {
		re[i] = real(bins[i])
		im[i] = imag(bins[i])
	}

	out := make([]float64, half)
	vecmath.Magnitude(out, re, im)

	scale := 1 / float64(len(bins))
	for i := range out {
		out[i] *= scale
	}

	return out
}
