// Package detrend removes slow linear baseline drift from sampled signals.
//
// Camera-based PPG traces ride on a wandering DC level caused by
// illumination changes and sensor warm-up. Removing the fitted line before
// bandpass filtering keeps the filter transient small and the quality
// metrics meaningful.
package detrend

import "errors"

// ErrDegenerateFit is returned when the least-squares system is singular.
// With natural 0..n-1 sample indices this cannot happen for n >= 2; the
// guard exists so a zero denominator is reported instead of dividing by it.
var ErrDegenerateFit = errors.New("detrend: degenerate least-squares fit")

// FitLine fits y = slope*i + intercept over sample index i using the
// closed-form normal equations.
func FitLine(signal []float64) (slope, intercept float64, err error) {
	n := float64(len(signal))
	if len(signal) < 2 {
		return 0, 0, ErrDegenerateFit
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range signal {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0, ErrDegenerateFit
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	return slope, intercept, nil
}

// Linear returns the residual of signal after subtracting its fitted line.
//
// For fewer than two samples no slope is well-defined and a copy of the
// input is returned unchanged.
func Linear(signal []float64) ([]float64, error) {
	out := make([]float64, len(signal))
	copy(out, signal)

	if len(signal) < 2 {
		return out, nil
	}

	slope, intercept, err := FitLine(signal)
	if err != nil {
		return nil, err
	}

	for i := range out {
		out[i] -= slope*float64(i) + intercept
	}

	return out, nil
}
