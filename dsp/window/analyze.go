package window

import "errors"

var errEmptyCoeffs = errors.New("window: coefficients must not be empty")

// CoherentGain returns sum(w[n]) / N, the DC response of the window.
// Dividing a windowed spectrum by it restores the amplitude of a
// coherent tone.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs)), nil
}

// EquivalentNoiseBandwidth returns the ENBW of the window in bins.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	sumSq := 0.0
	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}
	if sum == 0 {
		return 0, errors.New("window: coherent gain is zero")
	}

	return float64(len(coeffs)) * sumSq / (sum * sum), nil
}
