// Package quality scores PPG segments for downstream use.
//
// The metrics answer one question: is this segment clean enough to trust a
// pulse-rate estimate from it? Signal-to-noise ratio catches sensor grain,
// clipping percentage catches saturated acquisition, and the motion
// artifact score catches the sample-to-sample jumps a moving fingertip
// produces. Segment validity is the conjunction of all three against
// configurable thresholds.
package quality

import (
	"math"

	"github.com/cwbudde/algo-ppg/dsp/core"
)

// SNREpsilon is added to the noise power before the ratio is taken, so a
// perfectly clean segment yields a large finite SNR instead of dividing by
// zero.
const SNREpsilon = 1e-10

// ClippingMethod selects one of the two clipping heuristics.
type ClippingMethod int

const (
	// ClipNearMax counts samples at or above 95% of the observed maximum.
	ClipNearMax ClippingMethod = iota

	// ClipAtExtremes counts samples within 5% of the observed range of
	// either extreme, catching saturation at both rails.
	ClipAtExtremes
)

// MotionMethod selects one of the two motion-artifact heuristics.
type MotionMethod int

const (
	// MotionDiffStdDev scores the standard deviation of the absolute
	// first-difference sequence.
	MotionDiffStdDev MotionMethod = iota

	// MotionDiffPercent scores the percentage of first differences
	// exceeding an adaptive threshold (peak-to-peak range over length).
	MotionDiffPercent
)

// clipBand is the fraction of the range (or maximum) that counts as
// "at the rail" for both clipping heuristics.
const clipBand = 0.05

// Metrics is the quality snapshot of one signal pair. All numeric fields
// are rounded to one decimal place.
type Metrics struct {
	SNR                 float64
	ClippingPercentage  float64
	MotionArtifactScore float64
	ValidSegment        bool
}

// Thresholds holds the acceptance limits for segment validity.
type Thresholds struct {
	MaxClippingPercent float64
	MaxMotionScore     float64
	MinSNR             float64
}

// DefaultThresholds returns the stock acceptance limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxClippingPercent: 5,
		MaxMotionScore:     20,
		MinSNR:             5,
	}
}

// Valid reports whether a segment with the given metric values passes all
// three limits.
func (t Thresholds) Valid(clippingPct, motionScore, snr float64) bool {
	return clippingPct < t.MaxClippingPercent &&
		motionScore < t.MaxMotionScore &&
		snr > t.MinSNR
}

// SNR returns the signal-to-noise ratio in dB between a cleaned signal and
// the raw signal it was derived from, treating their difference as noise.
// The result is floored at 0. Empty or mismatched-length inputs also score
// 0: no difference sequence exists, and a segment that cannot be compared
// must never pass the MinSNR gate.
func SNR(clean, raw []float64) float64 {
	if len(clean) == 0 || len(clean) != len(raw) {
		return 0
	}

	noise := make([]float64, len(clean))
	for i := range clean {
		noise[i] = raw[i] - clean[i]
	}

	return SNRFromNoise(clean, noise)
}

// SNRFromNoise returns the signal-to-noise ratio in dB given the clean
// signal and the noise sequence directly. The result is floored at 0.
func SNRFromNoise(clean, noise []float64) float64 {
	if len(clean) == 0 || len(noise) == 0 {
		return 0
	}

	signalPower := meanSquare(clean)
	noisePower := meanSquare(noise) + SNREpsilon

	snr := core.LinearPowerToDB(signalPower / noisePower)
	if math.IsNaN(snr) || snr < 0 {
		return 0
	}

	return snr
}

func meanSquare(signal []float64) float64 {
	var sum float64
	for _, x := range signal {
		sum += x * x
	}
	return sum / float64(len(signal))
}

// ClippingPercentage returns the percentage of samples the chosen
// heuristic considers clipped.
func ClippingPercentage(signal []float64, method ClippingMethod) float64 {
	if len(signal) == 0 {
		return 0
	}

	switch method {
	case ClipAtExtremes:
		return clippingAtExtremes(signal)
	default:
		return clippingNearMax(signal)
	}
}

func clippingNearMax(signal []float64) float64 {
	max := signal[0]
	for _, x := range signal[1:] {
		if x > max {
			max = x
		}
	}

	threshold := max * (1 - clipBand)
	count := 0
	for _, x := range signal {
		if x >= threshold {
			count++
		}
	}

	return 100 * float64(count) / float64(len(signal))
}

func clippingAtExtremes(signal []float64) float64 {
	min, max := signal[0], signal[0]
	for _, x := range signal[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}

	band := (max - min) * clipBand
	count := 0
	for _, x := range signal {
		if x >= max-band || x <= min+band {
			count++
		}
	}

	return 100 * float64(count) / float64(len(signal))
}

// MotionArtifactScore returns the motion score of signal under the chosen
// heuristic. Higher means more sample-to-sample disturbance.
func MotionArtifactScore(signal []float64, method MotionMethod) float64 {
	if len(signal) < 2 {
		return 0
	}

	switch method {
	case MotionDiffPercent:
		return motionDiffPercent(signal)
	default:
		return motionDiffStdDev(signal)
	}
}

func motionDiffStdDev(signal []float64) float64 {
	diffs := absDiffs(signal)

	var mean float64
	for _, d := range diffs {
		mean += d
	}
	mean /= float64(len(diffs))

	var variance float64
	for _, d := range diffs {
		variance += (d - mean) * (d - mean)
	}
	variance /= float64(len(diffs))

	return math.Sqrt(variance)
}

func motionDiffPercent(signal []float64) float64 {
	min, max := signal[0], signal[0]
	for _, x := range signal[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}

	threshold := (max - min) / float64(len(signal))

	diffs := absDiffs(signal)
	count := 0
	for _, d := range diffs {
		if d > threshold {
			count++
		}
	}

	return 100 * float64(count) / float64(len(diffs))
}

func absDiffs(signal []float64) []float64 {
	out := make([]float64, len(signal)-1)
	for i := 1; i < len(signal); i++ {
		out[i-1] = math.Abs(signal[i] - signal[i-1])
	}
	return out
}
