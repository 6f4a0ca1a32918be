package despike

import (
	"math"
	"testing"
)

func TestApply_SingleSpike(t *testing.T) {
	// Mean 20, population variance 1600. The spike's squared deviation
	// (6400) exceeds 3x the variance; the zeros (400) do not.
	in := []float64{0, 0, 0, 0, 100}

	out := NewSuppressor().Apply(in)

	if len(out) != 5 {
		t.Fatalf("length = %d, want 5", len(out))
	}

	if out[4] != 20 {
		t.Errorf("spike replaced with %v, want pre-suppression mean 20", out[4])
	}

	for i := 0; i < 4; i++ {
		if out[i] != 0 {
			t.Errorf("sample %d = %v, want 0 (unchanged)", i, out[i])
		}
	}
}

func TestApply_InputNotMutated(t *testing.T) {
	in := []float64{0, 0, 0, 0, 100}
	NewSuppressor().Apply(in)

	if in[4] != 100 {
		t.Error("Apply must not mutate its input")
	}
}

func TestApply_ConstantSignal(t *testing.T) {
	in := []float64{5, 5, 5, 5}

	out := NewSuppressor().Apply(in)
	for i, x := range out {
		if x != 5 {
			t.Errorf("sample %d = %v, want 5", i, x)
		}
	}
}

func TestApply_EmptySignal(t *testing.T) {
	out := NewSuppressor().Apply(nil)
	if len(out) != 0 {
		t.Errorf("length = %d, want 0", len(out))
	}
}

func TestApply_ThresholdOption(t *testing.T) {
	in := []float64{-1, 1, -1, 1, -1, 1, -1, 1, 3}

	// With a very permissive threshold nothing is clamped.
	out := NewSuppressor(WithThreshold(100)).Apply(in)
	if out[8] != 3 {
		t.Errorf("sample clamped despite permissive threshold: %v", out[8])
	}

	// A tight threshold clamps the 3.
	out = NewSuppressor(WithThreshold(1.5)).Apply(in)
	mean, _ := MeanVariance(in)
	if out[8] != mean {
		t.Errorf("sample = %v, want mean %v", out[8], mean)
	}
}

func TestNewSuppressor_InvalidThresholdKeepsDefault(t *testing.T) {
	s := NewSuppressor(WithThreshold(-2))
	if s.Threshold() != DefaultThreshold {
		t.Errorf("threshold = %v, want %v", s.Threshold(), DefaultThreshold)
	}
}

func TestMeanVariance(t *testing.T) {
	mean, variance := MeanVariance([]float64{0, 0, 0, 0, 100})
	if mean != 20 {
		t.Errorf("mean = %v, want 20", mean)
	}
	if math.Abs(variance-1600) > 1e-12 {
		t.Errorf("variance = %v, want 1600", variance)
	}
}
