package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ppg/dsp/core"
)

func TestSine_FullCycleSumsToZero(t *testing.T) {
	g := NewGenerator([]core.ProcessorOption{core.WithSampleRate(30)})

	// 1 Hz at 30 Hz over 300 samples is exactly 10 cycles.
	out, err := g.Sine(1, 1, 300)
	if err != nil {
		t.Fatal(err)
	}

	var sum float64
	for _, x := range out {
		sum += x
	}

	if math.Abs(sum) > 1e-9 {
		t.Errorf("whole cycles should sum to ~0, got %v", sum)
	}
}

func TestSine_InvalidArgs(t *testing.T) {
	g := NewGenerator(nil)
	if _, err := g.Sine(1, 1, 0); err == nil {
		t.Error("expected error for zero samples")
	}
}

func TestWhiteNoise_DeterministicForSeed(t *testing.T) {
	a, err := NewGenerator(nil, WithSeed(7)).WhiteNoise(0.5, 100)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewGenerator(nil, WithSeed(7)).WhiteNoise(0.5, 100)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise differs at sample %d for identical seeds", i)
		}
		if math.Abs(a[i]) > 0.5 {
			t.Fatalf("sample %d = %v exceeds amplitude", i, a[i])
		}
	}
}

func TestLinearDrift(t *testing.T) {
	g := NewGenerator(nil)

	out, err := g.LinearDrift(0.2, 5, 4)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{5, 5.2, 5.4, 5.6}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("sample %d = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestMix(t *testing.T) {
	out, err := Mix([]float64{1, 2}, []float64{10, 20})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 11 || out[1] != 22 {
		t.Errorf("mix = %v, want [11 22]", out)
	}

	if _, err := Mix([]float64{1}, []float64{1, 2}); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{0.5, -0.25}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 1 || out[1] != -0.5 {
		t.Errorf("normalize = %v, want [1 -0.5]", out)
	}

	// All-zero input stays zero.
	out, err = Normalize([]float64{0, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 0 || out[1] != 0 {
		t.Errorf("normalize zeros = %v", out)
	}
}
