package design

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-ppg/dsp/filter/iir"
)

const testSR = 100.0

func magnitudeDB(c iir.Coefficients, freq, sampleRate float64) float64 {
	h := Response(c, 2*math.Pi*freq/sampleRate)
	return 20 * math.Log10(cmplx.Abs(h))
}

func TestButterworthBandpass_Validation(t *testing.T) {
	cases := []struct {
		name      string
		low, high float64
		order     int
		want      error
	}{
		{"zero low", 0, 5, 4, ErrInvalidSpecification},
		{"negative low", -1, 5, 4, ErrInvalidSpecification},
		{"high at nyquist", 1, 50, 4, ErrInvalidSpecification},
		{"high above nyquist", 1, 60, 4, ErrInvalidSpecification},
		{"misordered", 5, 1, 4, ErrInvalidSpecification},
		{"equal cutoffs", 5, 5, 4, ErrInvalidSpecification},
		{"odd order", 1, 5, 3, ErrUnsupportedOrder},
		{"order zero", 1, 5, 0, ErrUnsupportedOrder},
		{"order eight", 1, 5, 8, ErrUnsupportedOrder},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ButterworthBandpass(tc.low, tc.high, testSR, tc.order)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestButterworthBandpass_NegativeSampleRate(t *testing.T) {
	if _, err := ButterworthBandpass(1, 5, -30, 4); !errors.Is(err, ErrInvalidSpecification) {
		t.Errorf("err = %v, want ErrInvalidSpecification", err)
	}
}

func TestButterworthBandpass_Shape(t *testing.T) {
	for _, order := range []int{2, 4, 6} {
		t.Run(map[int]string{2: "order2", 4: "order4", 6: "order6"}[order], func(t *testing.T) {
			c, err := ButterworthBandpass(1, 5, testSR, order)
			if err != nil {
				t.Fatal(err)
			}

			if len(c.B) != order+1 || len(c.A) != order+1 {
				t.Fatalf("coefficient lengths %d/%d, want %d", len(c.B), len(c.A), order+1)
			}

			if c.A[0] != 1 {
				t.Errorf("a[0] = %v, want 1", c.A[0])
			}

			for i := range c.B {
				if math.IsNaN(c.B[i]) || math.IsInf(c.B[i], 0) || math.IsNaN(c.A[i]) || math.IsInf(c.A[i], 0) {
					t.Fatalf("non-finite coefficient at %d: b=%v a=%v", i, c.B[i], c.A[i])
				}
			}
		})
	}
}

func TestButterworthBandpass_PassbandAndStopband(t *testing.T) {
	c, err := ButterworthBandpass(1, 5, testSR, 4)
	if err != nil {
		t.Fatal(err)
	}

	center := math.Sqrt(1 * 5.0)
	if got := magnitudeDB(c, center, testSR); math.Abs(got) > 0.01 {
		t.Errorf("gain at center = %v dB, want ~0", got)
	}

	// Content outside the band must be attenuated relative to the center.
	for _, freq := range []float64{0.1, 15, 25, 40} {
		if got := magnitudeDB(c, freq, testSR); got > -10 {
			t.Errorf("gain at %v Hz = %v dB, want < -10", freq, got)
		}
	}
}

func TestButterworthBandpass_RolloffSharpensWithOrder(t *testing.T) {
	c2, err := ButterworthBandpass(1, 5, testSR, 2)
	if err != nil {
		t.Fatal(err)
	}
	c6, err := ButterworthBandpass(1, 5, testSR, 6)
	if err != nil {
		t.Fatal(err)
	}

	// At 4x the high cutoff the 6th-order design must attenuate harder.
	if g2, g6 := magnitudeDB(c2, 20, testSR), magnitudeDB(c6, 20, testSR); g6 >= g2 {
		t.Errorf("order 6 (%v dB) not steeper than order 2 (%v dB)", g6, g2)
	}
}

func TestButterworthBandpass_Deterministic(t *testing.T) {
	first, err := ButterworthBandpass(0.5, 4, 30, 6)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ButterworthBandpass(0.5, 4, 30, 6)
	if err != nil {
		t.Fatal(err)
	}

	for i := range first.B {
		if first.B[i] != second.B[i] || first.A[i] != second.A[i] {
			t.Fatalf("coefficients differ at index %d", i)
		}
	}
}

func TestButterworthBandpass_FilteredSineAttenuation(t *testing.T) {
	// A sine at the passband center must come through with materially more
	// energy than one at 5x the high cutoff.
	const sr = 100.0
	c, err := ButterworthBandpass(1, 4, sr, 4)
	if err != nil {
		t.Fatal(err)
	}

	rmsAfter := func(freq float64) float64 {
		f, err := iir.NewFilter(c)
		if err != nil {
			t.Fatal(err)
		}
		n := 1000
		var sumSq float64
		for i := 0; i < n; i++ {
			y := f.ProcessSample(math.Sin(2 * math.Pi * freq * float64(i) / sr))
			if i >= n/2 { // skip the transient
				sumSq += y * y
			}
		}
		return math.Sqrt(sumSq / float64(n/2))
	}

	inBand := rmsAfter(2)
	outOfBand := rmsAfter(20)

	if inBand < 10*outOfBand {
		t.Errorf("in-band RMS %v not materially larger than out-of-band RMS %v", inBand, outOfBand)
	}
}
