package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ppg/dsp/core"
)

func TestAnalyzer_MagnitudeSpectrumPeak(t *testing.T) {
	const sr = 30.0
	signal := make([]float64, 256)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 1.2 * float64(i) / sr)
	}

	a := NewAnalyzer(core.WithSampleRate(sr))
	mags, binHz, err := a.MagnitudeSpectrum(signal)
	if err != nil {
		t.Fatal(err)
	}

	if len(mags) != 128 {
		t.Fatalf("bins = %d, want 128", len(mags))
	}

	if want := sr / 256; !almostEqual(binHz, want, 1e-12) {
		t.Errorf("binHz = %v, want %v", binHz, want)
	}

	peak := 0
	for k := range mags {
		if mags[k] > mags[peak] {
			peak = k
		}
	}

	if got := float64(peak) * binHz; math.Abs(got-1.2) > binHz {
		t.Errorf("spectral peak at %v Hz, want ~1.2", got)
	}
}

func TestAnalyzer_DominantFrequency(t *testing.T) {
	const sr = 30.0
	signal := make([]float64, 512)
	for i := range signal {
		// Pulse fundamental plus a strong low-frequency breathing tone
		// outside the search band.
		signal[i] = math.Sin(2*math.Pi*1.2*float64(i)/sr) + 2*math.Sin(2*math.Pi*0.25*float64(i)/sr)
	}

	a := NewAnalyzer(core.WithSampleRate(sr))
	got, err := a.DominantFrequency(signal, 0.7, 3.5)
	if err != nil {
		t.Fatal(err)
	}

	binHz := sr / 512
	if math.Abs(got-1.2) > binHz {
		t.Errorf("dominant frequency = %v Hz, want ~1.2", got)
	}
}

func TestAnalyzer_DominantFrequency_BadBand(t *testing.T) {
	a := NewAnalyzer()
	signal := make([]float64, 64)

	if _, err := a.DominantFrequency(signal, 3, 1); err == nil {
		t.Error("expected error for inverted search band")
	}

	if _, err := a.DominantFrequency(signal, -1, 2); err == nil {
		t.Error("expected error for negative band edge")
	}
}

func TestAnalyzer_ShortSignal(t *testing.T) {
	a := NewAnalyzer()
	if _, _, err := a.MagnitudeSpectrum([]float64{1}); err == nil {
		t.Error("expected error for single-sample input")
	}
}
