//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cwbudde/algo-ppg/pipeline"
)

var (
	proc  = pipeline.NewProcessor()
	funcs []js.Func
)

func main() {
	api := js.Global().Get("Object").New()

	api.Set("processSignal", export(func(args []js.Value) any {
		if len(args) < 1 {
			return errorResult("processSignal: missing signal")
		}

		raw := toFloat64Slice(args[0])
		rate, low, high, order := 30.0, 0.5, 4.0, 4
		if len(args) > 1 {
			rate = args[1].Float()
		}
		// The cutoffs come as a pair; a lone low cutoff is a caller bug,
		// not a request for the default high cutoff.
		switch {
		case len(args) > 3:
			low = args[2].Float()
			high = args[3].Float()
		case len(args) == 3:
			return errorResult("processSignal: both bandpass cutoffs are required")
		}
		if len(args) > 4 {
			order = args[4].Int()
		}

		res, err := proc.Process(raw, rate, low, high, order)
		if err != nil {
			return errorResult(err.Error())
		}

		metrics := js.Global().Get("Object").New()
		metrics.Set("snr", res.Metrics.SNR)
		metrics.Set("clippingPercentage", res.Metrics.ClippingPercentage)
		metrics.Set("motionArtifactScore", res.Metrics.MotionArtifactScore)
		metrics.Set("validSegment", res.Metrics.ValidSegment)

		out := js.Global().Get("Object").New()
		out.Set("cleanedSignal", toFloat64Array(res.Cleaned))
		out.Set("bandpassSignal", toFloat64Array(res.Bandpass))
		out.Set("qualityMetrics", metrics)
		return out
	}))

	api.Set("computeFFT", export(func(args []js.Value) any {
		if len(args) < 1 {
			return errorResult("computeFFT: missing signal")
		}

		return toFloat64Array(proc.Spectrum(toFloat64Slice(args[0])))
	}))

	js.Global().Set("PPGEngine", api)
	select {}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}

func errorResult(msg string) js.Value {
	out := js.Global().Get("Object").New()
	out.Set("error", msg)
	return out
}

func toFloat64Slice(v js.Value) []float64 {
	out := make([]float64, v.Length())
	for i := range out {
		out[i] = v.Index(i).Float()
	}
	return out
}

func toFloat64Array(v []float64) js.Value {
	arr := js.Global().Get("Float64Array").New(len(v))
	for i, x := range v {
		arr.SetIndex(i, x)
	}
	return arr
}
