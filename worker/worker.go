// Package worker exposes the processing pipeline behind a small
// request/response message contract: one request in, one response out,
// handled strictly in order. The same contract works over channels,
// a message port, or any transport that can carry JSON envelopes.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-ppg/pipeline"
	"github.com/cwbudde/algo-ppg/stats/quality"
)

// Worker dispatches requests to a processing pipeline. It is not safe
// for concurrent use; run one Worker per goroutine.
type Worker struct {
	proc *pipeline.Processor
	log  *zap.SugaredLogger
}

// New creates a Worker. A nil processor gets a default pipeline and a
// nil logger disables logging.
func New(proc *pipeline.Processor, logger *zap.SugaredLogger) *Worker {
	if proc == nil {
		proc = pipeline.NewProcessor()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Worker{proc: proc, log: logger}
}

// Handle processes one request synchronously. The response always echoes
// the request ID and carries exactly one of a result or an error string.
func (w *Worker) Handle(req Request) Response {
	switch req.Type {
	case TypeProcessSignal:
		return w.handleProcessSignal(req)
	case TypeComputeFFT:
		return w.handleComputeFFT(req)
	default:
		w.log.Warnw("rejected message", "id", req.ID, "type", req.Type)
		return Response{ID: req.ID, Error: fmt.Sprintf("Unknown message type: %s", req.Type)}
	}
}

// Run consumes requests from in until the channel closes or the context
// is cancelled, emitting one response per request in arrival order.
func (w *Worker) Run(ctx context.Context, in <-chan Request, out chan<- Response) error {
	w.log.Infow("worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Infow("worker stopped", "reason", ctx.Err())
			return ctx.Err()
		case req, ok := <-in:
			if !ok {
				w.log.Infow("worker stopped", "reason", "input closed")
				return nil
			}
			resp := w.Handle(req)
			select {
			case out <- resp:
			case <-ctx.Done():
				w.log.Infow("worker stopped", "reason", ctx.Err())
				return ctx.Err()
			}
		}
	}
}

func (w *Worker) handleProcessSignal(req Request) Response {
	var p ProcessSignalPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		w.log.Errorw("bad processSignal payload", "id", req.ID, "error", err)
		return Response{ID: req.ID, Error: fmt.Sprintf("invalid processSignal payload: %v", err)}
	}

	// Only absent fields get defaults. Explicit values flow through to
	// the design validation as-is, invalid ones included.
	rate := DefaultSamplingRate
	if p.SamplingRate != nil {
		rate = *p.SamplingRate
	}
	low := DefaultBandpassLow
	if p.BandpassLow != nil {
		low = *p.BandpassLow
	}
	high := DefaultBandpassHigh
	if p.BandpassHigh != nil {
		high = *p.BandpassHigh
	}
	order := DefaultFilterOrder
	if p.FilterOrder != nil {
		order = *p.FilterOrder
	}

	res, err := w.proc.Process(p.RawSignal, rate, low, high, order)
	if err != nil {
		w.log.Errorw("processing failed", "id", req.ID, "samples", len(p.RawSignal), "error", err)
		return Response{ID: req.ID, Error: err.Error()}
	}

	w.log.Infow("processed segment",
		"id", req.ID,
		"samples", len(p.RawSignal),
		"valid", res.Metrics.ValidSegment,
		"snr", res.Metrics.SNR,
	)

	report := reportFromMetrics(res.Metrics)
	if p.IncludeIntermediate {
		return Response{ID: req.ID, Result: ProcessSignalResultFull{
			RawSignal:      res.Raw,
			BandpassSignal: res.Bandpass,
			CleanedSignal:  res.Cleaned,
			QualityMetrics: report,
		}}
	}

	return Response{ID: req.ID, Result: ProcessSignalResult{
		CleanedSignal:  res.Cleaned,
		QualityMetrics: report,
	}}
}

func (w *Worker) handleComputeFFT(req Request) Response {
	var p ComputeFFTPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		w.log.Errorw("bad computeFFT payload", "id", req.ID, "error", err)
		return Response{ID: req.ID, Error: fmt.Sprintf("invalid computeFFT payload: %v", err)}
	}

	mags := w.proc.Spectrum(p.Signal)
	if len(mags) == 0 {
		w.log.Errorw("empty fft request", "id", req.ID)
		return Response{ID: req.ID, Error: "computeFFT: empty signal"}
	}

	// The result is the bare magnitude sequence.
	w.log.Infow("computed spectrum", "id", req.ID, "bins", len(mags))
	return Response{ID: req.ID, Result: mags}
}

func reportFromMetrics(m quality.Metrics) QualityReport {
	return QualityReport{
		SNR:                 m.SNR,
		ClippingPercentage:  m.ClippingPercentage,
		MotionArtifactScore: m.MotionArtifactScore,
		ValidSegment:        m.ValidSegment,
	}
}
