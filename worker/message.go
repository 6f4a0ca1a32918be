package worker

import "encoding/json"

// Message types accepted by the worker.
const (
	TypeProcessSignal = "processSignal"
	TypeComputeFFT    = "computeFFT"
)

// Defaults applied to a processSignal payload when the field is absent
// or zero.
const (
	DefaultSamplingRate = 30.0
	DefaultBandpassLow  = 0.5
	DefaultBandpassHigh = 4.0
	DefaultFilterOrder  = 4
)

// Request is the envelope of one incoming message. Payload is decoded
// according to Type.
type Request struct {
	ID      int             `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Response is the envelope of one reply. Exactly one of Result and Error
// is set, and ID always echoes the request.
type Response struct {
	ID     int    `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ProcessSignalPayload is the payload of a processSignal request. The
// tuning fields are pointers so an absent field (defaulted) can be told
// apart from an explicit value: explicit values are passed through to
// validation untouched, even when they are invalid.
type ProcessSignalPayload struct {
	RawSignal    []float64 `json:"rawSignal"`
	SamplingRate *float64  `json:"samplingRate,omitempty"`
	BandpassLow  *float64  `json:"bandpassLow,omitempty"`
	BandpassHigh *float64  `json:"bandpassHigh,omitempty"`
	FilterOrder  *int      `json:"filterOrder,omitempty"`

	// IncludeIntermediate selects the full result shape, which echoes the
	// raw signal and the intermediate bandpass stage alongside the
	// cleaned signal.
	IncludeIntermediate bool `json:"includeIntermediate,omitempty"`
}

// ComputeFFTPayload is the payload of a computeFFT request. SamplingRate
// is carried for future frequency-axis labeling; the result is the bare
// magnitude sequence and does not depend on it.
type ComputeFFTPayload struct {
	Signal       []float64 `json:"signal"`
	SamplingRate float64   `json:"samplingRate,omitempty"`
}

// QualityReport is the wire form of a quality verdict.
type QualityReport struct {
	SNR                 float64 `json:"snr"`
	ClippingPercentage  float64 `json:"clippingPercentage"`
	MotionArtifactScore float64 `json:"motionArtifactScore"`
	ValidSegment        bool    `json:"validSegment"`
}

// ProcessSignalResult is the compact result of a processSignal request.
type ProcessSignalResult struct {
	CleanedSignal  []float64     `json:"cleanedSignal"`
	QualityMetrics QualityReport `json:"qualityMetrics"`
}

// ProcessSignalResultFull is the extended result shape, carrying every
// intermediate stage for call sites that render them.
type ProcessSignalResultFull struct {
	RawSignal      []float64     `json:"rawSignal"`
	BandpassSignal []float64     `json:"bandpassSignal"`
	CleanedSignal  []float64     `json:"cleanedSignal"`
	QualityMetrics QualityReport `json:"qualityMetrics"`
}

