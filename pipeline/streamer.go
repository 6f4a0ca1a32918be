package pipeline

import (
	"github.com/cwbudde/algo-ppg/dsp/segment"
)

// Streamer feeds a live sample stream through the pipeline one segment
// at a time. Fix the bandpass design at construction; every emitted
// segment is processed with the same parameters.
type Streamer struct {
	seg  *segment.Segmenter
	proc *Processor

	sampleRate float64
	lowCutoff  float64
	highCutoff float64
	order      int
}

// NewStreamer creates a Streamer producing one Result per completed
// segment of segmentLen samples, advancing by hop samples.
func NewStreamer(proc *Processor, segmentLen, hop int, sampleRate, lowCutoff, highCutoff float64, order int) (*Streamer, error) {
	if proc == nil {
		proc = NewProcessor()
	}

	seg, err := segment.NewSegmenter(segmentLen, hop)
	if err != nil {
		return nil, err
	}

	return &Streamer{
		seg:        seg,
		proc:       proc,
		sampleRate: sampleRate,
		lowCutoff:  lowCutoff,
		highCutoff: highCutoff,
		order:      order,
	}, nil
}

// Push adds one sample. When it completes a segment, the segment is
// processed and its Result returned; otherwise Push returns (nil, nil).
func (s *Streamer) Push(x float64) (*Result, error) {
	raw, ok := s.seg.Push(x)
	if !ok {
		return nil, nil
	}

	return s.proc.Process(raw, s.sampleRate, s.lowCutoff, s.highCutoff, s.order)
}

// PushBlock adds a block of samples and returns the Results of every
// segment completed along the way. Processing stops at the first error.
func (s *Streamer) PushBlock(samples []float64) ([]*Result, error) {
	var out []*Result
	for _, x := range samples {
		res, err := s.Push(x)
		if err != nil {
			return out, err
		}
		if res != nil {
			out = append(out, res)
		}
	}
	return out, nil
}

// Reset discards buffered samples without touching the processor.
func (s *Streamer) Reset() {
	s.seg.Reset()
}
