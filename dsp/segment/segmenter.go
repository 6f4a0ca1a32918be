// Package segment accumulates a live sample stream into overlapping
// fixed-length analysis segments. Acquisition delivers one sample per
// frame; the processing chain wants whole segments, so the segmenter
// sits between them.
package segment

import "fmt"

// Segmenter collects samples and emits a segment every hop samples once
// the first full segment is available. Emitted segments are copies; the
// caller may keep or mutate them freely.
type Segmenter struct {
	buf  []float64
	size int
	hop  int
}

// NewSegmenter creates a Segmenter emitting segments of size samples,
// advancing by hop samples between emissions. hop must be in (0, size].
func NewSegmenter(size, hop int) (*Segmenter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("segment: size must be > 0: %d", size)
	}
	if hop <= 0 || hop > size {
		return nil, fmt.Errorf("segment: hop must be in (0, %d]: %d", size, hop)
	}

	return &Segmenter{
		buf:  make([]float64, 0, size),
		size: size,
		hop:  hop,
	}, nil
}

// Size returns the segment length in samples.
func (s *Segmenter) Size() int { return s.size }

// Hop returns the advance between segments in samples.
func (s *Segmenter) Hop() int { return s.hop }

// Pending returns how many samples are currently buffered.
func (s *Segmenter) Pending() int { return len(s.buf) }

// Push adds one sample. When it completes a segment, Push returns that
// segment and true; otherwise it returns nil and false.
func (s *Segmenter) Push(x float64) ([]float64, bool) {
	s.buf = append(s.buf, x)
	if len(s.buf) < s.size {
		return nil, false
	}

	out := make([]float64, s.size)
	copy(out, s.buf)

	// Keep the overlap for the next segment.
	n := copy(s.buf, s.buf[s.hop:])
	s.buf = s.buf[:n]

	return out, true
}

// PushBlock adds a block of samples and returns every segment completed
// along the way.
func (s *Segmenter) PushBlock(samples []float64) [][]float64 {
	var out [][]float64
	for _, x := range samples {
		if seg, ok := s.Push(x); ok {
			out = append(out, seg)
		}
	}
	return out
}

// Reset discards all buffered samples.
func (s *Segmenter) Reset() {
	s.buf = s.buf[:0]
}
