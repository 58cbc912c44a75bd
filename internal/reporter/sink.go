package reporter

import (
	"fmt"
	"io"
	"sync"
)

// Sink appends lines to a writer. Writes are serialized so lines from
// concurrent reporters never interleave.
type Sink struct {
	mu    sync.Mutex
	w     io.Writer
	lines int
}

// NewSink creates a Sink writing to w
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// WriteLine writes line followed by a newline
func (s *Sink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, line+"\n"); err != nil {
		return fmt.Errorf("write output line: %w", err)
	}
	s.lines++
	return nil
}

// Lines returns the number of lines written so far
func (s *Sink) Lines() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}
