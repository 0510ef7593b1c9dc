package search

import (
	"io"
	"sync"
)

// Sink serializes multi-line report blocks onto a single shared writer.
// Workers format their reports off to the side and hand over the finished
// block, so the mutex is held only for the write itself: blocks from
// different workers may appear in any order, but never interleaved within
// one block.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSink wraps w in an exclusive-access sink.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// WriteBlock emits one report block as an uninterrupted unit.
func (s *Sink) WriteBlock(block string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.w, block)
}
