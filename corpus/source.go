// Package corpus reads source conversations and filters them for eligibility.
package corpus

import (
	"context"
	"io"

	"github.com/creastat/sessiongen"
)

// Source yields conversation records one at a time.
type Source interface {
	// Next returns the next record, or io.EOF once the source is exhausted.
	Next(ctx context.Context) (*sessiongen.Conversation, error)
}

// SliceSource serves conversations from memory.
type SliceSource struct {
	records []sessiongen.Conversation
	pos     int
}

// NewSliceSource creates a source over records.
func NewSliceSource(records ...sessiongen.Conversation) *SliceSource {
	return &SliceSource{records: records}
}

// Next implements Source.
func (s *SliceSource) Next(ctx context.Context) (*sessiongen.Conversation, error) {
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	rec := &s.records[s.pos]
	s.pos++
	return rec, nil
}

// Consumed reports how many records have been handed out.
func (s *SliceSource) Consumed() int {
	return s.pos
}

// Compile-time checks that the sources implement Source.
var (
	_ Source = (*SliceSource)(nil)
	_ Source = (*JSONLSource)(nil)
)
