package corpus

import (
	"context"
	"io"

	"github.com/creastat/sessiongen"
)

// Filter admits conversations with at least MinTurn turns in the configured
// language, and stops once Limit conversations have been accepted.
// A Filter makes a single pass over its source and cannot be restarted.
type Filter struct {
	src      Source
	minTurn  int
	language string
	limit    int

	scanned  int
	accepted int
}

// FilterOption is a functional option for configuring a Filter.
type FilterOption func(*Filter)

// WithMinTurn sets the minimum turn count.
func WithMinTurn(n int) FilterOption {
	return func(f *Filter) {
		f.minTurn = n
	}
}

// WithLanguage sets the required language.
func WithLanguage(lang string) FilterOption {
	return func(f *Filter) {
		f.language = lang
	}
}

// WithLimit sets the maximum number of accepted conversations.
func WithLimit(n int) FilterOption {
	return func(f *Filter) {
		f.limit = n
	}
}

// NewFilter creates a Filter over src. Defaults: two turns, English, 20000 records.
func NewFilter(src Source, opts ...FilterOption) *Filter {
	f := &Filter{
		src:      src,
		minTurn:  2,
		language: "English",
		limit:    20000,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Eligible reports whether conv passes the predicate.
func (f *Filter) Eligible(conv *sessiongen.Conversation) bool {
	return conv.Turn >= f.minTurn && conv.Language == f.language
}

// Next returns the next eligible conversation. It returns io.EOF when the
// limit is reached, without reading further from the source, or when the
// source is exhausted. Source errors are returned unchanged.
func (f *Filter) Next(ctx context.Context) (*sessiongen.Conversation, error) {
	for {
		if f.accepted >= f.limit {
			return nil, io.EOF
		}

		conv, err := f.src.Next(ctx)
		if err != nil {
			return nil, err
		}
		f.scanned++

		if !f.Eligible(conv) {
			continue
		}
		f.accepted++
		return conv, nil
	}
}

// Scanned returns the number of records read from the source.
func (f *Filter) Scanned() int { return f.scanned }

// Accepted returns the number of records admitted.
func (f *Filter) Accepted() int { return f.accepted }

// Rejected returns the number of records skipped.
func (f *Filter) Rejected() int { return f.scanned - f.accepted }
