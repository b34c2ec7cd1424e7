// Package tokenizer provides exact BPE token counting using tiktoken-go.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/creastat/sessiongen"
)

// Encodings accepted by New.
const (
	// EncodingGPT2 is the byte-level BPE used by GPT-2.
	EncodingGPT2 = tiktoken.MODEL_R50K_BASE
	// EncodingEstimate selects the heuristic sessiongen.EstimateTokens counter.
	EncodingEstimate = "estimate"
)

// Encoder turns text into token ids.
type Encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

// Counter counts tokens with a BPE encoder.
type Counter struct {
	enc Encoder
}

// New loads the named encoding. BPE files are fetched on first use and cached
// under TIKTOKEN_CACHE_DIR when set.
func New(encoding string) (sessiongen.TokenCounter, error) {
	if encoding == EncodingEstimate {
		return sessiongen.EstimateCounter, nil
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", encoding, err)
	}
	return NewWithEncoder(enc), nil
}

// NewWithEncoder wraps an already loaded encoder.
func NewWithEncoder(enc Encoder) *Counter {
	return &Counter{enc: enc}
}

// CountTokens implements sessiongen.TokenCounter. Special tokens such as
// <|endoftext|> count as single tokens.
func (c *Counter) CountTokens(text string) int {
	return len(c.Encode(text))
}

// Encode returns the token ids of text.
func (c *Counter) Encode(text string) []int {
	return c.enc.Encode(text, []string{"all"}, nil)
}

// Compile-time checks.
var (
	_ sessiongen.TokenCounter = (*Counter)(nil)
	_ Encoder                 = (*tiktoken.Tiktoken)(nil)
)
