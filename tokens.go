package sessiongen

// TokenCounter counts the subword tokens of a piece of text.
// Implementations must be deterministic for identical input.
type TokenCounter interface {
	CountTokens(text string) int
}

// TokenCounterFunc adapts a plain function to TokenCounter.
type TokenCounterFunc func(text string) int

// CountTokens implements TokenCounter.
func (f TokenCounterFunc) CountTokens(text string) int {
	return f(text)
}

// EstimateCounter is a TokenCounter backed by EstimateTokens. It needs no
// vocabulary files.
var EstimateCounter TokenCounter = TokenCounterFunc(EstimateTokens)

// EstimateTokens estimates the token count for a given text using a Unicode-aware heuristic.
// ASCII characters (English, numbers, punctuation) are weighted at ~4 per token.
// Non-ASCII characters (CJK, Cyrillic, Arabic, Emoji, etc.) are weighted at ~1 per token.
func EstimateTokens(text string) int {
	weight := 0
	for _, r := range text {
		switch {
		case r <= 127: // ASCII
			weight += 1
		default: // Non-ASCII
			weight += 4
		}
	}
	return (weight + 3) / 4
}
