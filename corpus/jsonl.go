package corpus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/creastat/sessiongen"
)

// JSONLSource reads newline-delimited conversation records, such as a local
// export of the chat corpus. Blank lines are skipped.
type JSONLSource struct {
	r    *bufio.Reader
	line int
}

// NewJSONLSource creates a source reading from r.
func NewJSONLSource(r io.Reader) *JSONLSource {
	return &JSONLSource{r: bufio.NewReaderSize(r, 1<<20)}
}

// rawTurn and rawConversation use pointers so missing fields can be told
// apart from zero values.
type rawTurn struct {
	Role    *string `json:"role"`
	Content *string `json:"content"`
}

type rawConversation struct {
	ConversationID *string    `json:"conversation_id"`
	Turn           *int       `json:"turn"`
	Language       *string    `json:"language"`
	Conversation   *[]rawTurn `json:"conversation"`
}

// Next implements Source.
func (s *JSONLSource) Next(ctx context.Context) (*sessiongen.Conversation, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := s.r.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read corpus line %d: %w", s.line+1, err)
		}
		atEOF := errors.Is(err, io.EOF)

		data = bytes.TrimSpace(data)
		if len(data) == 0 {
			if atEOF {
				return nil, io.EOF
			}
			s.line++
			continue
		}
		s.line++

		conv, perr := parseConversation(data)
		if perr != nil {
			return nil, fmt.Errorf("line %d: %w", s.line, perr)
		}
		return conv, nil
	}
}

// Line returns the number of the last line read.
func (s *JSONLSource) Line() int {
	return s.line
}

func parseConversation(data []byte) (*sessiongen.Conversation, error) {
	var raw rawConversation
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", sessiongen.ErrInvalidConversation, err)
	}

	switch {
	case raw.ConversationID == nil || *raw.ConversationID == "":
		return nil, fmt.Errorf("%w: missing conversation_id", sessiongen.ErrInvalidConversation)
	case raw.Turn == nil:
		return nil, fmt.Errorf("%w: %s: missing turn", sessiongen.ErrInvalidConversation, *raw.ConversationID)
	case raw.Language == nil:
		return nil, fmt.Errorf("%w: %s: missing language", sessiongen.ErrInvalidConversation, *raw.ConversationID)
	case raw.Conversation == nil:
		return nil, fmt.Errorf("%w: %s: missing conversation", sessiongen.ErrInvalidConversation, *raw.ConversationID)
	}

	conv := &sessiongen.Conversation{
		ConversationID: *raw.ConversationID,
		Turn:           *raw.Turn,
		Language:       *raw.Language,
		Conversation:   make([]sessiongen.Turn, 0, len(*raw.Conversation)),
	}
	for i, t := range *raw.Conversation {
		if t.Role == nil || *t.Role == "" {
			return nil, fmt.Errorf("%w: %s: turn %d has no role", sessiongen.ErrInvalidConversation, conv.ConversationID, i)
		}
		if t.Content == nil {
			return nil, fmt.Errorf("%w: %s: turn %d has no content", sessiongen.ErrInvalidConversation, conv.ConversationID, i)
		}
		conv.Conversation = append(conv.Conversation, sessiongen.Turn{Role: *t.Role, Content: *t.Content})
	}
	return conv, nil
}
