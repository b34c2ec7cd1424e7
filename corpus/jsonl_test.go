package corpus

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creastat/sessiongen"
)

func TestJSONLSourceReadsRecords(t *testing.T) {
	input := `{"conversation_id":"c1","turn":1,"language":"English","conversation":[{"role":"user","content":"Hi"},{"role":"assistant","content":"Hello there"}]}

{"conversation_id":"c2","turn":2,"language":"French","conversation":[],"model":"vicuna"}`
	src := NewJSONLSource(strings.NewReader(input))
	ctx := context.Background()

	first, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c1", first.ConversationID)
	assert.Equal(t, 1, first.Turn)
	assert.Equal(t, "English", first.Language)
	assert.Equal(t, []sessiongen.Turn{
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello there"},
	}, first.Conversation)

	second, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c2", second.ConversationID)
	assert.Empty(t, second.Conversation)
	assert.Equal(t, 3, src.Line())

	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONLSourceEmpty(t *testing.T) {
	_, err := NewJSONLSource(strings.NewReader("")).Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONLSourceRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"not json", `{"conversation_id":`},
		{"missing id", `{"turn":2,"language":"English","conversation":[]}`},
		{"empty id", `{"conversation_id":"","turn":2,"language":"English","conversation":[]}`},
		{"missing turn", `{"conversation_id":"x","language":"English","conversation":[]}`},
		{"missing language", `{"conversation_id":"x","turn":2,"conversation":[]}`},
		{"missing conversation", `{"conversation_id":"x","turn":2,"language":"English"}`},
		{"turn without role", `{"conversation_id":"x","turn":2,"language":"English","conversation":[{"content":"hi"}]}`},
		{"turn without content", `{"conversation_id":"x","turn":2,"language":"English","conversation":[{"role":"user"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJSONLSource(strings.NewReader(tt.line + "\n")).Next(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, sessiongen.ErrInvalidConversation)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestJSONLSourceHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewJSONLSource(strings.NewReader(`{}`)).Next(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
