package corpus

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creastat/sessiongen"
)

func conv(id string, turn int, lang string) sessiongen.Conversation {
	return sessiongen.Conversation{ConversationID: id, Turn: turn, Language: lang}
}

func drain(t *testing.T, f *Filter) []string {
	t.Helper()
	var ids []string
	for {
		c, err := f.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return ids
		}
		require.NoError(t, err)
		ids = append(ids, c.ConversationID)
	}
}

func TestFilterEligibility(t *testing.T) {
	tests := []struct {
		name string
		conv sessiongen.Conversation
		want bool
	}{
		{"english multi turn", conv("a", 3, "English"), true},
		{"boundary turn", conv("b", 2, "English"), true},
		{"single turn english", conv("c", 1, "English"), false},
		{"single turn other", conv("d", 1, "German"), false},
		{"french multi turn", conv("e", 5, "French"), false},
		{"lowercase language", conv("f", 4, "english"), false},
	}

	f := NewFilter(NewSliceSource())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Eligible(&tt.conv))
		})
	}
}

func TestFilterSkipsIneligible(t *testing.T) {
	src := NewSliceSource(
		conv("a", 1, "English"),
		conv("b", 3, "English"),
		conv("c", 5, "French"),
		conv("d", 2, "English"),
	)
	f := NewFilter(src)

	assert.Equal(t, []string{"b", "d"}, drain(t, f))
	assert.Equal(t, 4, f.Scanned())
	assert.Equal(t, 2, f.Accepted())
	assert.Equal(t, 2, f.Rejected())
}

func TestFilterStopsAtLimitWithoutConsuming(t *testing.T) {
	src := NewSliceSource(
		conv("a", 2, "English"),
		conv("b", 2, "English"),
		conv("c", 2, "English"),
		conv("d", 2, "English"),
	)
	f := NewFilter(src, WithLimit(2))

	assert.Equal(t, []string{"a", "b"}, drain(t, f))
	assert.Equal(t, 2, src.Consumed())

	_, err := f.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, src.Consumed())
}

func TestFilterOptions(t *testing.T) {
	src := NewSliceSource(
		conv("a", 2, "English"),
		conv("b", 4, "French"),
		conv("c", 5, "French"),
	)
	f := NewFilter(src, WithMinTurn(5), WithLanguage("French"))

	assert.Equal(t, []string{"c"}, drain(t, f))
}

type failingSource struct{ err error }

func (s failingSource) Next(ctx context.Context) (*sessiongen.Conversation, error) {
	return nil, s.err
}

func TestFilterPropagatesSourceErrors(t *testing.T) {
	boom := errors.New("boom")
	f := NewFilter(failingSource{err: boom})

	_, err := f.Next(context.Background())
	assert.ErrorIs(t, err, boom)
}
