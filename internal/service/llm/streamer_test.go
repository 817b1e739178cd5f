package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatModels "aichat/internal/domain/models/chat"
	domainllm "aichat/internal/domain/services/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildPayload(t *testing.T) {
	history := []chatModels.Message{
		{Role: chatModels.RoleUser, Content: "hello", Timestamp: time.Now()},
		{Role: chatModels.RoleAssistant, Content: "hi"},
		{Role: chatModels.RoleUser, Content: "how are you"},
	}

	t.Run("with system prompt", func(t *testing.T) {
		payload := BuildPayload(history, "be nice")
		require.Len(t, payload, 4)
		assert.Equal(t, domainllm.Message{Role: "system", Content: "be nice"}, payload[0])
		assert.Equal(t, domainllm.Message{Role: "user", Content: "hello"}, payload[1])
		assert.Equal(t, domainllm.Message{Role: "assistant", Content: "hi"}, payload[2])
		assert.Equal(t, domainllm.Message{Role: "user", Content: "how are you"}, payload[3])
	})

	t.Run("empty system prompt is omitted", func(t *testing.T) {
		payload := BuildPayload(history, "")
		require.Len(t, payload, 3)
		assert.Equal(t, "user", payload[0].Role)
	})
}

func TestStreamer_Stream(t *testing.T) {
	history := []chatModels.Message{{Role: chatModels.RoleUser, Content: "hello"}}

	tests := []struct {
		name     string
		provider *fakeProvider
		want     []string
	}{
		{
			name:     "forwards deltas in order",
			provider: &fakeProvider{deltas: []string{"Hel", "lo", "!"}},
			want:     []string{"Hel", "lo", "!"},
		},
		{
			name:     "skips empty deltas",
			provider: &fakeProvider{deltas: []string{"a", "", "b"}},
			want:     []string{"a", "b"},
		},
		{
			name:     "open failure becomes single error fragment",
			provider: &fakeProvider{streamErr: errors.New("bad key")},
			want:     []string{"[Error: bad key]"},
		},
		{
			name:     "mid-stream failure keeps earlier fragments",
			provider: &fakeProvider{deltas: []string{"par", "tial"}, midErr: errors.New("connection reset")},
			want:     []string{"par", "tial", "[Error: connection reset]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStreamer(registryWith(tt.provider), "gpt-4o", nil, discardLogger())
			got := collect(s.Stream(context.Background(), history, "sys"))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStreamer_SendsModelAndPayload(t *testing.T) {
	provider := &fakeProvider{deltas: []string{"ok"}}
	s := NewStreamer(registryWith(provider), "openai/gpt-4o", nil, discardLogger())

	collect(s.Stream(context.Background(), []chatModels.Message{{Role: chatModels.RoleUser, Content: "q"}}, "sys"))

	req := provider.lastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, []domainllm.Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "q"},
	}, req.Messages)
}

func TestStreamer_UnknownModel(t *testing.T) {
	s := NewStreamer(registryWith(&fakeProvider{}), "mystery-model", nil, discardLogger())
	got := collect(s.Stream(context.Background(), nil, ""))
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "[Error: ")
	assert.Contains(t, got[0], "mystery-model")
}
