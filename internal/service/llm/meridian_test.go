package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainllm "aichat/internal/domain/services/llm"
)

func TestToLibraryRequest(t *testing.T) {
	t.Run("system entry lifted into params", func(t *testing.T) {
		req := toLibraryRequest(&domainllm.GenerateRequest{
			Model: "claude-haiku-4-5",
			Messages: []domainllm.Message{
				{Role: "system", Content: "be brief"},
				{Role: "user", Content: "hello"},
				{Role: "assistant", Content: "hi"},
			},
		})

		assert.Equal(t, "claude-haiku-4-5", req.Model)
		require.NotNil(t, req.Params)
		require.NotNil(t, req.Params.System)
		assert.Equal(t, "be brief", *req.Params.System)

		require.Len(t, req.Messages, 2)
		assert.Equal(t, "user", req.Messages[0].Role)
		require.Len(t, req.Messages[0].Blocks, 1)
		assert.Equal(t, "text", req.Messages[0].Blocks[0].BlockType)
		assert.Equal(t, "hello", *req.Messages[0].Blocks[0].TextContent)
		assert.Equal(t, "hi", *req.Messages[1].Blocks[0].TextContent)
	})

	t.Run("no system entry leaves params unset", func(t *testing.T) {
		req := toLibraryRequest(&domainllm.GenerateRequest{
			Model:    "lorem-fast",
			Messages: []domainllm.Message{{Role: "user", Content: "x"}},
		})
		assert.Nil(t, req.Params)
		require.Len(t, req.Messages, 1)
	})
}
