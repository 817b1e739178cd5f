package llm

import (
	"context"
)

// Provider defines the interface that all LLM providers must implement.
// This abstraction allows supporting multiple providers (OpenAI, Anthropic, lorem)
// while the streamer and title generator stay provider-agnostic.
type Provider interface {
	// Name returns the provider name (e.g., "openai", "anthropic")
	Name() string

	// GenerateResponse performs a single non-streaming completion.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// StreamResponse opens a streaming completion.
	// The channel is closed when the provider is done. An event carrying Error is
	// the last event sent, whether the failure happened before or mid-stream.
	StreamResponse(ctx context.Context, req *GenerateRequest) (<-chan StreamEvent, error)
}

// GenerateRequest contains the parameters for an LLM generation request.
type GenerateRequest struct {
	// Model is the provider-local model identifier (e.g., "gpt-4o")
	Model string

	// Messages is the full payload in order, including an optional leading system entry.
	Messages []Message

	// MaxTokens caps the output; zero means provider default
	MaxTokens int
}

// Message is one {role, content} entry of the provider payload.
type Message struct {
	Role    string
	Content string
}

// GenerateResponse contains the LLM provider's non-streaming response.
type GenerateResponse struct {
	Text       string
	Model      string
	StopReason string
}

// StreamEvent is one item of a streaming completion.
type StreamEvent struct {
	TextDelta string
	Error     error
}
