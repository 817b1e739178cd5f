package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	domainllm "aichat/internal/domain/services/llm"
)

// OpenAIProvider talks to the OpenAI chat completions API (or any compatible endpoint)
type OpenAIProvider struct {
	client *openai.Client
}

var _ domainllm.Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a provider; baseURL may be empty for the public API
func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg)}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// GenerateResponse performs a single non-streaming completion.
func (p *OpenAIProvider) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, toOpenAIRequest(req, false))
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai completion: no choices returned")
	}

	return &domainllm.GenerateResponse{
		Text:       resp.Choices[0].Message.Content,
		Model:      resp.Model,
		StopReason: string(resp.Choices[0].FinishReason),
	}, nil
}

// StreamResponse opens a streaming completion and forwards non-empty content deltas.
func (p *OpenAIProvider) StreamResponse(ctx context.Context, req *domainllm.GenerateRequest) (<-chan domainllm.StreamEvent, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, toOpenAIRequest(req, true))
	if err != nil {
		return nil, fmt.Errorf("openai stream: %w", err)
	}

	eventCh := make(chan domainllm.StreamEvent)
	go func() {
		defer close(eventCh)
		defer stream.Close()

		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				send(ctx, eventCh, domainllm.StreamEvent{Error: err})
				return
			}
			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				if !send(ctx, eventCh, domainllm.StreamEvent{TextDelta: choice.Delta.Content}) {
					return
				}
			}
		}
	}()

	return eventCh, nil
}

func toOpenAIRequest(req *domainllm.GenerateRequest, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    strings.ToLower(msg.Role),
			Content: msg.Content,
		})
	}
	return openai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
		Stream:    stream,
	}
}

// send delivers ev unless ctx is done; it reports whether the event was delivered
func send(ctx context.Context, ch chan<- domainllm.StreamEvent, ev domainllm.StreamEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
