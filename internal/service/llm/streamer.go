package llm

import (
	"context"
	"fmt"
	"log/slog"

	chatModels "aichat/internal/domain/models/chat"
	domainchat "aichat/internal/domain/services/chat"
	domainllm "aichat/internal/domain/services/llm"
	"aichat/internal/metrics"
)

// Streamer turns conversation history into assistant text fragments
type Streamer struct {
	registry *ProviderRegistry
	model    string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

var _ domainchat.ResponseStreamer = (*Streamer)(nil)

// NewStreamer creates a streamer that answers with model
func NewStreamer(registry *ProviderRegistry, model string, m *metrics.Metrics, logger *slog.Logger) *Streamer {
	return &Streamer{
		registry: registry,
		model:    model,
		metrics:  m,
		logger:   logger,
	}
}

// Stream sends the optional system prompt followed by history to the provider and yields
// each non-empty content delta. Any failure ends the sequence with one "[Error: ...]" fragment.
func (s *Streamer) Stream(ctx context.Context, history []chatModels.Message, systemPrompt string) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		provider, model, err := s.registry.Resolve(s.model)
		if err != nil {
			s.fail(ctx, out, "resolve", err)
			return
		}

		req := &domainllm.GenerateRequest{
			Model:    model,
			Messages: BuildPayload(history, systemPrompt),
		}

		events, err := provider.StreamResponse(ctx, req)
		if err != nil {
			s.metrics.ProviderError(provider.Name(), "stream")
			s.fail(ctx, out, "stream", err)
			return
		}

		for ev := range events {
			if ev.Error != nil {
				s.metrics.ProviderError(provider.Name(), "stream")
				s.fail(ctx, out, "stream", ev.Error)
				// drain whatever the provider still has buffered
				for range events {
				}
				return
			}
			if ev.TextDelta == "" {
				continue
			}
			select {
			case out <- ev.TextDelta:
			case <-ctx.Done():
				for range events {
				}
				return
			}
		}
	}()

	return out
}

func (s *Streamer) fail(ctx context.Context, out chan<- string, stage string, err error) {
	s.logger.Error("LLM stream failed", "model", s.model, "stage", stage, "error", err)
	select {
	case out <- ErrorFragment(err):
	case <-ctx.Done():
	}
}

// ErrorFragment renders a provider failure as in-band assistant text
func ErrorFragment(err error) string {
	return fmt.Sprintf("[Error: %s]", err.Error())
}

// BuildPayload lays out the provider messages: the system prompt first when non-empty,
// then every history message in order with only role and content.
func BuildPayload(history []chatModels.Message, systemPrompt string) []domainllm.Message {
	payload := make([]domainllm.Message, 0, len(history)+1)
	if systemPrompt != "" {
		payload = append(payload, domainllm.Message{Role: string(chatModels.RoleSystem), Content: systemPrompt})
	}
	for _, msg := range history {
		payload = append(payload, domainllm.Message{Role: string(msg.Role), Content: msg.Content})
	}
	return payload
}
