package llm

import (
	"context"
	"log/slog"
	"strings"

	"aichat/internal/config"
	chatModels "aichat/internal/domain/models/chat"
	domainchat "aichat/internal/domain/services/chat"
	domainllm "aichat/internal/domain/services/llm"
	"aichat/internal/metrics"
)

// TitleInstruction is the system prompt used to name a conversation.
// It asks for a title of at most ten characters, output on its own.
const TitleInstruction = "ユーザーのメッセージから会話のタイトルを10文字以内で生成してください。タイトルのみを出力してください。"

// TitleService names conversations from their first user message
type TitleService struct {
	registry *ProviderRegistry
	model    string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

var _ domainchat.TitleGenerator = (*TitleService)(nil)

// NewTitleService creates a title generator that asks model for titles
func NewTitleService(registry *ProviderRegistry, model string, m *metrics.Metrics, logger *slog.Logger) *TitleService {
	return &TitleService{
		registry: registry,
		model:    model,
		metrics:  m,
		logger:   logger,
	}
}

// Generate asks the title model for a short label.
// Any failure, or an empty answer, falls back to FallbackTitle.
func (s *TitleService) Generate(ctx context.Context, firstMessage string) string {
	title, err := s.generate(ctx, firstMessage)
	if err != nil || title == "" {
		if err != nil {
			s.logger.Warn("title generation failed, using fallback", "model", s.model, "error", err)
		}
		s.metrics.Title(true)
		return FallbackTitle(firstMessage)
	}
	s.metrics.Title(false)
	return title
}

func (s *TitleService) generate(ctx context.Context, firstMessage string) (string, error) {
	provider, model, err := s.registry.Resolve(s.model)
	if err != nil {
		return "", err
	}

	resp, err := provider.GenerateResponse(ctx, &domainllm.GenerateRequest{
		Model: model,
		Messages: []domainllm.Message{
			{Role: string(chatModels.RoleSystem), Content: TitleInstruction},
			{Role: string(chatModels.RoleUser), Content: firstMessage},
		},
		MaxTokens: config.TitleMaxTokens,
	})
	if err != nil {
		s.metrics.ProviderError(provider.Name(), "title")
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// FallbackTitle is the first TitleFallbackLength characters of message,
// with "..." appended when anything was cut.
func FallbackTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= config.TitleFallbackLength {
		return message
	}
	return string(runes[:config.TitleFallbackLength]) + "..."
}
