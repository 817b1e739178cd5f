package llm

import (
	"fmt"
	"log/slog"

	"aichat/internal/config"
	"aichat/internal/metrics"
)

// Services holds the LLM-backed collaborators of the chat orchestrator
type Services struct {
	Registry *ProviderRegistry
	Streamer *Streamer
	Titles   *TitleService
}

// SetupProviders initializes the provider factory and registry for routing.
// Returns a configured ProviderRegistry or an error if setup fails.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (*ProviderRegistry, error) {
	providerFactory := NewProviderFactory(cfg)
	registry := NewProviderRegistry(providerFactory.GetProvider)

	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("provider registry validation failed: %w", err)
	}

	// Log available providers based on config
	if cfg.OpenAIAPIKey != "" {
		logger.Info("provider available", "name", "openai", "models", "gpt-*, o1*, o3*, o4*")
	} else {
		logger.Warn("OPENAI_API_KEY not set - OpenAI provider not available")
	}
	if cfg.AnthropicAPIKey != "" {
		logger.Info("provider available", "name", "anthropic", "models", "claude-*")
	}
	logger.Info("provider available", "name", "lorem", "models", "lorem-*")

	// Catch a bad DEFAULT_MODEL at startup rather than on the first turn
	for _, model := range []string{cfg.DefaultModel, cfg.TitleModel} {
		if _, err := ParseModel(model); err != nil {
			return nil, fmt.Errorf("invalid model %q: %w", model, err)
		}
	}

	logger.Info("provider registry initialized", "chat_model", cfg.DefaultModel, "title_model", cfg.TitleModel)
	return registry, nil
}

// SetupServices wires the streamer and title generator on top of the registry
func SetupServices(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*Services, error) {
	registry, err := SetupProviders(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Services{
		Registry: registry,
		Streamer: NewStreamer(registry, cfg.DefaultModel, m, logger),
		Titles:   NewTitleService(registry, cfg.TitleModel, m, logger),
	}, nil
}
