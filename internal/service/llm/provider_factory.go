package llm

import (
	"fmt"

	"github.com/haowjy/meridian-llm-go/providers/anthropic"
	"github.com/haowjy/meridian-llm-go/providers/lorem"

	"aichat/internal/config"
	domainllm "aichat/internal/domain/services/llm"
)

// ProviderFactory creates LLM provider instances from configuration
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "openai" - GPT models via the OpenAI API (or OPENAI_BASE_URL)
//   - "anthropic" - Claude models via Anthropic API
//   - "lorem" - Mock provider for testing (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (domainllm.Provider, error) {
	switch providerName {
	case "openai":
		return f.createOpenAIProvider()

	case "anthropic":
		return f.createAnthropicProvider()

	case "lorem":
		return f.createLoremProvider(), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

func (f *ProviderFactory) createOpenAIProvider() (domainllm.Provider, error) {
	if f.config.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return NewOpenAIProvider(f.config.OpenAIAPIKey, f.config.OpenAIBaseURL), nil
}

func (f *ProviderFactory) createAnthropicProvider() (domainllm.Provider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}

	return NewMeridianAdapter(provider), nil
}

// createLoremProvider creates the lorem ipsum mock provider; it needs no API key
func (f *ProviderFactory) createLoremProvider() domainllm.Provider {
	return NewMeridianAdapter(lorem.NewProvider())
}
