package llm

import (
	"fmt"
	"sync"

	domainllm "aichat/internal/domain/services/llm"
)

// ProviderFactoryFunc creates a provider by name
type ProviderFactoryFunc func(provider string) (domainllm.Provider, error)

// ProviderRegistry routes model strings to provider instances.
// Uses ParseModel to extract the provider, then the factory to create it on first use.
type ProviderRegistry struct {
	factory ProviderFactoryFunc
	cache   map[string]domainllm.Provider
	mu      sync.RWMutex
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry(factory ProviderFactoryFunc) *ProviderRegistry {
	return &ProviderRegistry{
		factory: factory,
		cache:   make(map[string]domainllm.Provider),
	}
}

// GetProvider returns the provider for the given provider name, creating and caching it.
func (r *ProviderRegistry) GetProvider(provider string) (domainllm.Provider, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	// Fast path: check cache with read lock
	r.mu.RLock()
	if cached, exists := r.cache[provider]; exists {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check cache after acquiring write lock
	if cached, exists := r.cache[provider]; exists {
		return cached, nil
	}

	created, err := r.factory(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", provider, err)
	}

	r.cache[provider] = created
	return created, nil
}

// Resolve parses a model string and returns its provider plus the provider-local model name.
func (r *ProviderRegistry) Resolve(model string) (domainllm.Provider, string, error) {
	info, err := ParseModel(model)
	if err != nil {
		return nil, "", err
	}
	provider, err := r.GetProvider(info.Provider)
	if err != nil {
		return nil, "", err
	}
	return provider, info.Model, nil
}

// Validate checks if the factory is properly configured.
// Should be called at startup to fail fast if misconfigured.
func (r *ProviderRegistry) Validate() error {
	if r.factory == nil {
		return fmt.Errorf("provider factory is not configured")
	}
	return nil
}
