package llm

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainllm "aichat/internal/domain/services/llm"
)

func TestProviderRegistry_CachesInstances(t *testing.T) {
	var created int32
	registry := NewProviderRegistry(func(name string) (domainllm.Provider, error) {
		atomic.AddInt32(&created, 1)
		return &fakeProvider{}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := registry.GetProvider("openai")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&created))
}

func TestProviderRegistry_Resolve(t *testing.T) {
	fake := &fakeProvider{}
	registry := NewProviderRegistry(func(name string) (domainllm.Provider, error) {
		if name != "openai" {
			return nil, errors.New("unsupported provider: " + name)
		}
		return fake, nil
	})

	provider, model, err := registry.Resolve("gpt-4o")
	require.NoError(t, err)
	assert.Same(t, fake, provider)
	assert.Equal(t, "gpt-4o", model)

	_, _, err = registry.Resolve("claude-haiku-4-5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic")

	_, _, err = registry.Resolve("")
	require.Error(t, err)
}

func TestProviderFactory_MissingKeys(t *testing.T) {
	factory := NewProviderFactory(testConfig())

	_, err := factory.GetProvider("openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	_, err = factory.GetProvider("anthropic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")

	_, err = factory.GetProvider("gemini")
	require.Error(t, err)

	lorem, err := factory.GetProvider("lorem")
	require.NoError(t, err)
	assert.NotNil(t, lorem)
}

func TestSetupServices(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultModel = "lorem-fast"
	cfg.TitleModel = "lorem-fast"

	services, err := SetupServices(cfg, nil, discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, services.Streamer)
	assert.NotNil(t, services.Titles)

	cfg.DefaultModel = "unknown-model"
	_, err = SetupServices(cfg, nil, discardLogger())
	require.Error(t, err)
}
