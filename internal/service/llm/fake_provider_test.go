package llm

import (
	"context"
	"sync"

	"aichat/internal/config"
	domainllm "aichat/internal/domain/services/llm"
)

// fakeProvider is a scripted Provider for tests
type fakeProvider struct {
	mu        sync.Mutex
	deltas    []string
	streamErr error // returned from StreamResponse
	midErr    error // sent as the last event after deltas
	text      string
	genErr    error
	requests  []*domainllm.GenerateRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) GenerateResponse(_ context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	f.record(req)
	if f.genErr != nil {
		return nil, f.genErr
	}
	return &domainllm.GenerateResponse{Text: f.text, Model: req.Model}, nil
}

func (f *fakeProvider) StreamResponse(_ context.Context, req *domainllm.GenerateRequest) (<-chan domainllm.StreamEvent, error) {
	f.record(req)
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	ch := make(chan domainllm.StreamEvent, len(f.deltas)+1)
	for _, d := range f.deltas {
		ch <- domainllm.StreamEvent{TextDelta: d}
	}
	if f.midErr != nil {
		ch <- domainllm.StreamEvent{Error: f.midErr}
	}
	close(ch)
	return ch, nil
}

func (f *fakeProvider) record(req *domainllm.GenerateRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
}

func (f *fakeProvider) lastRequest() *domainllm.GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func registryWith(p domainllm.Provider) *ProviderRegistry {
	return NewProviderRegistry(func(string) (domainllm.Provider, error) { return p, nil })
}

func collect(ch <-chan string) []string {
	var out []string
	for s := range ch {
		out = append(out, s)
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{Environment: "test"}
}
