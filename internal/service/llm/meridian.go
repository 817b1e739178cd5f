package llm

import (
	"context"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"

	domainllm "aichat/internal/domain/services/llm"
)

// MeridianAdapter wraps a meridian-llm-go provider (anthropic, lorem) and implements Provider.
// The library speaks in content blocks; this adapter converts to and from plain text.
type MeridianAdapter struct {
	provider llmprovider.Provider
}

var _ domainllm.Provider = (*MeridianAdapter)(nil)

// NewMeridianAdapter creates an adapter from an existing library provider.
func NewMeridianAdapter(provider llmprovider.Provider) *MeridianAdapter {
	return &MeridianAdapter{provider: provider}
}

// Name returns the provider name.
func (a *MeridianAdapter) Name() string {
	return a.provider.Name().String()
}

// GenerateResponse concatenates the text blocks of a non-streaming response.
func (a *MeridianAdapter) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	libResp, err := a.provider.GenerateResponse(ctx, toLibraryRequest(req))
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range libResp.Blocks {
		if block == nil || block.TextContent == nil {
			continue
		}
		if block.BlockType != "" && block.BlockType != blockTypeText {
			continue
		}
		text.WriteString(*block.TextContent)
	}

	return &domainllm.GenerateResponse{
		Text:       text.String(),
		Model:      libResp.Model,
		StopReason: libResp.StopReason,
	}, nil
}

// StreamResponse forwards text deltas from the library stream.
// Other delta kinds (thinking, tool input) are dropped.
func (a *MeridianAdapter) StreamResponse(ctx context.Context, req *domainllm.GenerateRequest) (<-chan domainllm.StreamEvent, error) {
	libEventCh, err := a.provider.StreamResponse(ctx, toLibraryRequest(req))
	if err != nil {
		return nil, err
	}

	eventCh := make(chan domainllm.StreamEvent)
	go func() {
		defer close(eventCh)
		// once an error has been sent (or ctx is done) the rest of the library stream is
		// drained without forwarding so its goroutine can exit
		done := false
		for libEvent := range libEventCh {
			if done {
				continue
			}
			if libEvent.Error != nil {
				send(ctx, eventCh, domainllm.StreamEvent{Error: libEvent.Error})
				done = true
				continue
			}
			if libEvent.Delta == nil || libEvent.Delta.TextDelta == nil || *libEvent.Delta.TextDelta == "" {
				continue
			}
			if libEvent.Delta.DeltaType != "" && libEvent.Delta.DeltaType != deltaTypeText {
				continue
			}
			if !send(ctx, eventCh, domainllm.StreamEvent{TextDelta: *libEvent.Delta.TextDelta}) {
				done = true
			}
		}
	}()

	return eventCh, nil
}

const (
	blockTypeText  = "text"
	deltaTypeText  = "text_delta"
	roleSystemName = "system"
)

// toLibraryRequest converts the flat payload into library messages.
// A system entry is lifted into Params.System; the library providers take it out of band.
func toLibraryRequest(req *domainllm.GenerateRequest) *llmprovider.GenerateRequest {
	var systemParts []string
	messages := make([]llmprovider.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		if msg.Role == roleSystemName {
			systemParts = append(systemParts, msg.Content)
			continue
		}
		content := msg.Content
		messages = append(messages, llmprovider.Message{
			Role: msg.Role,
			Blocks: []*llmprovider.Block{{
				BlockType:   blockTypeText,
				Sequence:    0,
				TextContent: &content,
			}},
		})
	}

	libReq := &llmprovider.GenerateRequest{
		Messages: messages,
		Model:    req.Model,
	}
	if len(systemParts) > 0 {
		system := strings.Join(systemParts, "\n\n")
		libReq.Params = &llmprovider.RequestParams{System: &system}
	}
	return libReq
}
