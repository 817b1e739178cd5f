package chat

import (
	"context"

	"aichat/internal/domain/models/chat"
)

// ChatService orchestrates a single user turn: load or create the conversation, persist the
// user message, name the conversation on its first turn, stream the reply and persist it.
type ChatService interface {
	// HandleTurn validates the request and performs every step that must succeed before
	// streaming starts. Errors returned here (domain.ErrNotFound, domain.ErrValidation,
	// store failures) happen before any event is emitted.
	// The returned Turn's Events channel carries conversation_id, message*, done and is then closed.
	HandleTurn(ctx context.Context, req *TurnRequest) (*Turn, error)
}

// TurnRequest is the DTO for POST /api/chat
type TurnRequest struct {
	Message        string  `json:"message"`
	ConversationID *string `json:"conversation_id,omitempty"`
	SystemPrompt   *string `json:"system_prompt,omitempty"`
}

// Turn is an in-flight chat turn
type Turn struct {
	ConversationID string
	Events         <-chan chat.TurnEvent
}

// ResponseStreamer turns message history into a finite sequence of text fragments
type ResponseStreamer interface {
	// Stream never fails: provider errors become a single "[Error: ...]" fragment.
	// The returned channel is closed when the sequence ends.
	Stream(ctx context.Context, history []chat.Message, systemPrompt string) <-chan string
}

// TitleGenerator produces a short label from the first user message
type TitleGenerator interface {
	// Generate never fails; it falls back to a truncation of firstMessage.
	Generate(ctx context.Context, firstMessage string) string
}
