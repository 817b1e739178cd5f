package chat

import (
	"context"

	"aichat/internal/domain/models/chat"
)

// ConversationService handles conversation management (CRUD operations).
// For turn orchestration, see ChatService.
type ConversationService interface {
	// CreateConversation creates an empty conversation and returns its ID
	CreateConversation(ctx context.Context, req *CreateConversationRequest) (string, error)

	// ListConversations returns summaries ordered by most recent activity
	ListConversations(ctx context.Context) ([]chat.ConversationSummary, error)

	// GetConversation returns the full conversation
	// Returns domain.ErrNotFound if not found
	GetConversation(ctx context.Context, id string) (*chat.Conversation, error)

	// DeleteConversation hard-deletes a conversation
	// Returns domain.ErrNotFound if not found
	DeleteConversation(ctx context.Context, id string) error

	// UpdateSystemPrompt overwrites the stored system prompt
	// Returns domain.ErrNotFound if not found or the prompt is unchanged
	UpdateSystemPrompt(ctx context.Context, id string, req *UpdateSystemPromptRequest) error
}

// CreateConversationRequest is the DTO for POST /api/conversations
type CreateConversationRequest struct {
	SystemPrompt *string `json:"system_prompt,omitempty"`
}

// UpdateSystemPromptRequest is the DTO for PUT /api/conversations/{id}/system-prompt
type UpdateSystemPromptRequest struct {
	SystemPrompt string `json:"system_prompt"`
}
