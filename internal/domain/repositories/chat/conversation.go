package chat

import (
	"context"

	"aichat/internal/domain/models/chat"
)

// ConversationRepository defines the interface for conversation data access.
// Implementations treat a malformed ID exactly like an unknown one.
type ConversationRepository interface {
	// Create stores a new, empty conversation and returns its ID.
	// An empty systemPrompt is replaced by the repository's default.
	Create(ctx context.Context, systemPrompt string) (string, error)

	// Get retrieves a conversation with its full message log
	// Returns domain.ErrNotFound if not found
	Get(ctx context.Context, id string) (*chat.Conversation, error)

	// ListSummaries returns every conversation ordered by updated_at descending
	// Returns empty slice if there are none
	ListSummaries(ctx context.Context) ([]chat.ConversationSummary, error)

	// AppendMessage atomically appends one message and bumps updated_at
	// Returns domain.ErrNotFound if not found
	AppendMessage(ctx context.Context, id string, role chat.Role, content string) error

	// SetTitle overwrites the title
	// Returns domain.ErrNotFound if not found
	SetTitle(ctx context.Context, id, title string) error

	// SetSystemPrompt overwrites the system prompt
	// Returns false if no such conversation exists or the prompt is unchanged
	SetSystemPrompt(ctx context.Context, id, systemPrompt string) (bool, error)

	// Delete hard-deletes a conversation
	// Returns false if nothing was deleted
	Delete(ctx context.Context, id string) (bool, error)

	// Close releases the underlying connection
	Close(ctx context.Context) error
}
