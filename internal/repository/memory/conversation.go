package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"aichat/internal/domain"
	chatModels "aichat/internal/domain/models/chat"
	chatRepo "aichat/internal/domain/repositories/chat"
)

// ConversationRepository is an in-process ConversationRepository.
// It mirrors the ordering semantics of the persistent stores so it can stand in for them
// in development and tests. State is lost on Close.
type ConversationRepository struct {
	mu                  sync.Mutex
	conversations       map[string]*chatModels.Conversation
	defaultSystemPrompt string
	now                 func() time.Time
}

var _ chatRepo.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates an empty in-memory store
func NewConversationRepository(defaultSystemPrompt string) *ConversationRepository {
	return &ConversationRepository{
		conversations:       make(map[string]*chatModels.Conversation),
		defaultSystemPrompt: defaultSystemPrompt,
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new, empty conversation
func (r *ConversationRepository) Create(_ context.Context, systemPrompt string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = r.defaultSystemPrompt
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	id := uuid.New().String()
	r.conversations[id] = &chatModels.Conversation{
		ID:           id,
		Messages:     []chatModels.Message{},
		SystemPrompt: systemPrompt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return id, nil
}

// Get returns a copy of the conversation
func (r *ConversationRepository) Get(_ context.Context, id string) (*chatModels.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
	}
	return cloneConversation(conv), nil
}

// ListSummaries returns all conversations, most recently updated first
func (r *ConversationRepository) ListSummaries(_ context.Context) ([]chatModels.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	summaries := make([]chatModels.ConversationSummary, 0, len(r.conversations))
	for _, conv := range r.conversations {
		summaries = append(summaries, conv.Summary())
	}
	chatModels.SortByRecent(summaries)
	return summaries, nil
}

// AppendMessage appends a message and bumps updated_at
func (r *ConversationRepository) AppendMessage(_ context.Context, id string, role chatModels.Role, content string) error {
	if !role.Valid() {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid message role %q", role)}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
	}

	now := r.now()
	conv.Messages = append(conv.Messages, chatModels.Message{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	if now.After(conv.UpdatedAt) {
		conv.UpdatedAt = now
	}
	return nil
}

// SetTitle overwrites the title
func (r *ConversationRepository) SetTitle(_ context.Context, id, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
	}
	conv.Title = title
	return nil
}

// SetSystemPrompt overwrites the system prompt; it reports false when the conversation
// is absent or already has that prompt
func (r *ConversationRepository) SetSystemPrompt(_ context.Context, id, systemPrompt string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok || conv.SystemPrompt == systemPrompt {
		return false, nil
	}
	conv.SystemPrompt = systemPrompt
	return true, nil
}

// Delete removes a conversation
func (r *ConversationRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conversations[id]; !ok {
		return false, nil
	}
	delete(r.conversations, id)
	return true, nil
}

// Close drops all state
func (r *ConversationRepository) Close(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations = make(map[string]*chatModels.Conversation)
	return nil
}

func cloneConversation(conv *chatModels.Conversation) *chatModels.Conversation {
	out := *conv
	out.Messages = make([]chatModels.Message, len(conv.Messages))
	copy(out.Messages, conv.Messages)
	return &out
}
