package chat

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"aichat/internal/config"
	"aichat/internal/domain"
	chatModels "aichat/internal/domain/models/chat"
	chatRepo "aichat/internal/domain/repositories/chat"
	chatSvc "aichat/internal/domain/services/chat"
)

// ConversationService implements the ConversationService interface
// Handles only conversation management (CRUD operations)
type ConversationService struct {
	repo   chatRepo.ConversationRepository
	logger *slog.Logger
}

var _ chatSvc.ConversationService = (*ConversationService)(nil)

// NewConversationService creates a new conversation CRUD service
func NewConversationService(repo chatRepo.ConversationRepository, logger *slog.Logger) *ConversationService {
	return &ConversationService{
		repo:   repo,
		logger: logger,
	}
}

// CreateConversation creates an empty conversation
func (s *ConversationService) CreateConversation(ctx context.Context, req *chatSvc.CreateConversationRequest) (string, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.SystemPrompt, validation.RuneLength(0, config.MaxSystemPromptLength)),
	); err != nil {
		return "", &domain.ValidationError{Message: err.Error()}
	}

	systemPrompt := ""
	if req.SystemPrompt != nil {
		systemPrompt = *req.SystemPrompt
	}

	id, err := s.repo.Create(ctx, systemPrompt)
	if err != nil {
		return "", err
	}

	s.logger.Info("conversation created", "conversation_id", id)
	return id, nil
}

// ListConversations returns summaries, most recently active first
func (s *ConversationService) ListConversations(ctx context.Context) ([]chatModels.ConversationSummary, error) {
	return s.repo.ListSummaries(ctx)
}

// GetConversation retrieves a conversation by ID
func (s *ConversationService) GetConversation(ctx context.Context, id string) (*chatModels.Conversation, error) {
	return s.repo.Get(ctx, id)
}

// DeleteConversation hard-deletes a conversation
func (s *ConversationService) DeleteConversation(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
	}

	s.logger.Info("conversation deleted", "conversation_id", id)
	return nil
}

// UpdateSystemPrompt overwrites the stored system prompt
func (s *ConversationService) UpdateSystemPrompt(ctx context.Context, id string, req *chatSvc.UpdateSystemPromptRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.SystemPrompt, validation.RuneLength(0, config.MaxSystemPromptLength)),
	); err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}

	modified, err := s.repo.SetSystemPrompt(ctx, id, req.SystemPrompt)
	if err != nil {
		return err
	}
	if !modified {
		return &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
	}

	s.logger.Info("system prompt updated", "conversation_id", id)
	return nil
}
