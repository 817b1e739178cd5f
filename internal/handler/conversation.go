package handler

import (
	"log/slog"
	"net/http"

	chatSvc "aichat/internal/domain/services/chat"
	"aichat/internal/httputil"
)

// ConversationHandler handles conversation HTTP requests
type ConversationHandler struct {
	conversationService chatSvc.ConversationService
	logger              *slog.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversationService chatSvc.ConversationService, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		logger:              logger,
	}
}

// CreateConversation creates an empty conversation
// POST /api/conversations
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req chatSvc.CreateConversationRequest
	// an empty body is allowed
	if r.ContentLength != 0 {
		if !parseBody(w, r, &req) {
			return
		}
	}

	id, err := h.conversationService.CreateConversation(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// ListConversations returns all conversation summaries, most recently active first
// GET /api/conversations
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.conversationService.ListConversations(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summaries)
}

// GetConversation returns a conversation with its messages
// GET /api/conversations/{id}
func (h *ConversationHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	conv, err := h.conversationService.GetConversation(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conv)
}

// DeleteConversation hard-deletes a conversation
// DELETE /api/conversations/{id}
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	if err := h.conversationService.DeleteConversation(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
}

// UpdateSystemPrompt replaces a conversation's system prompt
// PUT /api/conversations/{id}/system-prompt
func (h *ConversationHandler) UpdateSystemPrompt(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	var body struct {
		SystemPrompt httputil.OptionalString `json:"system_prompt"`
	}
	if !parseBody(w, r, &body) {
		return
	}
	if !body.SystemPrompt.Set() {
		httputil.RespondError(w, http.StatusBadRequest, "system_prompt is required")
		return
	}

	req := chatSvc.UpdateSystemPromptRequest{SystemPrompt: *body.SystemPrompt.Value}
	if err := h.conversationService.UpdateSystemPrompt(r.Context(), id, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, statusResponse{Status: "updated"})
}
