package handler

import (
	"log/slog"
	"net/http"

	chatSvc "aichat/internal/domain/services/chat"
)

// ChatHandler handles the streaming chat endpoint
type ChatHandler struct {
	chatService chatSvc.ChatService
	sse         *SSEHandler
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService chatSvc.ChatService, sse *SSEHandler, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		sse:         sse,
		logger:      logger,
	}
}

// Chat runs one turn and streams it as SSE
// POST /api/chat
// Validation and unknown conversations fail with a plain JSON error before the stream opens.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatSvc.TurnRequest
	if !parseBody(w, r, &req) {
		return
	}

	turn, err := h.chatService.HandleTurn(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.sse.StreamTurn(w, r, turn)
}
