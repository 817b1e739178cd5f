package handler

import (
	"net/http"
)

// Handlers groups everything RegisterRoutes mounts
type Handlers struct {
	Chat          *ChatHandler
	Conversations *ConversationHandler
	Models        *ModelsHandler
	Metrics       http.Handler
}

// RegisterRoutes mounts the API on mux (Go 1.22+ method patterns)
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	// Health check
	mux.HandleFunc("GET /health", Health)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	// Chat (SSE)
	mux.HandleFunc("POST /api/chat", h.Chat.Chat)

	// Conversation routes
	mux.HandleFunc("GET /api/conversations", h.Conversations.ListConversations)
	mux.HandleFunc("POST /api/conversations", h.Conversations.CreateConversation)
	mux.HandleFunc("GET /api/conversations/{id}", h.Conversations.GetConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", h.Conversations.DeleteConversation)
	mux.HandleFunc("PUT /api/conversations/{id}/system-prompt", h.Conversations.UpdateSystemPrompt)

	if h.Models != nil {
		mux.HandleFunc("GET /api/models", h.Models.GetModels)
	}
}
