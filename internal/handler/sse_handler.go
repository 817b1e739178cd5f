package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	chatSvc "aichat/internal/domain/services/chat"
	"aichat/internal/handler/sse"
)

// SSEHandler writes a turn's events to the client as Server-Sent Events
type SSEHandler struct {
	config *sse.Config
	logger *slog.Logger
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(config *sse.Config, logger *slog.Logger) *SSEHandler {
	if config == nil {
		config = sse.DefaultConfig()
	}
	return &SSEHandler{config: config, logger: logger}
}

// StreamTurn forwards every event of turn until its channel closes or the client goes away.
// Returning early cancels the request context, which tells the orchestrator to stop forwarding.
func (h *SSEHandler) StreamTurn(w http.ResponseWriter, r *http.Request, turn *chatSvc.Turn) {
	clientID := uuid.New().String()

	writer, err := sse.NewWriter(w)
	if err != nil {
		h.logger.Error("response does not support streaming", "error", err)
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	writer.Open()

	h.logger.Debug("SSE stream established",
		"conversation_id", turn.ConversationID,
		"client_id", clientID,
	)

	keepAlive := sse.NewTickerKeepAlive(h.config.KeepAliveInterval)
	keepAliveStopped := keepAlive.Start(writer, h.logger)
	defer func() {
		keepAlive.Stop()
		<-keepAliveStopped
	}()

	ctx := r.Context()
	for {
		select {
		case event, ok := <-turn.Events:
			if !ok {
				h.logger.Debug("SSE stream ended",
					"conversation_id", turn.ConversationID,
					"client_id", clientID,
				)
				return
			}
			if err := writer.WriteEvent(event.Name, event.Data); err != nil {
				h.logger.Info("client disconnected during event write",
					"conversation_id", turn.ConversationID,
					"client_id", clientID,
					"error", err,
				)
				return
			}

		case <-ctx.Done():
			h.logger.Info("client disconnected",
				"conversation_id", turn.ConversationID,
				"client_id", clientID,
			)
			return
		}
	}
}
