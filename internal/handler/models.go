package handler

import (
	"log/slog"
	"net/http"

	"aichat/internal/config"
	"aichat/internal/httputil"
)

// ModelsHandler reports which providers and models the process is configured with
type ModelsHandler struct {
	config *config.Config
	logger *slog.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(cfg *config.Config, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{
		config: cfg,
		logger: logger,
	}
}

// ProviderResponse represents one provider and whether it can serve requests
type ProviderResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// ModelsResponse is the body of GET /api/models
type ModelsResponse struct {
	ChatModel  string             `json:"chat_model"`
	TitleModel string             `json:"title_model"`
	Providers  []ProviderResponse `json:"providers"`
}

// GetModels returns the configured models and provider availability
// GET /api/models
func (h *ModelsHandler) GetModels(w http.ResponseWriter, r *http.Request) {
	response := ModelsResponse{
		ChatModel:  h.config.DefaultModel,
		TitleModel: h.config.TitleModel,
		Providers: []ProviderResponse{
			{ID: "openai", Name: "OpenAI", Available: h.config.OpenAIAPIKey != ""},
			{ID: "anthropic", Name: "Anthropic", Available: h.config.AnthropicAPIKey != ""},
			{ID: "lorem", Name: "Lorem (mock)", Available: true},
		},
	}

	httputil.RespondJSON(w, http.StatusOK, response)
}
