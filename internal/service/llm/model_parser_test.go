package llm

import (
	"testing"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		name          string
		modelStr      string
		wantProvider  string
		wantModel     string
		wantErr       bool
	}{
		{
			name:         "claude-haiku with version",
			modelStr:     "claude-haiku-4-5",
			wantProvider: "anthropic",
			wantModel:    "claude-haiku-4-5",
			wantErr:      false,
		},
		{
			name:         "claude-sonnet with full version",
			modelStr:     "claude-sonnet-4-5-20251001",
			wantProvider: "anthropic",
			wantModel:    "claude-sonnet-4-5-20251001",
			wantErr:      false,
		},
		{
			name:         "explicit provider keeps remaining path",
			modelStr:     "openai/org/custom-model",
			wantProvider: "openai",
			wantModel:    "org/custom-model",
			wantErr:      false,
		},
		{
			name:         "explicit provider with unprefixed model",
			modelStr:     "openai/my-finetune",
			wantProvider: "openai",
			wantModel:    "my-finetune",
			wantErr:      false,
		},
		{
			name:         "gpt-4o model",
			modelStr:     "gpt-4o",
			wantProvider: "openai",
			wantModel:    "gpt-4o",
			wantErr:      false,
		},
		{
			name:         "gpt-4o-mini model",
			modelStr:     "gpt-4o-mini",
			wantProvider: "openai",
			wantModel:    "gpt-4o-mini",
			wantErr:      false,
		},
		{
			name:         "lorem-fast model",
			modelStr:     "lorem-fast",
			wantProvider: "lorem",
			wantModel:    "lorem-fast",
			wantErr:      false,
		},
		{
			name:         "lorem-slow model",
			modelStr:     "lorem-slow",
			wantProvider: "lorem",
			wantModel:    "lorem-slow",
			wantErr:      false,
		},
		{
			name:     "empty string",
			modelStr: "",
			wantErr:  true,
		},
		{
			name:     "unknown model prefix",
			modelStr: "unknown-model-123",
			wantErr:  true,
		},
		{
			name:     "provider without model",
			modelStr: "anthropic/",
			wantErr:  true,
		},
		{
			name:     "model without provider",
			modelStr: "/claude-haiku-4-5",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModel(tt.modelStr)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseModel() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("ParseModel() unexpected error: %v", err)
				return
			}

			if got.Provider != tt.wantProvider {
				t.Errorf("ParseModel() provider = %v, want %v", got.Provider, tt.wantProvider)
			}

			if got.Model != tt.wantModel {
				t.Errorf("ParseModel() model = %v, want %v", got.Model, tt.wantModel)
			}
		})
	}
}

func TestInferProvider(t *testing.T) {
	tests := []struct {
		name         string
		model        string
		wantProvider string
	}{
		{"claude lowercase", "claude-haiku-4-5", "anthropic"},
		{"CLAUDE uppercase", "CLAUDE-HAIKU-4-5", "anthropic"},
		{"gpt lowercase", "gpt-4", "openai"},
		{"GPT uppercase", "GPT-4", "openai"},
		{"o1 model", "o1-preview", "openai"},
		{"o3 model", "o3-mini", "openai"},
		{"o4 model", "o4-mini", "openai"},
		{"chatgpt model", "chatgpt-4o-latest", "openai"},
		{"gemini model", "gemini-pro", ""},
		{"lorem-fast model", "lorem-fast", "lorem"},
		{"lorem-slow model", "lorem-slow", "lorem"},
		{"LOREM uppercase", "LOREM-FAST", "lorem"},
		{"unknown", "unknown-123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inferProvider(tt.model)
			if got != tt.wantProvider {
				t.Errorf("inferProvider() = %v, want %v", got, tt.wantProvider)
			}
		})
	}
}
