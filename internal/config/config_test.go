package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "HOST", "PORT", "DATABASE_URI", "MONGODB_URI",
		"DATABASE_NAME", "MONGODB_DATABASE", "TABLE_PREFIX", "DEFAULT_MODEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	require.Equal(t, "dev", cfg.Environment)
	require.Equal(t, "0.0.0.0:8000", cfg.Addr())
	require.Equal(t, "mongodb://localhost:27017", cfg.DatabaseURI)
	require.Equal(t, "ai_chat", cfg.DatabaseName)
	require.Equal(t, "dev_", cfg.TablePrefix)
	require.Equal(t, "gpt-4o", cfg.DefaultModel)
	require.NotEmpty(t, cfg.DefaultSystemPrompt)
}

func TestLoad_LegacyMongoNames(t *testing.T) {
	t.Setenv("DATABASE_URI", "")
	t.Setenv("DATABASE_NAME", "")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("MONGODB_DATABASE", "chats")

	cfg := Load()

	require.Equal(t, "mongodb://db:27017", cfg.DatabaseURI)
	require.Equal(t, "chats", cfg.DatabaseName)
}

func TestGetTablePrefix(t *testing.T) {
	tests := []struct {
		env      string
		override string
		want     string
	}{
		{"prod", "", "prod_"},
		{"test", "", "test_"},
		{"dev", "", "dev_"},
		{"staging", "", "dev_"},
		{"prod", "custom_", "custom_"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.override, func(t *testing.T) {
			t.Setenv("TABLE_PREFIX", tt.override)
			require.Equal(t, tt.want, getTablePrefix(tt.env))
		})
	}
}
