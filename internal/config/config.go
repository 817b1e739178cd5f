package config

import (
	"os"
)

type Config struct {
	Host        string
	Port        string
	Environment string
	CORSOrigins string
	LogDir      string // Optional directory for rotated log files (stdout only when empty)
	// Store configuration
	DatabaseURI  string // Scheme selects the backend: mongodb://, postgres://, bolt://, memory://
	DatabaseName string
	TablePrefix  string
	// LLM configuration
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	AnthropicAPIKey     string
	DefaultModel        string
	TitleModel          string
	DefaultSystemPrompt string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Host:        getEnv("HOST", "0.0.0.0"),
		Port:        getEnv("PORT", "8000"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"),
		LogDir:      getEnv("LOG_DIR", ""),
		// MONGODB_* names are still honoured for existing deployments
		DatabaseURI:  getEnv("DATABASE_URI", getEnv("MONGODB_URI", "mongodb://localhost:27017")),
		DatabaseName: getEnv("DATABASE_NAME", getEnv("MONGODB_DATABASE", "ai_chat")),
		TablePrefix:  getTablePrefix(env),
		// LLM configuration
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey:     getEnv("ANTHROPIC_API_KEY", ""),
		DefaultModel:        getEnv("DEFAULT_MODEL", "gpt-4o"),
		TitleModel:          getEnv("TITLE_MODEL", "gpt-4o-mini"),
		DefaultSystemPrompt: getEnv("DEFAULT_SYSTEM_PROMPT", "あなたは親切なAIアシスタントです。"),
	}
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
