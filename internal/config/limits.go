package config

const (
	// MaxMessageLength is the maximum length (in characters) of a single user message.
	MaxMessageLength = 32000

	// MaxSystemPromptLength is the maximum length (in characters) of a system prompt.
	MaxSystemPromptLength = 8000

	// TitleFallbackLength is how many characters of the first message are kept
	// when the title model is unavailable.
	TitleFallbackLength = 20

	// TitleMaxTokens caps the output of the title model.
	TitleMaxTokens = 50
)
