package model

// ================ Config ================
type ConversationConfig struct {
	TTL string `envconfig:"CONVERSATION_TTL" default:"30m"`
	// MaxMessages caps the stored history per conversation.
	MaxMessages int `envconfig:"CONVERSATION_MAX_MESSAGES" default:"50"`
	History     struct {
		MaxTurns int `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"20"`
	}
	Tools struct {
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"4"`
	}
}

// ModelConfig tunes the hosted chat model. The model identifier itself is
// fixed (see agent.DefaultModel).
type ModelConfig struct {
	MaxTokens      int     `envconfig:"MODEL_MAX_TOKENS" default:"2000"`
	Temperature    float32 `envconfig:"MODEL_TEMPERATURE" default:"0.4"`
	ThinkingBudget int32   `envconfig:"MODEL_THINKING_BUDGET" default:"1024"`
}
