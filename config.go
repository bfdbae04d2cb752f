package fuelyt

import "time"

type ModelConfig struct {
	Provider    string  `env:"MODEL_PROVIDER,default=openai"`
	ModelID     string  `env:"MODEL_ID,required"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=1024"`
	Temperature float32 `env:"TEMPERATURE,default=0.7"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}

type AgentConfig struct {
	DatabasePath           string        `env:"DATABASE_PATH,default=fuelyt_data.json"`
	BaseOllamaEndpoint     string        `env:"BASE_OLLAMA_ENDPOINT,default=http://localhost:11434"`
	MaxIterations          int           `env:"MAX_ITERATIONS,default=10"`
	TurnTimeout            time.Duration `env:"TURN_TIMEOUT,default=120s"`
	MaxConversationHistory int           `env:"MAX_CONVERSATION_HISTORY,default=50"`
	NotifyWebhookURL       string        `env:"NOTIFY_WEBHOOK_URL"`
	NotifyChannel          string        `env:"NOTIFY_CHANNEL,default=#coaching"`
}
