package llm

import (
	openai "github.com/sashabaranov/go-openai"
)

// NewDeepSeekProvider talks to DeepSeek through its OpenAI-compatible endpoint.
func NewDeepSeekProvider(apiKey string, model string, temperature float32, maxTokens int) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = "https://api.deepseek.com"

	return newOpenAICompatible("DeepSeek", cfg, withDefault(model, "deepseek-chat"), temperature, maxTokens)
}
