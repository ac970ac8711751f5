package llm

import (
	openai "github.com/sashabaranov/go-openai"
)

// NewGroqProvider talks to Groq through its OpenAI-compatible endpoint.
func NewGroqProvider(apiKey string, model string, temperature float32, maxTokens int) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = "https://api.groq.com/openai/v1"

	return newOpenAICompatible("Groq", cfg, withDefault(model, "llama-3.1-8b-instant"), temperature, maxTokens)
}
