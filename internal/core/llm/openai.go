package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider serves OpenAI and every OpenAI-compatible API (Groq, DeepSeek).
type OpenAIProvider struct {
	name        string
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenAIProvider(apiKey string, model string, temperature float32, maxTokens int) *OpenAIProvider {
	return newOpenAICompatible("OpenAI", openai.DefaultConfig(apiKey), withDefault(model, "gpt-4o-mini"), temperature, maxTokens)
}

func newOpenAICompatible(name string, cfg openai.ClientConfig, model string, temperature float32, maxTokens int) *OpenAIProvider {
	if temperature == 0 {
		temperature = 0.7
	}
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &OpenAIProvider{
		name:        name,
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (p *OpenAIProvider) GetProviderName() string {
	return p.name
}

func (p *OpenAIProvider) NewChat(_ context.Context, systemInstruction string) (ChatSession, error) {
	return &openAIChat{
		provider: p,
		history: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
		},
	}, nil
}

type openAIChat struct {
	provider *OpenAIProvider
	history  []openai.ChatCompletionMessage
}

func (c *openAIChat) Send(ctx context.Context, message string) (*Reply, error) {
	p := c.provider
	messages := append(c.history, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%s error: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty reply from %s (finish reason: %s)", p.name, resp.Choices[0].FinishReason)
	}
	// Only completed turns enter the history; a failed call leaves it untouched.
	c.history = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text})

	return &Reply{Text: text}, nil
}

func withDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
