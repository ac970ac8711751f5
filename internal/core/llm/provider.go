package llm

import (
	"context"
	"fmt"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/config"
)

// Source is a web reference the provider grounded its reply on.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Reply is one model turn.
type Reply struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources,omitempty"`
}

// ChatSession is a multi-turn conversation bound to one fixed system
// instruction. Implementations keep their own turn history and are not
// safe for concurrent Send calls.
type ChatSession interface {
	Send(ctx context.Context, message string) (*Reply, error)
}

// ChatProvider opens chat sessions against one text-generation backend.
type ChatProvider interface {
	NewChat(ctx context.Context, systemInstruction string) (ChatSession, error)
	GetProviderName() string
}

// ProviderType untuk factory
type ProviderType string

const (
	ProviderOpenAI   ProviderType = "openai"
	ProviderGemini   ProviderType = "gemini"
	ProviderGroq     ProviderType = "groq"
	ProviderDeepSeek ProviderType = "deepseek"
	ProviderClaude   ProviderType = "claude"
)

type ProviderConfig struct {
	Type ProviderType

	OpenAIKey   string
	GeminiKey   string
	GroqKey     string
	DeepSeekKey string
	ClaudeKey   string

	Model       string
	Temperature float32
	MaxTokens   int
}

// NewProvider builds the provider selected by cfg.Type.
func NewProvider(ctx context.Context, cfg *ProviderConfig) (ChatProvider, error) {
	switch cfg.Type {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
		return NewGeminiProvider(ctx, cfg.GeminiKey, cfg.Model, cfg.Temperature, cfg.MaxTokens)

	case ProviderGroq:
		if cfg.GroqKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is required")
		}
		return NewGroqProvider(cfg.GroqKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderDeepSeek:
		if cfg.DeepSeekKey == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY is required")
		}
		return NewDeepSeekProvider(cfg.DeepSeekKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderClaude:
		if cfg.ClaudeKey == "" {
			return nil, fmt.Errorf("CLAUDE_API_KEY is required")
		}
		return NewClaudeProvider(cfg.ClaudeKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
}

// ProviderConfigFrom maps the application config onto a ProviderConfig.
// The model falls back to a provider-specific default.
func ProviderConfigFrom(cfg *config.Config) *ProviderConfig {
	pc := &ProviderConfig{
		Type:        ProviderType(cfg.LLMProvider),
		OpenAIKey:   cfg.OpenAIKey,
		GeminiKey:   cfg.GeminiAPIKey,
		GroqKey:     cfg.GroqAPIKey,
		DeepSeekKey: cfg.DeepSeekAPIKey,
		ClaudeKey:   cfg.ClaudeAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
	}
	if pc.Model == "" {
		pc.Model = DefaultModel(pc.Type)
	}
	return pc
}

func DefaultModel(t ProviderType) string {
	switch t {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderGemini:
		return "gemini-2.5-flash"
	case ProviderGroq:
		return "llama-3.1-8b-instant"
	case ProviderDeepSeek:
		return "deepseek-chat"
	case ProviderClaude:
		return "claude-3-5-sonnet-20241022"
	default:
		return ""
	}
}
