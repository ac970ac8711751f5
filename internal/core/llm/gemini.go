package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// GeminiProvider opens genai chat sessions with Google Search grounding enabled.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewGeminiProvider builds the provider. A zero maxTokens sends no output cap,
// since thinking tokens of 2.5 models count against it.
func NewGeminiProvider(ctx context.Context, apiKey string, model string, temperature float32, maxTokens int) (*GeminiProvider, error) {
	return newGeminiProvider(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model, temperature, maxTokens)
}

func newGeminiProvider(ctx context.Context, cc *genai.ClientConfig, model string, temperature float32, maxTokens int) (*GeminiProvider, error) {
	if temperature == 0 {
		temperature = 0.7
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiProvider{
		client:      client,
		model:       withDefault(model, "gemini-2.5-flash"),
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

func (p *GeminiProvider) GetProviderName() string {
	return "Google Gemini"
}

func (p *GeminiProvider) NewChat(ctx context.Context, systemInstruction string) (ChatSession, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(p.temperature),
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	if p.maxTokens > 0 {
		config.MaxOutputTokens = int32(p.maxTokens)
	}

	chat, err := p.client.Chats.Create(ctx, p.model, config, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini chat create failed (model: %s): %w", p.model, err)
	}

	return &geminiChat{chat: chat}, nil
}

type geminiChat struct {
	chat *genai.Chat
}

func (c *geminiChat) Send(ctx context.Context, message string) (*Reply, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no response from Gemini (candidates: 0)")
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty reply from Gemini (finish reason: %s)", resp.Candidates[0].FinishReason)
	}

	reply := &Reply{Text: text, Sources: groundingSources(resp)}
	log.Debug().Int("sources", len(reply.Sources)).Msg("🔍 Gemini reply received")

	return reply, nil
}

func groundingSources(resp *genai.GenerateContentResponse) []Source {
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}

	var sources []Source
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		sources = append(sources, Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return sources
}
