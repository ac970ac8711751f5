package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const claudeURL = "https://api.anthropic.com/v1/messages"

type ClaudeProvider struct {
	apiKey      string
	model       string
	temperature float32
	maxTokens   int
	url         string
	client      *http.Client
}

func NewClaudeProvider(apiKey string, model string, temperature float32, maxTokens int) *ClaudeProvider {
	if temperature == 0 {
		temperature = 0.7
	}
	if maxTokens == 0 {
		maxTokens = 2048
	}

	return &ClaudeProvider{
		apiKey:      apiKey,
		model:       withDefault(model, "claude-3-5-sonnet-20241022"),
		temperature: temperature,
		maxTokens:   maxTokens,
		url:         claudeURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (p *ClaudeProvider) GetProviderName() string {
	return "Anthropic Claude"
}

func (p *ClaudeProvider) NewChat(_ context.Context, systemInstruction string) (ChatSession, error) {
	return &claudeChat{provider: p, system: systemInstruction}, nil
}

// Claude API request/response structures
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float32         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
	System      string          `json:"system,omitempty"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type claudeChat struct {
	provider *ClaudeProvider
	system   string
	history  []claudeMessage
}

func (c *claudeChat) Send(ctx context.Context, message string) (*Reply, error) {
	p := c.provider
	messages := make([]claudeMessage, 0, len(c.history)+1)
	messages = append(messages, c.history...)
	messages = append(messages, claudeMessage{Role: "user", Content: message})

	jsonData, err := json.Marshal(claudeRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Messages:    messages,
		System:      c.system,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("claude request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("claude error (model: %s, status: %d): %s", p.model, resp.StatusCode, string(body))
	}

	var claudeResp claudeResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var sb strings.Builder
	for _, block := range claudeResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no response from Claude")
	}

	c.history = append(messages, claudeMessage{Role: "assistant", Content: text})

	return &Reply{Text: text}, nil
}
