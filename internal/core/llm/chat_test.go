package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/config"
)

func TestOpenAIChat_KeepsHistory(t *testing.T) {
	var seen [][]openai.ChatCompletionMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, req.Messages)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "Resposta"}},
			},
		})
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test")
	cfg.BaseURL = srv.URL
	p := newOpenAICompatible("Test", cfg, "gpt-4o-mini", 0, 0)

	chat, err := p.NewChat(context.Background(), "Você é um assistente.")
	require.NoError(t, err)

	_, err = chat.Send(context.Background(), "Olá")
	require.NoError(t, err)
	reply, err := chat.Send(context.Background(), "Qual o horário do culto?")
	require.NoError(t, err)

	assert.Equal(t, "Resposta", reply.Text)
	require.Len(t, seen, 2)
	require.Len(t, seen[1], 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, seen[1][0].Role)
	assert.Equal(t, "Olá", seen[1][1].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, seen[1][2].Role)
	assert.Equal(t, "Qual o horário do culto?", seen[1][3].Content)
}

func TestOpenAIChat_FailedTurnNotRecorded(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
			return
		}
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Len(t, req.Messages, 2, "failed turn must not stay in history")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "ok"}}},
		})
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test")
	cfg.BaseURL = srv.URL
	p := newOpenAICompatible("Test", cfg, "m", 0, 0)
	chat, _ := p.NewChat(context.Background(), "sys")

	_, err := chat.Send(context.Background(), "primeira")
	require.Error(t, err)

	_, err = chat.Send(context.Background(), "segunda")
	require.NoError(t, err)
}

func TestOpenAIChat_EmptyReplyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: "assistant", Content: "  "},
				FinishReason: openai.FinishReasonLength,
			}},
		})
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test")
	cfg.BaseURL = srv.URL
	chat, err := newOpenAICompatible("Test", cfg, "m", 0, 0).NewChat(context.Background(), "sys")
	require.NoError(t, err)

	reply, err := chat.Send(context.Background(), "Oi")

	assert.Nil(t, reply)
	assert.ErrorContains(t, err, "length")
}

func TestClaudeChat_SendsSystemAndHistory(t *testing.T) {
	var last claudeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&last))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Paz!"}]}`))
	}))
	defer srv.Close()

	p := NewClaudeProvider("key", "", 0, 0)
	p.url = srv.URL

	chat, err := p.NewChat(context.Background(), "contexto")
	require.NoError(t, err)

	_, err = chat.Send(context.Background(), "Oi")
	require.NoError(t, err)
	reply, err := chat.Send(context.Background(), "Tudo bem?")
	require.NoError(t, err)

	assert.Equal(t, "Paz!", reply.Text)
	assert.Equal(t, "contexto", last.System)
	require.Len(t, last.Messages, 3)
	assert.Equal(t, "assistant", last.Messages[1].Role)
}

func TestClaudeChat_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewClaudeProvider("key", "", 0, 0)
	p.url = srv.URL
	chat, _ := p.NewChat(context.Background(), "sys")

	_, err := chat.Send(context.Background(), "Oi")
	assert.ErrorContains(t, err, "status: 502")
}

func TestNewProvider_RequiresKey(t *testing.T) {
	_, err := NewProvider(context.Background(), &ProviderConfig{Type: ProviderOpenAI})
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	_, err = NewProvider(context.Background(), &ProviderConfig{Type: "bard"})
	assert.ErrorContains(t, err, "unknown LLM provider")
}

func TestProviderConfigFrom_DefaultModel(t *testing.T) {
	pc := ProviderConfigFrom(&config.Config{LLMProvider: "groq", GroqAPIKey: "g"})

	assert.Equal(t, ProviderGroq, pc.Type)
	assert.Equal(t, "llama-3.1-8b-instant", pc.Model)
	assert.Equal(t, "g", pc.GroqKey)

	p, err := NewProvider(context.Background(), pc)
	require.NoError(t, err)
	assert.Equal(t, "Groq", p.GetProviderName())
}
