package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/assistant"
)

// apiClient talks to the dashboard API with a bearer token.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type sessionView struct {
	ID       uuid.UUID       `json:"id"`
	State    assistant.State `json:"state"`
	Greeting string          `json:"greeting"`
}

type contextPreview struct {
	Context      string `json:"context"`
	Characters   int    `json:"characters"`
	DroppedFiles int    `json:"droppedFiles"`
	Provider     string `json:"provider"`
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *apiClient) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

func (c *apiClient) OpenSession(ctx context.Context) (*sessionView, error) {
	var out sessionView
	if err := c.do(ctx, http.MethodPost, "/assistant/sessions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) Send(ctx context.Context, id uuid.UUID, message string) (*assistant.SendResult, error) {
	var out assistant.SendResult
	body := map[string]string{"message": message}
	if err := c.do(ctx, http.MethodPost, "/assistant/sessions/"+id.String()+"/messages", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) CloseSession(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/assistant/sessions/"+id.String(), nil, nil)
}

func (c *apiClient) Context(ctx context.Context) (*contextPreview, error) {
	var out contextPreview
	if err := c.do(ctx, http.MethodGet, "/assistant/context", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: unexpected response (%d): %w", method, path, resp.StatusCode, err)
	}
	if !env.Success {
		return fmt.Errorf("%s (%d)", env.Error, resp.StatusCode)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
