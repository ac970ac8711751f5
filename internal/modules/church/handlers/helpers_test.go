package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/assistant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/response"
)

// testApp mirrors the router layout of the API: an authenticated /api
// group and a church-scoped /api/church group.
type testApp struct {
	app       *fiber.App
	api       fiber.Router
	protected fiber.Handler
}

func newTestApp(user *auth.User) *testApp {
	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler})
	protected := func(c *fiber.Ctx) error {
		if user == nil {
			return apperr.Auth("Token de acesso ausente")
		}
		auth.SetCurrentUser(c, user)
		return c.Next()
	}
	return &testApp{app: app, api: app.Group("/api"), protected: protected}
}

func (a *testApp) scoped(prefix string) fiber.Router {
	return a.api.Group(prefix, a.protected, tenant.RequireChurch())
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func userWithChurch() *auth.User {
	churchID := uuid.New()
	return &auth.User{ID: uuid.New(), Email: "pastor@igreja.org", ChurchID: &churchID}
}

type memoryFAQs struct {
	items []models.FaqEntry
}

func (m *memoryFAQs) List(_ context.Context, churchID uuid.UUID) ([]models.FaqEntry, error) {
	var out []models.FaqEntry
	for _, f := range m.items {
		if f.ChurchID == churchID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memoryFAQs) Get(_ context.Context, churchID, id uuid.UUID) (*models.FaqEntry, error) {
	for _, f := range m.items {
		if f.ChurchID == churchID && f.ID == id {
			cp := f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryFAQs) Create(_ context.Context, item *models.FaqEntry) error {
	item.ID = uuid.New()
	m.items = append(m.items, *item)
	return nil
}

func (m *memoryFAQs) Save(_ context.Context, item *models.FaqEntry) error {
	for i, f := range m.items {
		if f.ID == item.ID {
			m.items[i] = *item
		}
	}
	return nil
}

func (m *memoryFAQs) Delete(_ context.Context, churchID, id uuid.UUID) (bool, error) {
	for i, f := range m.items {
		if f.ChurchID == churchID && f.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// scriptedProvider answers every message with reply.
type scriptedProvider struct {
	reply string
}

func (p *scriptedProvider) NewChat(context.Context, string) (llm.ChatSession, error) {
	return p, nil
}

func (p *scriptedProvider) Send(context.Context, string) (*llm.Reply, error) {
	return &llm.Reply{Text: p.reply}, nil
}

func (p *scriptedProvider) GetProviderName() string {
	return "scripted"
}

type staticLoader struct{}

func (staticLoader) Load(_ context.Context, churchID uuid.UUID) (*assistant.Snapshot, error) {
	return &assistant.Snapshot{
		ChurchID: churchID,
		Church:   assistant.ChurchProfile{Name: "Igreja Central", PastorName: "Pr. João"},
		Agent:    assistant.AgentSettings{Name: "Ana", Personality: "Acolhedora"},
	}, nil
}

type staticActivity struct {
	filter audit.AuditFilter
}

func (s *staticActivity) List(_ context.Context, filter audit.AuditFilter) (*audit.AuditLogResponse, error) {
	s.filter = filter
	return &audit.AuditLogResponse{Logs: []audit.AuditLog{}, Page: 1, PageSize: 50}, nil
}
