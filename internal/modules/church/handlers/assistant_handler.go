package handlers

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/assistant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/calendar"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/response"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/validation"
)

const (
	msgSessionBusy       = "Aguarde a resposta anterior antes de enviar outra mensagem"
	msgSessionTerminated = "Esta conversa foi transferida para o Atendimento Humano"
	msgSessionNotReady   = "O assistente ainda não está pronto"
)

// ActivityLister reads the audit trail of assistant actions.
type ActivityLister interface {
	List(ctx context.Context, filter audit.AuditFilter) (*audit.AuditLogResponse, error)
}

type AssistantHandler struct {
	manager  *assistant.Manager
	activity ActivityLister
}

func NewAssistantHandler(manager *assistant.Manager, activity ActivityLister) *AssistantHandler {
	return &AssistantHandler{manager: manager, activity: activity}
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// SessionView is a test-chat session as shown on the dashboard.
type SessionView struct {
	ID        uuid.UUID        `json:"id"`
	State     assistant.State  `json:"state"`
	Greeting  string           `json:"greeting"`
	Turns     []assistant.Turn `json:"turns"`
	CreatedAt time.Time        `json:"createdAt"`
}

type ContextPreview struct {
	Context      string `json:"context"`
	Characters   int    `json:"characters"`
	DroppedFiles int    `json:"droppedFiles"`
	Provider     string `json:"provider"`
}

func viewOf(s *assistant.Session) SessionView {
	return SessionView{
		ID:        s.ID(),
		State:     s.State(),
		Greeting:  s.Greeting(),
		Turns:     s.Turns(),
		CreatedAt: s.CreatedAt(),
	}
}

func (h *AssistantHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/sessions", h.OpenSession)
	r.Get("/sessions/:id", h.GetSession)
	r.Post("/sessions/:id/messages", h.SendMessage)
	r.Delete("/sessions/:id", h.CloseSession)
	r.Get("/context", h.PreviewContext)
	r.Get("/activity", h.ListActivity)
}

// sessionError turns session state errors into client errors.
func sessionError(err error) error {
	switch {
	case errors.Is(err, assistant.ErrSessionBusy):
		return apperr.Validation(msgSessionBusy, nil)
	case errors.Is(err, assistant.ErrSessionTerminated):
		return apperr.Validation(msgSessionTerminated, nil)
	case errors.Is(err, assistant.ErrSessionNotReady):
		return apperr.Validation(msgSessionNotReady, nil)
	}
	return err
}

// OpenSession godoc
// @Summary Open test-chat session
// @Description Loads the church records, builds the grounding context and starts a conversation with the assistant
// @Tags Assistant
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Envelope{data=SessionView}
// @Failure 500 {object} response.ErrorEnvelope
// @Router /assistant/sessions [post]
func (h *AssistantHandler) OpenSession(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	session, err := h.manager.Open(c.UserContext(), churchID)
	if err != nil {
		return err
	}
	return response.Created(c, viewOf(session), session.Greeting())
}

// GetSession godoc
// @Summary Get test-chat session
// @Tags Assistant
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope{data=SessionView}
// @Failure 404 {object} response.ErrorEnvelope
// @Router /assistant/sessions/{id} [get]
func (h *AssistantHandler) GetSession(c *fiber.Ctx) error {
	churchID, id, err := scoped(c)
	if err != nil {
		return err
	}

	session, err := h.manager.Get(churchID, id)
	if err != nil {
		return err
	}
	return response.OK(c, viewOf(session), "")
}

// SendMessage godoc
// @Summary Send a message to the assistant
// @Description Returns the reply, the new session state and the directive acted upon, if any
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body SendMessageRequest true "User message"
// @Success 200 {object} response.Envelope{data=assistant.SendResult}
// @Failure 400 {object} response.ErrorEnvelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /assistant/sessions/{id}/messages [post]
func (h *AssistantHandler) SendMessage(c *fiber.Ctx) error {
	churchID, id, err := scoped(c)
	if err != nil {
		return err
	}

	var req SendMessageRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	res, err := h.manager.Send(c.UserContext(), churchID, id, req.Message)
	if err != nil {
		return sessionError(err)
	}
	return response.OK(c, res, "")
}

// CloseSession godoc
// @Summary Discard test-chat session
// @Tags Assistant
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /assistant/sessions/{id} [delete]
func (h *AssistantHandler) CloseSession(c *fiber.Ctx) error {
	churchID, id, err := scoped(c)
	if err != nil {
		return err
	}

	if err := h.manager.Close(churchID, id); err != nil {
		return err
	}
	return response.OK(c, nil, "Sessão encerrada")
}

// PreviewContext godoc
// @Summary Preview grounding context
// @Description Renders the system instruction a new session would receive
// @Tags Assistant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=ContextPreview}
// @Router /assistant/context [get]
func (h *AssistantHandler) PreviewContext(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	g, err := h.manager.Preview(c.UserContext(), churchID)
	if err != nil {
		return err
	}
	return response.OK(c, ContextPreview{
		Context:      g.Text,
		Characters:   utf8.RuneCountInString(g.Text),
		DroppedFiles: g.DroppedFiles,
		Provider:     h.manager.ProviderName(),
	}, "")
}

// ListActivity godoc
// @Summary List assistant activity
// @Description Appointments, prayer requests and handoffs performed by the assistant
// @Tags Assistant
// @Produce json
// @Security BearerAuth
// @Param action query string false "appointment, prayer or handoff"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD, inclusive"
// @Param page query int false "Page" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Success 200 {object} response.Envelope{data=audit.AuditLogResponse}
// @Failure 400 {object} response.ErrorEnvelope
// @Router /assistant/activity [get]
func (h *AssistantHandler) ListActivity(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	filter := audit.AuditFilter{
		ChurchID: churchID,
		Action:   c.Query("action"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 0),
	}
	if v := c.Query("startDate"); v != "" {
		d, err := calendar.Parse(v)
		if err != nil {
			return validation.Invalid("startDate", "data inválida, use AAAA-MM-DD")
		}
		start := d.Time()
		filter.StartDate = &start
	}
	if v := c.Query("endDate"); v != "" {
		d, err := calendar.Parse(v)
		if err != nil {
			return validation.Invalid("endDate", "data inválida, use AAAA-MM-DD")
		}
		end := d.Time().Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	logs, err := h.activity.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return response.OK(c, logs, "")
}
