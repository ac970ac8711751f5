package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/services"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/response"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/validation"
)

type HumanChatHandler struct {
	inbox *services.HumanChat
}

func NewHumanChatHandler(inbox *services.HumanChat) *HumanChatHandler {
	return &HumanChatHandler{inbox: inbox}
}

type ReplyRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

func (h *HumanChatHandler) RegisterRoutes(chat fiber.Router) {
	chat.Get("/conversations", h.ListConversations)
	chat.Get("/conversations/:id/messages", h.GetMessages)
	chat.Post("/conversations/:id/messages", h.SendMessage)
}

func conversationID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, validation.Invalid("id", "identificador inválido")
	}
	return id, nil
}

// ListConversations godoc
// @Summary List human-desk conversations
// @Tags Human Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]services.Conversation}
// @Router /human-chat/conversations [get]
func (h *HumanChatHandler) ListConversations(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}
	return response.OK(c, h.inbox.Conversations(churchID), "")
}

// GetMessages godoc
// @Summary Get conversation messages
// @Description Returns the thread and marks it read
// @Tags Human Chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Success 200 {object} response.Envelope{data=[]services.ChatMessage}
// @Failure 404 {object} response.ErrorEnvelope
// @Router /human-chat/conversations/{id}/messages [get]
func (h *HumanChatHandler) GetMessages(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}
	id, err := conversationID(c)
	if err != nil {
		return err
	}

	msgs, err := h.inbox.Messages(churchID, id)
	if err != nil {
		return err
	}
	return response.OK(c, msgs, "")
}

// SendMessage godoc
// @Summary Reply to a conversation
// @Tags Human Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Param request body ReplyRequest true "Message"
// @Success 201 {object} response.Envelope{data=services.ChatMessage}
// @Failure 404 {object} response.ErrorEnvelope
// @Router /human-chat/conversations/{id}/messages [post]
func (h *HumanChatHandler) SendMessage(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}
	id, err := conversationID(c)
	if err != nil {
		return err
	}

	var req ReplyRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	msg, err := h.inbox.Reply(churchID, id, req.Text)
	if err != nil {
		return err
	}
	return response.Created(c, msg, "Mensagem enviada")
}
