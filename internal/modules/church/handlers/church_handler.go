package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/services"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/response"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/validation"
)

type ChurchHandler struct {
	churchService *services.ChurchService
}

func NewChurchHandler(churchService *services.ChurchService) *ChurchHandler {
	return &ChurchHandler{churchService: churchService}
}

// RegisterRoutes mounts the profile routes on the church-scoped router.
// CreateChurch is mounted separately since the user has no church yet.
func (h *ChurchHandler) RegisterRoutes(church fiber.Router) {
	church.Get("/data", h.GetChurch)
	church.Put("/update", h.UpdateChurch)
	church.Get("/agent", h.GetAgent)
	church.Put("/agent", h.UpdateAgent)
	church.Get("/financial", h.GetFinancial)
	church.Put("/financial", h.UpdateFinancial)
}

// GetChurch godoc
// @Summary Get church profile
// @Tags Church
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.Church}
// @Failure 404 {object} response.ErrorEnvelope
// @Router /church/data [get]
func (h *ChurchHandler) GetChurch(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	church, err := h.churchService.Get(c.UserContext(), churchID)
	if err != nil {
		return err
	}
	return response.OK(c, church, "")
}

// CreateChurch godoc
// @Summary Create church
// @Description Registers the church of the current user and seeds default agent settings
// @Tags Church
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChurchRequest true "Church profile"
// @Success 201 {object} response.Envelope{data=models.Church}
// @Failure 400 {object} response.ErrorEnvelope
// @Router /church/create [post]
func (h *ChurchHandler) CreateChurch(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	var req models.ChurchRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	church, err := h.churchService.Create(c.UserContext(), user, &req)
	if err != nil {
		return err
	}
	return response.Created(c, church, "Igreja criada com sucesso")
}

// UpdateChurch godoc
// @Summary Update church profile
// @Description Partial update; omitted fields are kept
// @Tags Church
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChurchUpdateRequest true "Fields to change"
// @Success 200 {object} response.Envelope{data=models.Church}
// @Failure 400 {object} response.ErrorEnvelope
// @Router /church/update [put]
func (h *ChurchHandler) UpdateChurch(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	var req models.ChurchUpdateRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	church, err := h.churchService.Update(c.UserContext(), churchID, &req)
	if err != nil {
		return err
	}
	return response.OK(c, church, "Igreja atualizada com sucesso")
}

// GetAgent godoc
// @Summary Get agent settings
// @Tags Church
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.AgentSettings}
// @Router /church/agent [get]
func (h *ChurchHandler) GetAgent(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	agent, err := h.churchService.Agent(c.UserContext(), churchID)
	if err != nil {
		return err
	}
	return response.OK(c, agent, "")
}

// UpdateAgent godoc
// @Summary Update agent settings
// @Tags Church
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AgentSettingsRequest true "Agent name and personality"
// @Success 200 {object} response.Envelope{data=models.AgentSettings}
// @Failure 400 {object} response.ErrorEnvelope
// @Router /church/agent [put]
func (h *ChurchHandler) UpdateAgent(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	var req models.AgentSettingsRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	agent, err := h.churchService.UpdateAgent(c.UserContext(), churchID, &req)
	if err != nil {
		return err
	}
	return response.OK(c, agent, "Configurações do agente salvas")
}

// GetFinancial godoc
// @Summary Get donation details
// @Tags Church
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.FinancialInfo}
// @Router /church/financial [get]
func (h *ChurchHandler) GetFinancial(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	info, err := h.churchService.Financial(c.UserContext(), churchID)
	if err != nil {
		return err
	}
	return response.OK(c, info, "")
}

// UpdateFinancial godoc
// @Summary Update donation details
// @Tags Church
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.FinancialInfoRequest true "Bank, branch, account and PIX key"
// @Success 200 {object} response.Envelope{data=models.FinancialInfo}
// @Failure 400 {object} response.ErrorEnvelope
// @Router /church/financial [put]
func (h *ChurchHandler) UpdateFinancial(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	var req models.FinancialInfoRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	info, err := h.churchService.UpdateFinancial(c.UserContext(), churchID, &req)
	if err != nil {
		return err
	}
	return response.OK(c, info, "Informações financeiras salvas")
}
