package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/services"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/response"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/validation"
)

type OnboardingHandler struct {
	onboardingService *services.OnboardingService
}

func NewOnboardingHandler(onboardingService *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

func (h *OnboardingHandler) RegisterRoutes(api fiber.Router, protected fiber.Handler) {
	onboarding := api.Group("/onboarding", protected)
	onboarding.Post("/complete", h.Complete)
	onboarding.Get("/status", h.Status)
}

// Complete godoc
// @Summary Complete onboarding
// @Description Creates the church when missing, saves agent settings and the complete schedule rows, and marks the user onboarded
// @Tags Onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.OnboardingRequest true "Onboarding data"
// @Success 200 {object} response.Envelope{data=services.OnboardingResult}
// @Failure 400 {object} response.ErrorEnvelope
// @Router /onboarding/complete [post]
func (h *OnboardingHandler) Complete(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	var req models.OnboardingRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	res, err := h.onboardingService.Complete(c.UserContext(), user, &req)
	if err != nil {
		return err
	}
	return response.OK(c, res, "Cadastro inicial concluído")
}

// Status godoc
// @Summary Onboarding status
// @Tags Onboarding
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.OnboardingStatus}
// @Router /onboarding/status [get]
func (h *OnboardingHandler) Status(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	return response.OK(c, h.onboardingService.Status(user), "")
}
