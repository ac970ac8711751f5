package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/services"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/response"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/validation"
)

type AgendaHandler struct {
	agendaService *services.AgendaService
}

func NewAgendaHandler(agendaService *services.AgendaService) *AgendaHandler {
	return &AgendaHandler{agendaService: agendaService}
}

// PrayerRegistration is the result of registering a prayer request.
type PrayerRegistration struct {
	PrayerRequest *models.PrayerRequest       `json:"prayerRequest"`
	Appointment   *models.PastoralAppointment `json:"appointment"`
}

func (h *AgendaHandler) RegisterRoutes(church fiber.Router) {
	church.Get("/appointments", h.ListAppointments)
	church.Post("/appointments", h.CreateAppointment)
	church.Delete("/appointments/:id", h.DeleteAppointment)

	church.Get("/prayer-requests", h.ListPrayerRequests)
	church.Post("/prayer-requests", h.CreatePrayerRequest)
	church.Delete("/prayer-requests/:id", h.DeletePrayerRequest)
}

// ListAppointments godoc
// @Summary List pastoral agenda
// @Tags Agenda
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.PastoralAppointment}
// @Router /church/appointments [get]
func (h *AgendaHandler) ListAppointments(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	items, err := h.agendaService.ListAppointments(c.UserContext(), churchID)
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.PastoralAppointment{}
	}
	return response.OK(c, items, "")
}

// CreateAppointment godoc
// @Summary Book counseling
// @Description Fails when another counseling appointment holds the same date and time
// @Tags Agenda
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AppointmentRequest true "Appointment"
// @Success 201 {object} response.Envelope{data=models.PastoralAppointment}
// @Failure 400 {object} response.ErrorEnvelope
// @Router /church/appointments [post]
func (h *AgendaHandler) CreateAppointment(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	var req models.AppointmentRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	appt, err := h.agendaService.BookCounseling(c.UserContext(), churchID, &req)
	if err != nil {
		return err
	}
	return response.Created(c, appt, "Agendamento criado com sucesso")
}

// DeleteAppointment godoc
// @Summary Delete appointment
// @Tags Agenda
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /church/appointments/{id} [delete]
func (h *AgendaHandler) DeleteAppointment(c *fiber.Ctx) error {
	churchID, id, err := scoped(c)
	if err != nil {
		return err
	}

	if err := h.agendaService.DeleteAppointment(c.UserContext(), churchID, id); err != nil {
		return err
	}
	return response.OK(c, nil, "Agendamento removido")
}

// ListPrayerRequests godoc
// @Summary List prayer requests
// @Tags Agenda
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.PrayerRequest}
// @Router /church/prayer-requests [get]
func (h *AgendaHandler) ListPrayerRequests(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	items, err := h.agendaService.ListPrayerRequests(c.UserContext(), churchID)
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.PrayerRequest{}
	}
	return response.OK(c, items, "")
}

// CreatePrayerRequest godoc
// @Summary Register prayer request
// @Description Stores the request dated today and its follow-up agenda entry
// @Tags Agenda
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PrayerRequestRequest true "Prayer request"
// @Success 201 {object} response.Envelope{data=PrayerRegistration}
// @Failure 400 {object} response.ErrorEnvelope
// @Router /church/prayer-requests [post]
func (h *AgendaHandler) CreatePrayerRequest(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	var req models.PrayerRequestRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	prayer, followUp, err := h.agendaService.RegisterPrayer(c.UserContext(), churchID, &req)
	if err != nil {
		return err
	}
	return response.Created(c, PrayerRegistration{PrayerRequest: prayer, Appointment: followUp}, "Pedido de oração registrado")
}

// DeletePrayerRequest godoc
// @Summary Delete prayer request
// @Description Also removes its follow-up agenda entry
// @Tags Agenda
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prayer request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /church/prayer-requests/{id} [delete]
func (h *AgendaHandler) DeletePrayerRequest(c *fiber.Ctx) error {
	churchID, id, err := scoped(c)
	if err != nil {
		return err
	}

	if err := h.agendaService.DeletePrayerRequest(c.UserContext(), churchID, id); err != nil {
		return err
	}
	return response.OK(c, nil, "Pedido de oração removido")
}
