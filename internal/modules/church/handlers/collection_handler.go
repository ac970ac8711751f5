package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/services"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/response"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/validation"
)

// CollectionHandler serves the CRUD routes of one record list. T is the
// stored record and R its request body.
type CollectionHandler[T any, R any, PT interface {
	*T
	models.Record
}, PR interface {
	*R
	models.Input[T]
}] struct {
	service   *services.Collection[T, PT]
	updatable bool
	saved     string
	removed   string
}

// NewCollectionHandler builds the handler; saved and removed are the
// success messages of writes and deletes.
func NewCollectionHandler[T any, R any, PT interface {
	*T
	models.Record
}, PR interface {
	*R
	models.Input[T]
}](service *services.Collection[T, PT], updatable bool, saved, removed string) *CollectionHandler[T, R, PT, PR] {
	return &CollectionHandler[T, R, PT, PR]{
		service:   service,
		updatable: updatable,
		saved:     saved,
		removed:   removed,
	}
}

// RegisterRoutes mounts GET and POST on path plus PUT (when updatable) and
// DELETE on path/:id.
func (h *CollectionHandler[T, R, PT, PR]) RegisterRoutes(church fiber.Router, path string) {
	church.Get(path, h.List)
	church.Post(path, h.Create)
	if h.updatable {
		church.Put(path+"/:id", h.Update)
	}
	church.Delete(path+"/:id", h.Delete)
}

// List godoc
// @Summary List church records
// @Description Lists schedules, events, FAQs, ministries, pastoral availability or file references of the church
// @Tags Church Data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /church/schedules [get]
// @Router /church/events [get]
// @Router /church/faqs [get]
// @Router /church/ministries [get]
// @Router /church/availability [get]
// @Router /church/files [get]
func (h *CollectionHandler[T, R, PT, PR]) List(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.UserContext(), churchID)
	if err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	return response.OK(c, items, "")
}

// Create godoc
// @Summary Create church record
// @Tags Church Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Record fields"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Router /church/schedules [post]
// @Router /church/events [post]
// @Router /church/faqs [post]
// @Router /church/ministries [post]
// @Router /church/availability [post]
// @Router /church/files [post]
func (h *CollectionHandler[T, R, PT, PR]) Create(c *fiber.Ctx) error {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return err
	}

	var req R
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	item, err := h.service.Create(c.UserContext(), churchID, PR(&req))
	if err != nil {
		return err
	}
	return response.Created(c, item, h.saved)
}

// Update godoc
// @Summary Update church record
// @Tags Church Data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Param request body object true "Record fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /church/schedules/{id} [put]
// @Router /church/events/{id} [put]
// @Router /church/faqs/{id} [put]
// @Router /church/ministries/{id} [put]
func (h *CollectionHandler[T, R, PT, PR]) Update(c *fiber.Ctx) error {
	churchID, id, err := scoped(c)
	if err != nil {
		return err
	}

	var req R
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	item, err := h.service.Update(c.UserContext(), churchID, id, PR(&req))
	if err != nil {
		return err
	}
	return response.OK(c, item, h.saved)
}

// Delete godoc
// @Summary Delete church record
// @Tags Church Data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /church/schedules/{id} [delete]
// @Router /church/events/{id} [delete]
// @Router /church/faqs/{id} [delete]
// @Router /church/ministries/{id} [delete]
// @Router /church/availability/{id} [delete]
// @Router /church/files/{id} [delete]
func (h *CollectionHandler[T, R, PT, PR]) Delete(c *fiber.Ctx) error {
	churchID, id, err := scoped(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), churchID, id); err != nil {
		return err
	}
	return response.OK(c, nil, h.removed)
}
