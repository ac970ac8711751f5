package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/validation"
)

func pathID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, validation.Invalid("id", "identificador inválido")
	}
	return id, nil
}

// scoped returns the church of the request and the :id path parameter.
func scoped(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	churchID, err := tenant.ChurchID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := pathID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return churchID, id, nil
}
