// Package tenant resolves the church every dashboard request acts on.
package tenant

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
)

const localsChurchID = "churchID"

// MsgNoChurch is returned to users who have not created their church yet.
const MsgNoChurch = "Igreja não encontrada. Conclua o cadastro inicial."

// RequireChurch must run after auth.AuthMiddleware. It stores the church of
// the authenticated user, or answers 404 when the user has none.
func RequireChurch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		if !user.HasChurch() {
			return apperr.NotFound(MsgNoChurch)
		}
		c.Locals(localsChurchID, *user.ChurchID)
		return c.Next()
	}
}

// ChurchID returns the church stored by RequireChurch.
func ChurchID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(localsChurchID).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, apperr.NotFound(MsgNoChurch)
	}
	return id, nil
}
