package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
)

const localsUser = "user"

// AuthMiddleware validates the bearer token and stores the user in Locals.
func AuthMiddleware(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.Auth("Token de autenticação não fornecido")
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return apperr.Auth("Formato de autorização inválido. Use: Bearer <token>")
		}

		user, err := authService.Authenticate(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return err
		}

		SetCurrentUser(c, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *fiber.Ctx) (*User, error) {
	user, ok := c.Locals(localsUser).(*User)
	if !ok || user == nil {
		return nil, apperr.Auth("Não autorizado")
	}
	return user, nil
}

// SetCurrentUser stores user as the authenticated user of the request.
func SetCurrentUser(c *fiber.Ctx, user *User) {
	c.Locals(localsUser, user)
	c.Locals("userID", user.ID)
}

func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	user, err := CurrentUser(c)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
