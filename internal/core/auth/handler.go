package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/response"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/validation"
)

type Handler struct {
	authService *Service
}

// NewHandler creates a new auth handler
func NewHandler(authService *Service) *Handler {
	return &Handler{authService: authService}
}

// RegisterRoutes mounts the public auth routes and the protected user routes.
func (h *Handler) RegisterRoutes(api fiber.Router, protected fiber.Handler) {
	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Login)
	authGroup.Post("/signup", h.Signup)
	authGroup.Post("/logout", protected, h.Logout)

	user := api.Group("/user", protected)
	user.Get("/profile", h.GetProfile)
	user.Post("/profile", h.UpdateProfile)
}

// Signup godoc
// @Summary Create account
// @Description Create a new dashboard account with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup details"
// @Success 201 {object} response.Envelope{data=SignupResponse}
// @Failure 400 {object} response.ErrorEnvelope
// @Router /auth/signup [post]
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Signup(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return response.Created(c, res, "Conta criada com sucesso")
}

// Login godoc
// @Summary Login with email and password
// @Description Authenticate user and return a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} response.Envelope{data=LoginResponse}
// @Failure 400 {object} response.ErrorEnvelope
// @Failure 401 {object} response.ErrorEnvelope
// @Router /auth/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return response.OK(c, res, "Login realizado com sucesso")
}

// Logout godoc
// @Summary Logout
// @Description Revoke every token issued to the current user
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.ErrorEnvelope
// @Router /auth/logout [post]
func (h *Handler) Logout(c *fiber.Ctx) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.UserContext(), userID); err != nil {
		return err
	}
	return response.OK(c, fiber.Map{}, "Logout realizado com sucesso")
}

// GetProfile godoc
// @Summary Get user profile
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=User}
// @Failure 401 {object} response.ErrorEnvelope
// @Router /user/profile [get]
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Profile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return response.OK(c, user, "Perfil obtido com sucesso")
}

// UpdateProfile godoc
// @Summary Update user profile
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile fields"
// @Success 200 {object} response.Envelope{data=User}
// @Failure 400 {object} response.ErrorEnvelope
// @Router /user/profile [post]
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	var req ProfileRequest
	if err := validation.BindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return response.OK(c, user, "Perfil atualizado com sucesso")
}
