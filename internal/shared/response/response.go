// Package response renders the API envelope used by every route.
package response

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
)

// Envelope is the success body: {success, message, data, timestamp}
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// ErrorEnvelope is the failure body: {success:false, error, details, timestamp}
type ErrorEnvelope struct {
	Success   bool        `json:"success"`
	Error     string      `json:"error"`
	Details   interface{} `json:"details"`
	Timestamp string      `json:"timestamp"`
}

const genericServerError = "Erro interno do servidor"

var now = time.Now

func timestamp() string {
	return now().UTC().Format(time.RFC3339)
}

func OK(c *fiber.Ctx, data interface{}, message string) error {
	if message == "" {
		message = "Operação realizada com sucesso"
	}
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	})
}

func Created(c *fiber.Ctx, data interface{}, message string) error {
	if message == "" {
		message = "Recurso criado com sucesso"
	}
	return c.Status(fiber.StatusCreated).JSON(Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	})
}

func Fail(c *fiber.Ctx, status int, message string, details interface{}) error {
	return c.Status(status).JSON(ErrorEnvelope{
		Success:   false,
		Error:     message,
		Details:   details,
		Timestamp: timestamp(),
	})
}

// ErrorHandler is installed as fiber.Config.ErrorHandler. Handlers simply
// return errors; the kind decides the status code and message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.KindInternal:
			log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("❌ Request failed")
			return Fail(c, fiber.StatusInternalServerError, genericServerError, nil)
		case apperr.KindProvider:
			// Provider messages are written for end users; the cause is not.
			log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("❌ Provider failed")
			return Fail(c, fiber.StatusInternalServerError, appErr.Message, nil)
		}
		return Fail(c, appErr.Kind.Status(), appErr.Message, appErr.Details)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return Fail(c, fiber.StatusNotFound, "Rota não encontrada", nil)
		case fiber.StatusInternalServerError:
			log.Error().Err(err).Str("path", c.Path()).Msg("❌ Request failed")
			return Fail(c, fiber.StatusInternalServerError, genericServerError, nil)
		default:
			return Fail(c, fiberErr.Code, fiberErr.Message, nil)
		}
	}

	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("❌ Unhandled error")
	return Fail(c, fiber.StatusInternalServerError, genericServerError, nil)
}
