// Package validation decodes request bodies and checks their validate tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/calendar"
)

// FieldError is one entry of the details list of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var hhmm = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmm.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return calendar.IsWeekday(fl.Field().String())
	})

	return v
}

// Struct validates v and converts failures into a ValidationError.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.Validation("Dados inválidos", []FieldError{{Message: err.Error()}})
	}

	details := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		details = append(details, FieldError{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	return apperr.Validation("Dados inválidos", details)
}

// Invalid reports a single field failure found outside the validate tags.
func Invalid(field, message string) error {
	return apperr.Validation("Dados inválidos", []FieldError{{Field: field, Message: message}})
}

// BindJSON parses the request body into dst and validates it.
func BindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("Corpo da requisição inválido", nil)
	}
	return Struct(dst)
}

// fieldPath drops the struct name from the namespace: "SignupRequest.email" -> "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "email":
		return "deve ser um email válido"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("deve ter pelo menos %s item(ns)", fe.Param())
		}
		return fmt.Sprintf("deve ter pelo menos %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("deve ter no máximo %s caracteres", fe.Param())
	case "oneof":
		return fmt.Sprintf("deve ser um de: %s", fe.Param())
	case "url":
		return "deve ser uma URL válida"
	case "date":
		return "deve estar no formato YYYY-MM-DD"
	case "hhmm":
		return "deve estar no formato HH:MM"
	case "weekday":
		return "deve ser um dia da semana válido"
	default:
		return fmt.Sprintf("falhou na validação '%s'", fe.Tag())
	}
}
