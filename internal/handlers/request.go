package handlers

import (
	"errors"
	"reflect"
	"strings"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodes the JSON body into req and runs its validate tags.
func parseBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	return validateStruct(req)
}

func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperrors.Validation("Invalid request body")
	}

	fields := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		fields = append(fields, fieldError.Field())
	}
	return apperrors.Validation("Invalid value for "+strings.Join(fields, ", "), fields...)
}

func parseQuery(c *fiber.Ctx, query any) error {
	if err := c.QueryParser(query); err != nil {
		return apperrors.Validation("Invalid query parameters")
	}
	return nil
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, apperrors.Validation("Invalid id", param)
	}
	return id, nil
}

// handleError logs server side failures and writes the client response.
func handleError(c *fiber.Ctx, log logger.Logger, msg string, err error) error {
	if apperrors.Status(err) >= fiber.StatusInternalServerError {
		log.Er(msg, err, "path", c.Path(), "method", c.Method())
	}
	return middleware.WriteError(c, err)
}
