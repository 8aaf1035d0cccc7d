package middleware

import (
	"hseinspect/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Fields  []string `json:"fields,omitempty"`
	TraceID string   `json:"traceId,omitempty"`
}

// WriteError classifies err and writes the matching status and message.
// Internal details never reach the client.
func WriteError(c *fiber.Ctx, err error) error {
	return c.Status(apperrors.Status(err)).JSON(ErrorResponse{
		Error:   apperrors.Message(err),
		Fields:  apperrors.FieldsOf(err),
		TraceID: GetTraceID(c),
	})
}
