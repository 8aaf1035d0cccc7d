package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Get("/boom", handler)
	return app
}

func decodeError(t *testing.T, app *fiber.App, path string) (int, middleware.ErrorResponse) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	app := newErrorApp(func(c *fiber.Ctx) error { return nil })

	status, body := decodeError(t, app, "/missing")

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.NotEmpty(t, body.Error)
}

func TestErrorHandler_ClassifiesDomainErrors(t *testing.T) {
	app := newErrorApp(func(c *fiber.Ctx) error { return apperrors.ErrNotFound })

	status, body := decodeError(t, app, "/boom")

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, apperrors.Message(apperrors.ErrNotFound), body.Error)
}

func TestErrorHandler_RewritesBodyLimit(t *testing.T) {
	app := newErrorApp(func(c *fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })

	status, body := decodeError(t, app, "/boom")

	assert.Equal(t, fiber.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "Request body exceeds the upload limit", body.Error)
}
