package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/models"
	"hseinspect/internal/permissions"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer   abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func withUser(user *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals(UserKeyFiber, user)
		}
		return c.Next()
	}
}

func decodeError(t *testing.T, app *fiber.App, path string) (int, ErrorResponse) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body ErrorResponse
	if resp.StatusCode >= fiber.StatusBadRequest {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestRequirePermission(t *testing.T) {
	m := &Middleware{log: logger.New("middleware")}
	canAssign := func(p permissions.RolePermissions) bool { return p.CanAssignInspections }

	tests := []struct {
		name   string
		user   *models.User
		status int
	}{
		{"manager may assign", &models.User{Role: models.RoleManager, ApprovalStatus: models.ApprovalApproved}, fiber.StatusOK},
		{"inspector may not assign", &models.User{Role: models.RoleInspector, ApprovalStatus: models.ApprovalApproved}, fiber.StatusForbidden},
		{"anonymous request", nil, fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/assign", withUser(tt.user), m.RequirePermission(canAssign), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			status, _ := decodeError(t, app, "/assign")
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestWriteError_UsesTraceIDAndFields(t *testing.T) {
	m := &Middleware{log: logger.New("middleware")}

	app := fiber.New()
	app.Use(m.TraceID())
	app.Get("/", func(c *fiber.Ctx) error {
		return WriteError(c, apperrors.Validation("Title is required", "title"))
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "trace-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "trace-123", resp.Header.Get(TraceIDHeader))
	assert.Equal(t, ErrorResponse{Error: "Title is required", Fields: []string{"title"}, TraceID: "trace-123"}, body)
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return WriteError(c, assert.AnError)
	})

	status, body := decodeError(t, app, "/")

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Something went wrong. Please try again", body.Error)
	assert.NotContains(t, body.Error, assert.AnError.Error())
}
