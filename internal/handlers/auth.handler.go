package handlers

import (
	"hseinspect/internal/app"
	"hseinspect/internal/apperrors"
	authController "hseinspect/internal/controllers/auth"
	"hseinspect/internal/handlers/middleware"
	"hseinspect/internal/types"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
	allowedDomains []string
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	return &AuthHandler{
		authController: app.Controllers.Auth,
		allowedDomains: app.Config.AllowedDomains(),
		Handler:        newHandler(app, router, "auth_handler"),
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Get("/config", h.getAuthConfig)
	auth.Post("/signup", authLimiter(), h.signUp)
	auth.Post("/signin", authLimiter(), h.signIn)

	protected := auth.Group("/", h.middleware.RequireAuth())
	protected.Post("/signout", h.signOut)
	protected.Put("/password", h.changePassword)
}

// getAuthConfig tells the client which email domains and passwords are accepted.
func (h *AuthHandler) getAuthConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"allowedDomains":    h.allowedDomains,
		"minPasswordLength": authController.MinPasswordLength,
		"maxPasswordLength": authController.MaxPasswordLength,
	})
}

func (h *AuthHandler) signUp(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("signUp")

	var req types.SignUpRequest
	if err := parseBody(c, &req); err != nil {
		return middleware.WriteError(c, err)
	}

	response, err := h.authController.SignUp(c.UserContext(), req)
	if err != nil {
		return handleError(c, log, "sign up failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *AuthHandler) signIn(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("signIn")

	var req types.SignInRequest
	if err := parseBody(c, &req); err != nil {
		return middleware.WriteError(c, err)
	}

	response, err := h.authController.SignIn(c.UserContext(), req)
	if err != nil {
		return handleError(c, log, "sign in failed", err)
	}

	return c.JSON(response)
}

func (h *AuthHandler) signOut(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("signOut")

	user := middleware.GetUser(c)
	token := middleware.GetToken(c)
	if user == nil || token == nil {
		return middleware.WriteError(c, apperrors.ErrUnauthorized)
	}

	if err := h.authController.SignOut(c.UserContext(), user, token.SessionID); err != nil {
		return handleError(c, log, "sign out failed", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) changePassword(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("changePassword")

	var req types.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return middleware.WriteError(c, err)
	}

	if err := h.authController.ChangePassword(c.UserContext(), middleware.GetUser(c), req); err != nil {
		return handleError(c, log, "password change failed", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
