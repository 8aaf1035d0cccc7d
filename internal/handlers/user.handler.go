package handlers

import (
	"hseinspect/internal/app"
	userController "hseinspect/internal/controllers/users"
	"hseinspect/internal/handlers/middleware"
	"hseinspect/internal/models"
	"hseinspect/internal/permissions"
	"hseinspect/internal/types"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		userController: app.Controllers.User,
		Handler:        newHandler(app, router, "user_handler"),
	}
}

func canApproveUsers(p permissions.RolePermissions) bool { return p.CanApproveUsers }

func (h *UserHandler) Register() {
	users := h.router.Group("/users")

	users.Get("/me", h.getCurrentUser)
	users.Get("/assignable", h.listAssignable)

	admin := users.Group("/", h.middleware.RequirePermission(canApproveUsers))
	admin.Get("/", h.listUsers)
	admin.Post("/:id/approve", h.approveUser)
	admin.Post("/:id/reject", h.rejectUser)
	admin.Put("/:id/role", h.changeRole)
}

// getCurrentUser returns the signed-in profile with its permission record.
func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	return c.JSON(h.userController.GetProfile(c.UserContext(), middleware.GetUser(c)))
}

func (h *UserHandler) listAssignable(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listAssignable")

	users, err := h.userController.ListAssignable(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return handleError(c, log, "failed to list assignable users", err)
	}

	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) listUsers(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listUsers")

	status := models.ApprovalStatus(c.Query("status"))
	users, err := h.userController.ListUsers(c.UserContext(), middleware.GetUser(c), status)
	if err != nil {
		return handleError(c, log, "failed to list users", err)
	}

	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) approveUser(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("approveUser")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	profile, err := h.userController.Approve(c.UserContext(), middleware.GetUser(c), id)
	if err != nil {
		return handleError(c, log, "failed to approve user", err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) rejectUser(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("rejectUser")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	var req types.RejectUserRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return middleware.WriteError(c, err)
		}
	}

	profile, err := h.userController.Reject(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return handleError(c, log, "failed to reject user", err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) changeRole(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("changeRole")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	var req types.ChangeRoleRequest
	if err := parseBody(c, &req); err != nil {
		return middleware.WriteError(c, err)
	}

	profile, err := h.userController.ChangeRole(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return handleError(c, log, "failed to change role", err)
	}

	return c.JSON(fiber.Map{"user": profile})
}
