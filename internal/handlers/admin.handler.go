package handlers

import (
	"hseinspect/internal/app"
	adminController "hseinspect/internal/controllers/admin"
	"hseinspect/internal/handlers/middleware"
	"hseinspect/internal/permissions"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	return &AdminHandler{
		adminController: app.Controllers.Admin,
		Handler:         newHandler(app, router, "admin_handler"),
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.RequirePermission(func(p permissions.RolePermissions) bool {
		return p.CanManageUsers
	}))

	admin.Get("/jobs", h.listJobs)
	admin.Post("/jobs/:name/run", h.triggerJob)
}

func (h *AdminHandler) listJobs(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listJobs")

	response, err := h.adminController.ListJobs(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return handleError(c, log, "failed to list jobs", err)
	}

	return c.JSON(response)
}

func (h *AdminHandler) triggerJob(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("triggerJob")

	name := c.Params("name")
	if err := h.adminController.TriggerJob(c.UserContext(), middleware.GetUser(c), name); err != nil {
		return handleError(c, log, "failed to trigger job", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job": name, "status": "triggered"})
}
