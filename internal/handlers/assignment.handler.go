package handlers

import (
	"hseinspect/internal/app"
	assignmentController "hseinspect/internal/controllers/assignments"
	"hseinspect/internal/handlers/middleware"
	"hseinspect/internal/types"

	"github.com/gofiber/fiber/v2"
)

type AssignmentHandler struct {
	Handler
	assignmentController assignmentController.AssignmentControllerInterface
}

func NewAssignmentHandler(app app.App, router fiber.Router) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentController: app.Controllers.Assignment,
		Handler:              newHandler(app, router, "assignment_handler"),
	}
}

func (h *AssignmentHandler) Register() {
	assignments := h.router.Group("/assignments")

	assignments.Get("/", h.listAssignments)
	assignments.Get("/mine", h.listMyAssignments)
	assignments.Get("/:id", h.getAssignment)
	assignments.Post("/", h.createAssignment)
	assignments.Put("/:id", h.updateAssignment)
	assignments.Put("/:id/status", h.updateStatus)
	assignments.Delete("/:id", h.deleteAssignment)
}

func (h *AssignmentHandler) listAssignments(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listAssignments")

	var query types.AssignmentListQuery
	if err := parseQuery(c, &query); err != nil {
		return middleware.WriteError(c, err)
	}

	assignments, err := h.assignmentController.ListAll(c.UserContext(), middleware.GetUser(c), query)
	if err != nil {
		return handleError(c, log, "failed to list assignments", err)
	}

	return c.JSON(fiber.Map{"assignments": assignments})
}

func (h *AssignmentHandler) listMyAssignments(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listMyAssignments")

	var query types.AssignmentListQuery
	if err := parseQuery(c, &query); err != nil {
		return middleware.WriteError(c, err)
	}

	assignments, err := h.assignmentController.ListMine(c.UserContext(), middleware.GetUser(c), query)
	if err != nil {
		return handleError(c, log, "failed to list assignments", err)
	}

	return c.JSON(fiber.Map{"assignments": assignments})
}

func (h *AssignmentHandler) getAssignment(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getAssignment")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	assignment, err := h.assignmentController.Get(c.UserContext(), middleware.GetUser(c), id)
	if err != nil {
		return handleError(c, log, "failed to get assignment", err)
	}

	return c.JSON(fiber.Map{"assignment": assignment})
}

func (h *AssignmentHandler) createAssignment(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createAssignment")

	var req types.CreateAssignmentRequest
	if err := parseBody(c, &req); err != nil {
		return middleware.WriteError(c, err)
	}

	assignment, err := h.assignmentController.Create(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return handleError(c, log, "failed to create assignment", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"assignment": assignment})
}

func (h *AssignmentHandler) updateAssignment(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateAssignment")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	var req types.UpdateAssignmentRequest
	if err := parseBody(c, &req); err != nil {
		return middleware.WriteError(c, err)
	}

	assignment, err := h.assignmentController.Update(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return handleError(c, log, "failed to update assignment", err)
	}

	return c.JSON(fiber.Map{"assignment": assignment})
}

func (h *AssignmentHandler) updateStatus(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateStatus")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	var req types.UpdateAssignmentStatusRequest
	if err := parseBody(c, &req); err != nil {
		return middleware.WriteError(c, err)
	}

	assignment, err := h.assignmentController.UpdateStatus(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return handleError(c, log, "failed to update assignment status", err)
	}

	return c.JSON(fiber.Map{"assignment": assignment})
}

// deleteAssignment also removes the inspection the assignment points at.
func (h *AssignmentHandler) deleteAssignment(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteAssignment")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	if err := h.assignmentController.Delete(c.UserContext(), middleware.GetUser(c), id); err != nil {
		return handleError(c, log, "failed to delete assignment", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
