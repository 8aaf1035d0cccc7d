package handlers

import (
	"fmt"

	"hseinspect/internal/app"
	inspectionController "hseinspect/internal/controllers/inspections"
	"hseinspect/internal/handlers/middleware"
	"hseinspect/internal/types"

	"github.com/gofiber/fiber/v2"
)

type InspectionHandler struct {
	Handler
	inspectionController inspectionController.InspectionControllerInterface
}

func NewInspectionHandler(app app.App, router fiber.Router) *InspectionHandler {
	return &InspectionHandler{
		inspectionController: app.Controllers.Inspection,
		Handler:              newHandler(app, router, "inspection_handler"),
	}
}

func (h *InspectionHandler) Register() {
	inspections := h.router.Group("/inspections")

	inspections.Get("/", h.listInspections)
	inspections.Get("/stats", h.getStats)
	inspections.Get("/:id", h.getInspection)
	inspections.Get("/:id/report", h.getReport)
	inspections.Post("/", h.createInspection)
	inspections.Put("/:id", h.updateInspection)
	inspections.Post("/:id/complete", h.completeInspection)
	inspections.Delete("/:id", h.deleteInspection)
}

func (h *InspectionHandler) listInspections(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listInspections")

	var query types.InspectionListQuery
	if err := parseQuery(c, &query); err != nil {
		return middleware.WriteError(c, err)
	}

	inspections, err := h.inspectionController.List(c.UserContext(), middleware.GetUser(c), query)
	if err != nil {
		return handleError(c, log, "failed to list inspections", err)
	}

	return c.JSON(fiber.Map{"inspections": inspections})
}

func (h *InspectionHandler) getStats(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getStats")

	stats, err := h.inspectionController.Stats(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return handleError(c, log, "failed to compute inspection stats", err)
	}

	return c.JSON(stats)
}

func (h *InspectionHandler) getInspection(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getInspection")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	inspection, err := h.inspectionController.Get(c.UserContext(), middleware.GetUser(c), id)
	if err != nil {
		return handleError(c, log, "failed to get inspection", err)
	}

	return c.JSON(fiber.Map{"inspection": inspection})
}

// getReport streams the rendered report as a download.
func (h *InspectionHandler) getReport(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getReport")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	report, err := h.inspectionController.Report(
		c.UserContext(),
		middleware.GetUser(c),
		id,
		c.Query("format", inspectionController.FormatPDF),
	)
	if err != nil {
		return handleError(c, log, "failed to render report", err)
	}

	c.Set(fiber.HeaderContentType, report.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.Filename))
	return c.Send(report.Data)
}

func (h *InspectionHandler) createInspection(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createInspection")

	var req types.InspectionRequest
	if err := parseBody(c, &req); err != nil {
		return middleware.WriteError(c, err)
	}

	result, err := h.inspectionController.Create(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return handleError(c, log, "failed to create inspection", err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *InspectionHandler) updateInspection(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateInspection")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	var req types.InspectionRequest
	if err := parseBody(c, &req); err != nil {
		return middleware.WriteError(c, err)
	}

	result, err := h.inspectionController.Update(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return handleError(c, log, "failed to update inspection", err)
	}

	return c.JSON(result)
}

func (h *InspectionHandler) completeInspection(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("completeInspection")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	inspection, err := h.inspectionController.Complete(c.UserContext(), middleware.GetUser(c), id)
	if err != nil {
		return handleError(c, log, "failed to complete inspection", err)
	}

	return c.JSON(fiber.Map{"inspection": inspection})
}

func (h *InspectionHandler) deleteInspection(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteInspection")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	if err := h.inspectionController.Delete(c.UserContext(), middleware.GetUser(c), id); err != nil {
		return handleError(c, log, "failed to delete inspection", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
