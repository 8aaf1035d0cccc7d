package handlers

import (
	"hseinspect/internal/app"
	templateController "hseinspect/internal/controllers/templates"
	"hseinspect/internal/handlers/middleware"
	"hseinspect/internal/types"

	"github.com/gofiber/fiber/v2"
)

type TemplateHandler struct {
	Handler
	templateController templateController.TemplateControllerInterface
}

func NewTemplateHandler(app app.App, router fiber.Router) *TemplateHandler {
	return &TemplateHandler{
		templateController: app.Controllers.Template,
		Handler:            newHandler(app, router, "template_handler"),
	}
}

func (h *TemplateHandler) Register() {
	templates := h.router.Group("/templates")

	templates.Get("/", h.listTemplates)
	templates.Get("/categories", h.listCategories)
	templates.Get("/:id", h.getTemplate)
	templates.Post("/", h.createTemplate)
	templates.Put("/:id", h.updateTemplate)
	templates.Delete("/:id", h.deleteTemplate)
	templates.Post("/:id/duplicate", h.duplicateTemplate)
}

func (h *TemplateHandler) listTemplates(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listTemplates")

	var query types.TemplateListQuery
	if err := parseQuery(c, &query); err != nil {
		return middleware.WriteError(c, err)
	}

	templates, err := h.templateController.List(c.UserContext(), query)
	if err != nil {
		return handleError(c, log, "failed to list templates", err)
	}

	return c.JSON(fiber.Map{"templates": templates})
}

func (h *TemplateHandler) listCategories(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listCategories")

	categories, err := h.templateController.Categories(c.UserContext())
	if err != nil {
		return handleError(c, log, "failed to list categories", err)
	}

	return c.JSON(fiber.Map{"categories": categories})
}

func (h *TemplateHandler) getTemplate(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getTemplate")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	template, err := h.templateController.Get(c.UserContext(), id)
	if err != nil {
		return handleError(c, log, "failed to get template", err)
	}

	return c.JSON(fiber.Map{"template": template})
}

func (h *TemplateHandler) createTemplate(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createTemplate")

	var req types.TemplateRequest
	if err := parseBody(c, &req); err != nil {
		return middleware.WriteError(c, err)
	}

	template, err := h.templateController.Create(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return handleError(c, log, "failed to create template", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"template": template})
}

func (h *TemplateHandler) updateTemplate(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateTemplate")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	var req types.TemplateRequest
	if err := parseBody(c, &req); err != nil {
		return middleware.WriteError(c, err)
	}

	template, err := h.templateController.Update(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return handleError(c, log, "failed to update template", err)
	}

	return c.JSON(fiber.Map{"template": template})
}

func (h *TemplateHandler) deleteTemplate(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteTemplate")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	if err := h.templateController.Delete(c.UserContext(), middleware.GetUser(c), id); err != nil {
		return handleError(c, log, "failed to delete template", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TemplateHandler) duplicateTemplate(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("duplicateTemplate")

	id, err := parseID(c, "id")
	if err != nil {
		return middleware.WriteError(c, err)
	}

	template, err := h.templateController.Duplicate(c.UserContext(), middleware.GetUser(c), id)
	if err != nil {
		return handleError(c, log, "failed to duplicate template", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"template": template})
}
