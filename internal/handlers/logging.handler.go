package handlers

import (
	"hseinspect/internal/app"
	loggingController "hseinspect/internal/controllers/logging"
	"hseinspect/internal/handlers/middleware"
	"hseinspect/internal/types"

	"github.com/gofiber/fiber/v2"
)

type LoggingHandler struct {
	Handler
	loggingController loggingController.LoggingControllerInterface
}

func NewLoggingHandler(app app.App, router fiber.Router) *LoggingHandler {
	return &LoggingHandler{
		loggingController: app.Controllers.Logging,
		Handler:           newHandler(app, router, "logging_handler"),
	}
}

func (h *LoggingHandler) Register() {
	h.router.Post("/logs", h.handleLogBatch)
}

func (h *LoggingHandler) handleLogBatch(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("handleLogBatch")

	user := middleware.GetUser(c)

	var req types.LogBatchRequest
	if err := parseBody(c, &req); err != nil {
		return middleware.WriteError(c, err)
	}

	response, err := h.loggingController.ProcessLogBatch(c.UserContext(), user, req)
	if err != nil {
		return handleError(c, log, "failed to process log batch", err)
	}

	return c.JSON(response)
}
