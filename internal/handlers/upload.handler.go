package handlers

import (
	"io"

	"hseinspect/internal/app"
	"hseinspect/internal/apperrors"
	"hseinspect/internal/constants"
	uploadController "hseinspect/internal/controllers/uploads"
	"hseinspect/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	Handler
	uploadController uploadController.UploadControllerInterface
}

func NewUploadHandler(app app.App, router fiber.Router) *UploadHandler {
	return &UploadHandler{
		uploadController: app.Controllers.Upload,
		Handler:          newHandler(app, router, "upload_handler"),
	}
}

func (h *UploadHandler) Register() {
	uploads := h.router.Group("/uploads")

	uploads.Post("/photos", h.uploadPhoto)
	uploads.Delete("/photos", h.deletePhoto)
}

func (h *UploadHandler) uploadPhoto(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("uploadPhoto")

	header, err := c.FormFile("file")
	if err != nil {
		return middleware.WriteError(c, apperrors.Validation("A photo file is required", "file"))
	}
	if header.Size > constants.MaxPhotoSize {
		return middleware.WriteError(c, apperrors.New(apperrors.KindTooLarge, "Photo exceeds the 10MB limit"))
	}

	file, err := header.Open()
	if err != nil {
		return handleError(c, log, "failed to open uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return handleError(c, log, "failed to read uploaded file", err)
	}

	response, err := h.uploadController.UploadPhoto(c.UserContext(), middleware.GetUser(c), data)
	if err != nil {
		return handleError(c, log, "failed to upload photo", err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *UploadHandler) deletePhoto(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deletePhoto")

	if err := h.uploadController.DeletePhoto(c.UserContext(), middleware.GetUser(c), c.Query("key")); err != nil {
		return handleError(c, log, "failed to delete photo", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
