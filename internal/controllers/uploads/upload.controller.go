package uploadController

import (
	"context"

	"hseinspect/internal/apperrors"
	. "hseinspect/internal/models"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type PhotoUploader interface {
	UploadPhoto(ctx context.Context, userID uuid.UUID, data []byte) (*types.UploadResponse, error)
	DeletePhoto(ctx context.Context, userID uuid.UUID, key string) (bool, error)
}

type UploadControllerInterface interface {
	UploadPhoto(ctx context.Context, user *User, data []byte) (*types.UploadResponse, error)
	DeletePhoto(ctx context.Context, user *User, key string) error
}

type UploadController struct {
	uploads PhotoUploader
	log     logger.Logger
}

func New(uploads PhotoUploader) UploadControllerInterface {
	return &UploadController{
		uploads: uploads,
		log:     logger.New("uploadController"),
	}
}

func (c *UploadController) UploadPhoto(
	ctx context.Context,
	user *User,
	data []byte,
) (*types.UploadResponse, error) {
	if len(data) == 0 {
		return nil, apperrors.Validation("A photo file is required", "file")
	}
	return c.uploads.UploadPhoto(ctx, user.ID, data)
}

// DeletePhoto removes one of the user's own photos.
func (c *UploadController) DeletePhoto(ctx context.Context, user *User, key string) error {
	log := c.log.TraceFromContext(ctx).Function("DeletePhoto")

	if key == "" {
		return apperrors.Validation("Photo key is required", "key")
	}

	deleted, err := c.uploads.DeletePhoto(ctx, user.ID, key)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warn("refused to delete photo outside user prefix", "userID", user.ID, "key", key)
		return apperrors.ErrForbidden
	}

	return nil
}
