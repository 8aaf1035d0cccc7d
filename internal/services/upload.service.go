package services

import (
	"context"
	"path"
	"strings"

	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type UploadService struct {
	images  *ImageService
	storage Storage
	log     logger.Logger
}

func NewUploadService(images *ImageService, storage Storage) *UploadService {
	return &UploadService{
		images:  images,
		storage: storage,
		log:     logger.New("uploadService"),
	}
}

func photoKey(userID uuid.UUID) string {
	return path.Join(photoKeyPrefix, userID.String(), uuid.Must(uuid.NewV7()).String()+".webp")
}

// UploadPhoto normalises the image and stores it under the uploader's prefix.
func (s *UploadService) UploadPhoto(
	ctx context.Context,
	userID uuid.UUID,
	data []byte,
) (*types.UploadResponse, error) {
	log := s.log.TraceFromContext(ctx).Function("UploadPhoto")

	processed, err := s.images.Process(ctx, data)
	if err != nil {
		return nil, err
	}

	key := photoKey(userID)
	if err := s.storage.Put(ctx, key, processed.ContentType, processed.Data); err != nil {
		return nil, log.Err("failed to store photo", err, "userID", userID)
	}

	log.Info("photo uploaded", "userID", userID, "key", key, "size", len(processed.Data))
	return &types.UploadResponse{
		Key:         key,
		URL:         s.storage.URL(key),
		ContentType: processed.ContentType,
		Width:       processed.Width,
		Height:      processed.Height,
		Size:        len(processed.Data),
	}, nil
}

// DeletePhoto removes a photo previously uploaded by userID. Keys outside the
// user's prefix are refused.
func (s *UploadService) DeletePhoto(ctx context.Context, userID uuid.UUID, key string) (bool, error) {
	owned := path.Join(photoKeyPrefix, userID.String()) + "/"
	if !strings.HasPrefix(path.Clean(key), owned) {
		return false, nil
	}
	if err := s.storage.Delete(ctx, path.Clean(key)); err != nil {
		return false, err
	}
	return true, nil
}
