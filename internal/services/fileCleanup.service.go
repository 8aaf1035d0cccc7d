package services

import (
	"context"
	"time"

	"hseinspect/internal/database"
	"hseinspect/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

// OrphanPhotoGrace keeps fresh uploads that have not been saved into an
// inspection yet.
const OrphanPhotoGrace = 24 * time.Hour

type FileCleanupService struct {
	db          database.DB
	storage     Storage
	inspections repositories.InspectionRepository
	log         logger.Logger
}

func NewFileCleanupService(
	db database.DB,
	storage Storage,
	inspections repositories.InspectionRepository,
) *FileCleanupService {
	return &FileCleanupService{
		db:          db,
		storage:     storage,
		inspections: inspections,
		log:         logger.New("fileCleanupService"),
	}
}

// CleanupOrphanPhotos deletes stored photos older than the grace period that
// no inspection references, soft deleted ones included.
func (s *FileCleanupService) CleanupOrphanPhotos(ctx context.Context, now time.Time) (int, error) {
	log := s.log.TraceFromContext(ctx).Function("CleanupOrphanPhotos")

	objects, err := s.storage.List(ctx, photoKeyPrefix+"/")
	if err != nil {
		return 0, err
	}
	if len(objects) == 0 {
		return 0, nil
	}

	uris, err := s.inspections.ReferencedPhotos(ctx, s.db.SQLWithContext(ctx))
	if err != nil {
		return 0, err
	}

	orphans := orphanKeys(objects, s.referencedKeys(uris), now.Add(-OrphanPhotoGrace))

	removed := 0
	for _, key := range orphans {
		if err := s.storage.Delete(ctx, key); err != nil {
			log.Er("failed to delete orphan photo", err, "key", key)
			continue
		}
		removed++
	}

	log.Info("orphan photo cleanup finished", "scanned", len(objects), "removed", removed)
	return removed, nil
}

func (s *FileCleanupService) referencedKeys(uris []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(uris))
	for _, uri := range uris {
		if key, ok := s.storage.KeyFromURL(uri); ok {
			keys[key] = struct{}{}
			continue
		}
		keys[uri] = struct{}{}
	}
	return keys
}

func orphanKeys(objects []StoredObject, referenced map[string]struct{}, cutoff time.Time) []string {
	var orphans []string
	for _, object := range objects {
		if !object.ModifiedAt.Before(cutoff) {
			continue
		}
		if _, ok := referenced[object.Key]; ok {
			continue
		}
		orphans = append(orphans, object.Key)
	}
	return orphans
}
