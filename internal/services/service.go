package services

import (
	"hseinspect/config"
	"hseinspect/internal/database"
	"hseinspect/internal/repositories"
)

type Service struct {
	Auth        *AuthService
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Storage     Storage
	Image       *ImageService
	Upload      *UploadService
	FileCleanup *FileCleanupService
	Logging     *LoggingService
}

func New(db database.DB, config config.Config, repos repositories.Repository) (Service, error) {
	storage, err := NewStorage(config)
	if err != nil {
		return Service{}, err
	}

	imageService := NewImageService()

	return Service{
		Auth:        NewAuthService(config, db.Cache.Session),
		Transaction: NewTransactionService(db),
		Scheduler:   NewSchedulerService(),
		Storage:     storage,
		Image:       imageService,
		Upload:      NewUploadService(imageService, storage),
		FileCleanup: NewFileCleanupService(db, storage, repos.Inspection),
		Logging:     NewLoggingService(config.ClientLogsURL),
	}, nil
}
