package jobs

import (
	"hseinspect/config"
	"hseinspect/internal/database"
	"hseinspect/internal/repositories"
	"hseinspect/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// RegisterAllJobs registers the maintenance jobs with the scheduler. Nothing
// is registered when the scheduler is disabled.
func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
	repos repositories.Repository,
	db database.DB,
	overdue OverdueMarker,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	if err := schedulerService.AddJob(NewOverdueAssignmentsJob(overdue, Hourly)); err != nil {
		return log.Err("failed to register overdue assignments job", err)
	}
	log.Info("Registered overdue assignments job", "schedule", "hourly")

	if err := schedulerService.AddJob(NewPurgeDeletedJob(repos.Inspection, db, Daily)); err != nil {
		return log.Err("failed to register purge job", err)
	}
	log.Info("Registered purge job", "schedule", "daily")

	if err := schedulerService.AddJob(NewOrphanPhotoJob(services.FileCleanup, Nightly)); err != nil {
		return log.Err("failed to register orphan photo job", err)
	}
	log.Info("Registered orphan photo job", "schedule", "nightly")

	return nil
}

const (
	Hourly  = services.Hourly
	Daily   = services.Daily
	Nightly = services.Nightly
)
