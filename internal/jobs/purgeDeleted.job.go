package jobs

import (
	"context"
	"time"

	"hseinspect/internal/constants"
	"hseinspect/internal/database"
	"hseinspect/internal/repositories"
	"hseinspect/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// PurgeDeletedJob hard deletes inspections that were removed with their
// assignment and have sat soft deleted past the retention window. Inspections
// deleted on their own are kept.
type PurgeDeletedJob struct {
	inspections repositories.InspectionRepository
	db          database.DB
	retention   time.Duration
	log         logger.Logger
	schedule    services.Schedule
	now         func() time.Time
}

func NewPurgeDeletedJob(
	inspections repositories.InspectionRepository,
	db database.DB,
	schedule services.Schedule,
) *PurgeDeletedJob {
	return &PurgeDeletedJob{
		inspections: inspections,
		db:          db,
		retention:   constants.DeletedInspectionRetention,
		log:         logger.New("purgeDeletedJob"),
		schedule:    schedule,
		now:         time.Now,
	}
}

func (j *PurgeDeletedJob) Name() string {
	return constants.JobPurgeDeletedInspections
}

func (j *PurgeDeletedJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	cutoff := j.now().Add(-j.retention)
	purged, err := j.inspections.PurgeDeleted(ctx, j.db.SQL, cutoff)
	if err != nil {
		return log.Err("failed to purge deleted inspections", err, "cutoff", cutoff)
	}

	log.Info("Purge completed", "purged", purged, "cutoff", cutoff)
	return nil
}

func (j *PurgeDeletedJob) Schedule() services.Schedule {
	return j.schedule
}
