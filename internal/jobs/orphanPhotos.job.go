package jobs

import (
	"context"
	"sync/atomic"
	"time"

	"hseinspect/internal/constants"
	"hseinspect/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const orphanPhotoRunTimeout = 10 * time.Minute

type OrphanPhotoCleaner interface {
	CleanupOrphanPhotos(ctx context.Context, now time.Time) (int, error)
}

// OrphanPhotoJob sweeps uploaded photos that no inspection references. A run
// that is still listing the bucket when the next tick fires is not doubled up.
type OrphanPhotoJob struct {
	cleaner  OrphanPhotoCleaner
	schedule services.Schedule
	timeout  time.Duration
	running  atomic.Bool
	log      logger.Logger
	now      func() time.Time
}

func NewOrphanPhotoJob(cleaner OrphanPhotoCleaner, schedule services.Schedule) *OrphanPhotoJob {
	return &OrphanPhotoJob{
		cleaner:  cleaner,
		schedule: schedule,
		timeout:  orphanPhotoRunTimeout,
		log:      logger.New("orphanPhotoJob"),
		now:      time.Now,
	}
}

func (j *OrphanPhotoJob) Name() string {
	return constants.JobCleanupOrphanPhotos
}

func (j *OrphanPhotoJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *OrphanPhotoJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	if !j.running.CompareAndSwap(false, true) {
		log.Warn("previous orphan photo sweep still running, skipping")
		return nil
	}
	defer j.running.Store(false)

	runCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	started := j.now()
	removed, err := j.cleaner.CleanupOrphanPhotos(runCtx, started)
	if err != nil {
		return log.Err("orphan photo sweep failed", err, "startedAt", started)
	}

	log.Info("orphan photo sweep finished", "removed", removed, "took", time.Since(started))
	return nil
}
