package adminController

import (
	"context"
	"slices"

	"hseinspect/internal/apperrors"
	. "hseinspect/internal/models"
	"hseinspect/internal/permissions"

	logger "github.com/Bparsons0904/goLogger"
)

// JobRunner is the part of the scheduler the admin endpoints drive.
type JobRunner interface {
	IsRunning() bool
	JobNames() []string
	TriggerJobByName(jobName string) error
}

type JobsResponse struct {
	SchedulerRunning bool     `json:"schedulerRunning"`
	Jobs             []string `json:"jobs"`
}

type AdminControllerInterface interface {
	ListJobs(ctx context.Context, user *User) (*JobsResponse, error)
	TriggerJob(ctx context.Context, user *User, jobName string) error
}

type AdminController struct {
	scheduler JobRunner
	log       logger.Logger
}

func New(scheduler JobRunner) AdminControllerInterface {
	return &AdminController{
		scheduler: scheduler,
		log:       logger.New("adminController"),
	}
}

func (c *AdminController) ListJobs(ctx context.Context, user *User) (*JobsResponse, error) {
	if !permissions.For(user).CanManageUsers {
		return nil, apperrors.ErrForbidden
	}

	jobs := c.scheduler.JobNames()
	slices.Sort(jobs)

	return &JobsResponse{
		SchedulerRunning: c.scheduler.IsRunning(),
		Jobs:             jobs,
	}, nil
}

// TriggerJob runs a registered maintenance job now instead of waiting for
// its schedule.
func (c *AdminController) TriggerJob(ctx context.Context, user *User, jobName string) error {
	log := c.log.TraceFromContext(ctx).Function("TriggerJob")

	if !permissions.For(user).CanManageUsers {
		return apperrors.ErrForbidden
	}
	if !slices.Contains(c.scheduler.JobNames(), jobName) {
		return apperrors.New(apperrors.KindNotFound, "Job not found")
	}

	if err := c.scheduler.TriggerJobByName(jobName); err != nil {
		return log.Err("failed to trigger job", err, "job", jobName)
	}

	log.Info("job triggered", "job", jobName, "userID", user.ID)
	return nil
}
