package jobs

import (
	"context"

	"hseinspect/internal/constants"
	"hseinspect/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int, error)
}

// OverdueAssignmentsJob flags open assignments whose due date has passed.
type OverdueAssignmentsJob struct {
	assignments OverdueMarker
	log         logger.Logger
	schedule    services.Schedule
}

func NewOverdueAssignmentsJob(assignments OverdueMarker, schedule services.Schedule) *OverdueAssignmentsJob {
	return &OverdueAssignmentsJob{
		assignments: assignments,
		log:         logger.New("overdueAssignmentsJob"),
		schedule:    schedule,
	}
}

func (j *OverdueAssignmentsJob) Name() string {
	return constants.JobMarkOverdueAssignments
}

func (j *OverdueAssignmentsJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	count, err := j.assignments.MarkOverdue(ctx)
	if err != nil {
		return log.Err("failed to mark overdue assignments", err)
	}

	log.Info("Overdue check completed", "marked", count)
	return nil
}

func (j *OverdueAssignmentsJob) Schedule() services.Schedule {
	return j.schedule
}
