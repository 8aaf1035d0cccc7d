package adminController

import (
	"context"
	"testing"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	jobs      []string
	triggered []string
}

func (f *fakeScheduler) IsRunning() bool    { return true }
func (f *fakeScheduler) JobNames() []string { return append([]string(nil), f.jobs...) }
func (f *fakeScheduler) TriggerJobByName(name string) error {
	f.triggered = append(f.triggered, name)
	return nil
}

func userWithRole(role models.Role) *models.User {
	user := &models.User{Role: role, ApprovalStatus: models.ApprovalApproved}
	user.ID = uuid.New()
	return user
}

func TestListJobs_Sorted(t *testing.T) {
	scheduler := &fakeScheduler{jobs: []string{"purge_deleted_inspections", "mark_overdue_assignments"}}

	response, err := New(scheduler).ListJobs(context.Background(), userWithRole(models.RoleAdmin))

	require.NoError(t, err)
	assert.True(t, response.SchedulerRunning)
	assert.Equal(t, []string{"mark_overdue_assignments", "purge_deleted_inspections"}, response.Jobs)
}

func TestTriggerJob(t *testing.T) {
	scheduler := &fakeScheduler{jobs: []string{"mark_overdue_assignments"}}
	controller := New(scheduler)

	err := controller.TriggerJob(context.Background(), userWithRole(models.RoleManager), "mark_overdue_assignments")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = controller.TriggerJob(context.Background(), userWithRole(models.RoleAdmin), "nope")
	assert.Equal(t, apperrors.KindNotFound, apperrors.Classify(err))

	err = controller.TriggerJob(context.Background(), userWithRole(models.RoleAdmin), "mark_overdue_assignments")
	require.NoError(t, err)
	assert.Equal(t, []string{"mark_overdue_assignments"}, scheduler.triggered)
}
