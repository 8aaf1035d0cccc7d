package permissions

import (
	"testing"

	"hseinspect/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func approvedUser(role models.Role) *models.User {
	user := &models.User{Role: role, ApprovalStatus: models.ApprovalApproved}
	user.ID = uuid.New()
	return user
}

func TestForRole_InspectorCannotAssign(t *testing.T) {
	perms := ForRole(models.RoleInspector)

	assert.False(t, perms.CanAssignInspections)
	assert.False(t, perms.CanViewAllInspections)
	assert.False(t, perms.CanApproveUsers)
	assert.True(t, perms.CanCreateTemplates)
	assert.True(t, perms.CanExportReports)
}

func TestForRole_Table(t *testing.T) {
	tests := []struct {
		role          models.Role
		canAssign     bool
		canApprove    bool
		canDeleteTpls bool
	}{
		{models.RoleInspector, false, false, false},
		{models.RoleManager, true, false, true},
		{models.RoleAdmin, true, true, true},
		{models.Role("contractor"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			perms := ForRole(tt.role)
			assert.Equal(t, tt.canAssign, perms.CanAssignInspections)
			assert.Equal(t, tt.canApprove, perms.CanApproveUsers)
			assert.Equal(t, tt.canDeleteTpls, perms.CanDeleteTemplates)
		})
	}
}

func TestFor_UnapprovedUserGetsNothing(t *testing.T) {
	user := &models.User{Role: models.RoleAdmin, ApprovalStatus: models.ApprovalPending}

	assert.Equal(t, RolePermissions{}, For(user))
	assert.Equal(t, RolePermissions{}, For(nil))
}

func TestCanEditTemplate(t *testing.T) {
	owner := approvedUser(models.RoleInspector)
	other := approvedUser(models.RoleInspector)
	manager := approvedUser(models.RoleManager)

	template := &models.InspectionTemplate{CreatedBy: &owner.ID}

	assert.True(t, CanEditTemplate(owner, template))
	assert.False(t, CanEditTemplate(other, template))
	assert.True(t, CanEditTemplate(manager, template))
	assert.False(t, CanEditTemplate(owner, &models.InspectionTemplate{}))
}

func TestCanViewInspection(t *testing.T) {
	creator := approvedUser(models.RoleInspector)
	stranger := approvedUser(models.RoleInspector)
	manager := approvedUser(models.RoleManager)

	inspection := &models.Inspection{CreatedBy: creator.ID}

	assert.True(t, CanViewInspection(creator, inspection, false))
	assert.False(t, CanViewInspection(stranger, inspection, false))
	assert.True(t, CanViewInspection(stranger, inspection, true))
	assert.True(t, CanViewInspection(manager, inspection, false))
}

func TestCanUpdateAssignment(t *testing.T) {
	assignee := approvedUser(models.RoleInspector)
	assigner := approvedUser(models.RoleManager)
	stranger := approvedUser(models.RoleInspector)

	assert.True(t, CanUpdateAssignment(assignee, assignee.ID, assigner.ID))
	assert.True(t, CanUpdateAssignment(assigner, assignee.ID, assigner.ID))
	assert.False(t, CanUpdateAssignment(stranger, assignee.ID, assigner.ID))
}
