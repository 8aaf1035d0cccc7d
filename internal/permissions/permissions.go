// Package permissions maps a user's role to the actions they may perform.
// The table is static; nothing is read from the database.
package permissions

import (
	"hseinspect/internal/models"

	"github.com/google/uuid"
)

type RolePermissions struct {
	CanCreateTemplates    bool `json:"canCreateTemplates"`
	CanEditAnyTemplate    bool `json:"canEditAnyTemplate"`
	CanDeleteTemplates    bool `json:"canDeleteTemplates"`
	CanAssignInspections  bool `json:"canAssignInspections"`
	CanViewAllInspections bool `json:"canViewAllInspections"`
	CanDeleteInspections  bool `json:"canDeleteInspections"`
	CanExportReports      bool `json:"canExportReports"`
	CanApproveUsers       bool `json:"canApproveUsers"`
	CanManageUsers        bool `json:"canManageUsers"`
}

var rolePermissions = map[models.Role]RolePermissions{
	models.RoleInspector: {
		CanCreateTemplates: true,
		CanExportReports:   true,
	},
	models.RoleManager: {
		CanCreateTemplates:    true,
		CanEditAnyTemplate:    true,
		CanDeleteTemplates:    true,
		CanAssignInspections:  true,
		CanViewAllInspections: true,
		CanDeleteInspections:  true,
		CanExportReports:      true,
	},
	models.RoleAdmin: {
		CanCreateTemplates:    true,
		CanEditAnyTemplate:    true,
		CanDeleteTemplates:    true,
		CanAssignInspections:  true,
		CanViewAllInspections: true,
		CanDeleteInspections:  true,
		CanExportReports:      true,
		CanApproveUsers:       true,
		CanManageUsers:        true,
	},
}

// ForRole returns the permission record for role. Unknown roles get nothing.
func ForRole(role models.Role) RolePermissions {
	return rolePermissions[role]
}

// For returns the permissions of an approved user. Unapproved or nil users get nothing.
func For(user *models.User) RolePermissions {
	if user == nil || !user.IsApproved() {
		return RolePermissions{}
	}
	return ForRole(user.Role)
}

func CanEditTemplate(user *models.User, template *models.InspectionTemplate) bool {
	if user == nil || template == nil {
		return false
	}
	perms := For(user)
	if perms.CanEditAnyTemplate {
		return true
	}
	return perms.CanCreateTemplates && template.IsOwnedBy(user.ID)
}

// CanViewInspection reports whether user may read the inspection. assigned is
// whether an assignment for this inspection names the user.
func CanViewInspection(user *models.User, inspection *models.Inspection, assigned bool) bool {
	if user == nil || inspection == nil {
		return false
	}
	if For(user).CanViewAllInspections {
		return true
	}
	return inspection.CreatedBy == user.ID || assigned
}

// CanEditInspection lets the creator, an assignee, or anyone who can view all
// inspections update it.
func CanEditInspection(user *models.User, inspection *models.Inspection, assigned bool) bool {
	return CanViewInspection(user, inspection, assigned)
}

func CanUpdateAssignment(user *models.User, assignedTo, assignedBy uuid.UUID) bool {
	if user == nil || !user.IsApproved() {
		return false
	}
	return user.ID == assignedTo || user.ID == assignedBy || For(user).CanAssignInspections
}
