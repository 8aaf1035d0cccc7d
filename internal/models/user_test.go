package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate(t *testing.T) {
	t.Run("Normalises email and applies defaults", func(t *testing.T) {
		user := &User{Name: "  Dana Field ", Email: "  Dana.Field@Acme.COM "}

		assert.NoError(t, user.BeforeCreate(nil))
		assert.Equal(t, "dana.field@acme.com", user.Email)
		assert.Equal(t, "Dana Field", user.Name)
		assert.Equal(t, RoleInspector, user.Role)
		assert.Equal(t, ApprovalPending, user.ApprovalStatus)
	})

	t.Run("Keeps explicit role and status", func(t *testing.T) {
		user := &User{Email: "a@acme.com", Role: RoleAdmin, ApprovalStatus: ApprovalApproved}

		assert.NoError(t, user.BeforeCreate(nil))
		assert.Equal(t, RoleAdmin, user.Role)
		assert.Equal(t, ApprovalApproved, user.ApprovalStatus)
	})
}

func TestUser_ApproveAndReject(t *testing.T) {
	adminID := uuid.New()
	now := time.Now()

	user := &User{ApprovalStatus: ApprovalPending}
	user.Approve(adminID, now)

	assert.True(t, user.IsApproved())
	assert.Equal(t, &adminID, user.ApprovedBy)
	assert.Equal(t, &now, user.ApprovedAt)

	user.Reject(adminID, "  not an employee ")
	assert.False(t, user.IsApproved())
	assert.Equal(t, ApprovalRejected, user.ApprovalStatus)
	assert.Nil(t, user.ApprovedAt)
	if assert.NotNil(t, user.RejectionReason) {
		assert.Equal(t, "not an employee", *user.RejectionReason)
	}

	user.Reject(adminID, "")
	assert.Nil(t, user.RejectionReason)
}

func TestRole_Valid(t *testing.T) {
	tests := []struct {
		role     Role
		expected bool
	}{
		{RoleInspector, true},
		{RoleManager, true},
		{RoleAdmin, true},
		{Role("supervisor"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.Valid())
		})
	}
}

func TestUser_ToProfile(t *testing.T) {
	user := &User{
		Name:          "Dana Field",
		Email:         "dana@acme.com",
		PasswordHash:  "hash",
		Role:          RoleManager,
		CompanyDomain: "acme.com",
	}
	user.ID = uuid.New()

	profile := user.ToProfile()

	assert.Equal(t, user.ID.String(), profile.ID)
	assert.Equal(t, "Dana Field", profile.Name)
	assert.Equal(t, RoleManager, profile.Role)
	assert.Equal(t, "acme.com", profile.CompanyDomain)
}
